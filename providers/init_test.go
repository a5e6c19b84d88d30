package providers_test

import (
	"github.com/9seconds/geolocator/geolib"
	"github.com/9seconds/geolocator/providers"
	"github.com/jarcoal/httpmock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"
)

type ProviderTestSuite struct {
	suite.Suite

	http geolib.HTTPClient
	fs   afero.Fs
}

func (suite *ProviderTestSuite) SetupTest() {
	suite.http = providers.NewHTTPClient(geolib.Options{
		"user_agent":                "test-agent",
		"circuit_breaker_threshold": 100,
	})
	suite.fs = afero.NewMemMapFs()
}

type MockedProviderTestSuite struct {
	ProviderTestSuite
}

func (suite *MockedProviderTestSuite) SetupSuite() {
	httpmock.Activate()
}

func (suite *MockedProviderTestSuite) TearDownSuite() {
	httpmock.DeactivateAndReset()
}

func (suite *MockedProviderTestSuite) TearDownTest() {
	httpmock.Reset()
}
