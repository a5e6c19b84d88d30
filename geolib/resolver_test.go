package geolib_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/9seconds/geolocator/geolib"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ResolverTestSuite struct {
	suite.Suite

	ctx      context.Context
	provider *ProviderMock
	logger   *LoggerMock
	registry *geolib.Registry
	r        *geolib.Resolver
	data     geolib.AttributeMap
}

func (suite *ResolverTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.provider = &ProviderMock{}
	suite.logger = &LoggerMock{}
	suite.registry = geolib.NewRegistry()
	suite.data = geolib.AttributeMap{
		"city":        "Nizhny Novgorod",
		"countryCode": "RU",
		"latitude":    56.3287,
		"location": map[string]interface{}{
			"lat": 56.3287,
		},
	}

	suite.provider.On("Name").Return("mock").Maybe()
	suite.logger.On("LookupDone", mock.Anything, "mock", mock.Anything).Maybe()
	suite.logger.On("LookupError", mock.Anything, "mock", mock.Anything).Maybe()

	suite.registry.Register("mock", func(geolib.Options) (geolib.Provider, error) {
		return suite.provider, nil
	})

	r, err := geolib.NewResolver(geolib.Config{Driver: "mock"}, geolib.ResolverOpts{
		Registry: suite.registry,
		Logger:   suite.logger,
		Signals: geolib.RequestSignals{
			ForwardedFor: "1.2.3.4",
			RemoteAddr:   "5.6.7.8",
		},
	})

	suite.NoError(err)

	suite.r = r
}

func (suite *ResolverTestSuite) TearDownTest() {
	suite.provider.AssertExpectations(suite.T())
	suite.logger.AssertExpectations(suite.T())
}

func (suite *ResolverTestSuite) TestProvider() {
	suite.Equal(suite.provider, suite.r.Provider())
}

func (suite *ResolverTestSuite) TestIPFromSignals() {
	suite.Equal("1.2.3.4", suite.r.IP())
}

func (suite *ResolverTestSuite) TestSetIPOverrides() {
	suite.Equal(suite.r, suite.r.SetIP("8.8.8.8"))
	suite.Equal("8.8.8.8", suite.r.IP())

	ip, source := suite.r.IPSource()

	suite.Equal("8.8.8.8", ip)
	suite.Equal(geolib.SourceOverride, source)
}

func (suite *ResolverTestSuite) TestGetAll() {
	suite.provider.On("Lookup", suite.ctx, "1.2.3.4").Return(suite.data, nil).Once()

	value, err := suite.r.Get(suite.ctx, "")

	suite.NoError(err)
	suite.Equal(suite.data, value)

	data := value.(geolib.AttributeMap)

	for key := range data {
		v, err := suite.r.Get(suite.ctx, key)

		suite.NoError(err)
		suite.Equal(data[key], v)
	}
}

func (suite *ResolverTestSuite) TestGetProperty() {
	suite.provider.On("Lookup", suite.ctx, "1.2.3.4").Return(suite.data, nil).Once()

	value, err := suite.r.Get(suite.ctx, "city")

	suite.NoError(err)
	suite.Equal("Nizhny Novgorod", value)

	value, err = suite.r.Get(suite.ctx, "location.lat")

	suite.NoError(err)
	suite.Equal(56.3287, value)
}

func (suite *ResolverTestSuite) TestSoftMiss() {
	suite.provider.On("Lookup", suite.ctx, "1.2.3.4").Return(suite.data, nil).Once()

	value, err := suite.r.Get(suite.ctx, "nonexistentKey")

	suite.NoError(err)
	suite.Equal("", value)

	value, err = suite.r.Get(suite.ctx, "location.lon")

	suite.NoError(err)
	suite.Equal("", value)
}

func (suite *ResolverTestSuite) TestLookupOncePerIP() {
	suite.provider.On("Lookup", suite.ctx, "1.2.3.4").Return(suite.data, nil).Once()
	suite.provider.On("Lookup", suite.ctx, "8.8.8.8").Return(geolib.AttributeMap{"city": "Mountain View"}, nil).Once()

	for i := 0; i < 3; i++ {
		value, err := suite.r.Get(suite.ctx, "city")

		suite.NoError(err)
		suite.Equal("Nizhny Novgorod", value)
	}

	suite.r.SetIP("8.8.8.8")

	for i := 0; i < 3; i++ {
		value, err := suite.r.Get(suite.ctx, "city")

		suite.NoError(err)
		suite.Equal("Mountain View", value)
	}

	suite.True(suite.r.Cached("1.2.3.4"))
	suite.True(suite.r.Cached("8.8.8.8"))
	suite.provider.AssertNumberOfCalls(suite.T(), "Lookup", 2)
}

func (suite *ResolverTestSuite) TestEmptyResultIsCached() {
	suite.provider.On("Lookup", suite.ctx, "1.2.3.4").Return(nil, nil).Once()

	value, err := suite.r.Get(suite.ctx, "")

	suite.NoError(err)
	suite.Equal(geolib.AttributeMap{}, value)

	_, err = suite.r.Get(suite.ctx, "city")

	suite.NoError(err)
	suite.provider.AssertNumberOfCalls(suite.T(), "Lookup", 1)
}

func (suite *ResolverTestSuite) TestLookupError() {
	suite.r.SetIP("9.9.9.9")
	suite.provider.On("Lookup", suite.ctx, "9.9.9.9").Return(nil, io.EOF).Twice()

	_, err := suite.r.Get(suite.ctx, "city")

	var lookupErr *geolib.LookupError

	suite.True(errors.As(err, &lookupErr))
	suite.Equal("9.9.9.9", lookupErr.IP)
	suite.Equal("mock", lookupErr.Provider)
	suite.True(errors.Is(err, io.EOF))
	suite.False(suite.r.Cached("9.9.9.9"))

	_, err = suite.r.Data(suite.ctx)

	suite.Error(err)
	suite.logger.AssertNumberOfCalls(suite.T(), "LookupError", 2)
}

func (suite *ResolverTestSuite) TestRetryAfterFailure() {
	suite.r.SetIP("9.9.9.9")
	suite.provider.On("Lookup", suite.ctx, "9.9.9.9").Return(nil, io.EOF).Once()
	suite.provider.On("Lookup", suite.ctx, "9.9.9.9").Return(suite.data, nil).Once()

	_, err := suite.r.Get(suite.ctx, "city")

	suite.Error(err)

	value, err := suite.r.Get(suite.ctx, "city")

	suite.NoError(err)
	suite.Equal("Nizhny Novgorod", value)
	suite.True(suite.r.Cached("9.9.9.9"))
}

func (suite *ResolverTestSuite) TestClose() {
	suite.NoError(suite.r.Close())
}

func TestResolver(t *testing.T) {
	suite.Run(t, &ResolverTestSuite{})
}

type ResolverConstructionTestSuite struct {
	suite.Suite

	registry *geolib.Registry
}

func (suite *ResolverConstructionTestSuite) SetupTest() {
	suite.registry = geolib.NewRegistry()
}

func (suite *ResolverConstructionTestSuite) TestUnknownDriver() {
	factoryCalled := false

	suite.registry.Register("ip-api", func(geolib.Options) (geolib.Provider, error) {
		factoryCalled = true

		return &ProviderMock{}, nil
	})

	_, err := geolib.NewResolver(geolib.Config{Driver: "ip-apo"}, geolib.ResolverOpts{
		Registry: suite.registry,
	})

	var confErr *geolib.ConfigurationError

	suite.True(errors.As(err, &confErr))
	suite.Equal("ip-apo", confErr.Driver)
	suite.Equal("ip-api", confErr.Suggestion)
	suite.False(factoryCalled)
}

func (suite *ResolverConstructionTestSuite) TestDefaultDriver() {
	prov := &ProviderMock{}

	suite.registry.Register(geolib.DefaultDriver, func(geolib.Options) (geolib.Provider, error) {
		return prov, nil
	})

	r, err := geolib.NewResolver(geolib.Config{}, geolib.ResolverOpts{
		Registry: suite.registry,
	})

	suite.NoError(err)
	suite.Equal(prov, r.Provider())
	suite.Equal(geolib.FallbackIP, r.IP())
}

func (suite *ResolverConstructionTestSuite) TestCloseOwnedProvider() {
	prov := &ClosingProviderMock{}

	prov.On("Close").Return(nil).Once()

	suite.registry.Register("closing", func(geolib.Options) (geolib.Provider, error) {
		return prov, nil
	})

	r, err := geolib.NewResolver(geolib.Config{Driver: "closing"}, geolib.ResolverOpts{
		Registry: suite.registry,
	})

	suite.NoError(err)
	suite.NoError(r.Close())
	prov.AssertExpectations(suite.T())
}

func (suite *ResolverConstructionTestSuite) TestSharedProviderIsNotClosed() {
	prov := &ClosingProviderMock{}
	r := geolib.NewProviderResolver(prov, geolib.ResolverOpts{})

	suite.NoError(r.Close())
	prov.AssertNotCalled(suite.T(), "Close")
}

func TestResolverConstruction(t *testing.T) {
	suite.Run(t, &ResolverConstructionTestSuite{})
}
