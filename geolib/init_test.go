package geolib_test

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/9seconds/geolocator/geolib"
	"github.com/stretchr/testify/mock"
)

type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) Lookup(ctx context.Context, ip string) (geolib.AttributeMap, error) {
	args := m.Called(ctx, ip)

	if data := args.Get(0); data != nil {
		return data.(geolib.AttributeMap), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *ProviderMock) Name() string {
	return m.Called().String(0)
}

type ClosingProviderMock struct {
	ProviderMock
}

func (m *ClosingProviderMock) Close() error {
	return m.Called().Error(0)
}

type LoggerMock struct {
	mock.Mock
}

func (m *LoggerMock) LookupError(ip, provider string, err error) {
	m.Called(ip, provider, err)
}

func (m *LoggerMock) LookupDone(ip, provider string, elapsed time.Duration) {
	m.Called(ip, provider, elapsed)
}

func decodeJSON(reader io.Reader, target interface{}) error {
	return json.NewDecoder(reader).Decode(target)
}
