package geolib

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type CircuitBreakerTestSuite struct {
	suite.Suite

	cb        *circuitBreaker
	ctx       context.Context
	ctxCancel context.CancelFunc
}

func (suite *CircuitBreakerTestSuite) SetupTest() {
	suite.ctx, suite.ctxCancel = context.WithCancel(context.Background())
	suite.cb = newCircuitBreaker(2, 200*time.Millisecond, 500*time.Millisecond)
}

func (suite *CircuitBreakerTestSuite) TearDownTest() {
	suite.ctxCancel()

	suite.cb.close()
}

func (suite *CircuitBreakerTestSuite) CallbackOk(_ context.Context) (*http.Response, error) {
	rec := httptest.NewRecorder()

	rec.WriteHeader(http.StatusCreated)

	return rec.Result(), nil
}

func (suite *CircuitBreakerTestSuite) CallbackErr(_ context.Context) (*http.Response, error) {
	return nil, io.EOF
}

func (suite *CircuitBreakerTestSuite) CallbackIgnore(_ context.Context) (*http.Response, error) {
	return nil, ErrCircuitBreakerIgnore
}

func (suite *CircuitBreakerTestSuite) Open() {
	for i := 0; i < 3; i++ {
		suite.cb.Do(suite.ctx, suite.CallbackErr) // nolint: errcheck
	}
}

func (suite *CircuitBreakerTestSuite) TestOk() {
	resp, err := suite.cb.Do(suite.ctx, suite.CallbackOk)

	suite.NoError(err)
	suite.Equal(http.StatusCreated, resp.StatusCode)
	suite.EqualValues(circuitBreakerStateClosed, suite.cb.state)
}

func (suite *CircuitBreakerTestSuite) TestSomeFailuresButStillClosed() {
	_, err := suite.cb.Do(suite.ctx, suite.CallbackErr)

	suite.Error(err)
	suite.EqualValues(1, suite.cb.failuresCount)
	suite.EqualValues(circuitBreakerStateClosed, suite.cb.state)

	_, err = suite.cb.Do(suite.ctx, suite.CallbackErr)

	suite.Error(err)
	suite.EqualValues(2, suite.cb.failuresCount)
	suite.EqualValues(circuitBreakerStateClosed, suite.cb.state)

	_, err = suite.cb.Do(suite.ctx, suite.CallbackErr)

	suite.Error(err)
	suite.EqualValues(0, suite.cb.failuresCount)
	suite.EqualValues(circuitBreakerStateOpened, suite.cb.state)
}

func (suite *CircuitBreakerTestSuite) TestSuccessResetsFailures() {
	suite.cb.Do(suite.ctx, suite.CallbackErr) // nolint: errcheck
	suite.cb.Do(suite.ctx, suite.CallbackOk)  // nolint: errcheck

	suite.EqualValues(0, suite.cb.failuresCount)
	suite.EqualValues(circuitBreakerStateClosed, suite.cb.state)
}

func (suite *CircuitBreakerTestSuite) TestClosedFailureReset() {
	suite.cb.Do(suite.ctx, suite.CallbackErr) // nolint: errcheck
	suite.cb.Do(suite.ctx, suite.CallbackErr) // nolint: errcheck

	time.Sleep(time.Second)

	suite.cb.mutex.Lock()
	defer suite.cb.mutex.Unlock()

	suite.EqualValues(0, suite.cb.failuresCount)
	suite.EqualValues(circuitBreakerStateClosed, suite.cb.state)
}

func (suite *CircuitBreakerTestSuite) TestOpenedExecute() {
	suite.Open()

	_, err := suite.cb.Do(suite.ctx, suite.CallbackOk)

	suite.ErrorIs(err, ErrCircuitBreakerOpened)
	suite.EqualValues(circuitBreakerStateOpened, suite.cb.state)
}

func (suite *CircuitBreakerTestSuite) TestIgnoredErrorsAreNotCounted() {
	for i := 0; i < 4; i++ {
		_, err := suite.cb.Do(suite.ctx, suite.CallbackIgnore)

		suite.ErrorIs(err, ErrCircuitBreakerIgnore)
	}

	_, err := suite.cb.Do(suite.ctx, suite.CallbackOk)

	suite.NoError(err)
	suite.EqualValues(circuitBreakerStateClosed, suite.cb.state)
}

func (suite *CircuitBreakerTestSuite) TestHalfOpened() {
	suite.Open()

	time.Sleep(700 * time.Millisecond)

	suite.EqualValues(circuitBreakerStateHalfOpened, suite.cb.state)
}

func (suite *CircuitBreakerTestSuite) TestHalfOpenedErr() {
	suite.Open()

	time.Sleep(700 * time.Millisecond)

	suite.cb.Do(suite.ctx, suite.CallbackErr) // nolint: errcheck

	suite.EqualValues(circuitBreakerStateOpened, suite.cb.state)
}

func (suite *CircuitBreakerTestSuite) TestHalfOpenedOk() {
	suite.Open()

	time.Sleep(700 * time.Millisecond)

	suite.cb.Do(suite.ctx, suite.CallbackOk) // nolint: errcheck

	suite.EqualValues(circuitBreakerStateClosed, suite.cb.state)
}

func (suite *CircuitBreakerTestSuite) TestHalfOpenedCancelledIsNotCounted() {
	suite.Open()

	time.Sleep(700 * time.Millisecond)

	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithCancel(context.Background())

		cancel()

		_, err := suite.cb.Do(ctx, suite.CallbackIgnore)

		suite.ErrorIs(err, ErrCircuitBreakerIgnore)
		suite.EqualValues(circuitBreakerStateHalfOpened, suite.cb.state)
		suite.False(suite.cb.halfOpenTrialActive)
	}

	resp, err := suite.cb.Do(suite.ctx, suite.CallbackOk)

	suite.NoError(err)
	suite.Equal(http.StatusCreated, resp.StatusCode)
	suite.EqualValues(circuitBreakerStateClosed, suite.cb.state)
}

func (suite *CircuitBreakerTestSuite) TestHalfOpenedSingleTrial() {
	suite.Open()

	time.Sleep(700 * time.Millisecond)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)

		suite.cb.Do(suite.ctx, func(ctx context.Context) (*http.Response, error) { // nolint: errcheck
			close(started)
			<-release

			return suite.CallbackOk(ctx)
		})
	}()

	<-started

	_, err := suite.cb.Do(suite.ctx, suite.CallbackOk)

	suite.ErrorIs(err, ErrCircuitBreakerOpened)

	close(release)
	<-done

	suite.EqualValues(circuitBreakerStateClosed, suite.cb.state)
}

func (suite *CircuitBreakerTestSuite) TestClosedCancelledContextKeepsResponse() {
	ctx, cancel := context.WithCancel(context.Background())

	cancel()

	resp, err := suite.cb.Do(ctx, suite.CallbackOk)

	suite.NoError(err)
	suite.Equal(http.StatusCreated, resp.StatusCode)
	suite.NoError(resp.Body.Close())
}

func TestCircuitBreaker(t *testing.T) {
	suite.Run(t, &CircuitBreakerTestSuite{})
}
