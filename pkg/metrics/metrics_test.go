package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/gaposa/pkg/poll"
)

func TestObserver(t *testing.T) {
	m := New()
	m.now = func() time.Time { return time.Unix(1700000000, 0) }

	obs := m.Observer("ABC123")
	obs.FetchCompleted(120*time.Millisecond, nil)
	obs.FetchCompleted(3*time.Second, errors.New("boom"))
	obs.WaiterReleased(poll.Satisfied)
	obs.WaiterReleased(poll.Satisfied)
	obs.WaiterReleased(poll.Exhausted)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchFailures.WithLabelValues("ABC123")))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(m.lastFetch.WithLabelValues("ABC123")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.waiters.WithLabelValues("ABC123", "satisfied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.waiters.WithLabelValues("ABC123", "exhausted")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.fetchDuration))

	m.Observer("XYZ").FetchCompleted(time.Second, nil)
	assert.Equal(t, 2, testutil.CollectAndCount(m.fetchDuration))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Observer("ABC123").WaiterReleased(poll.Abandoned)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `gaposa_waiters_released_total{device="ABC123",outcome="abandoned"} 1`), body)
}

func TestObserverDrivenByCoordinator(t *testing.T) {
	m := New()
	c := poll.New(func(ctx context.Context) error { return nil }, poll.Config{MaxRetries: 1, FetchTimeout: time.Second}, logr.Discard(), m.Observer("DEV"))
	defer c.Close()

	outcome, err := c.WaitForUpdate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, poll.Satisfied, outcome)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.waiters.WithLabelValues("DEV", "satisfied")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.fetchFailures.WithLabelValues("DEV")))
}
