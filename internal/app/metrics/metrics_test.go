package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveStage(t *testing.T) {
	m := New()
	start := time.Now().Add(-2 * time.Second)

	m.ObserveStage("transcribe", start, nil)
	m.ObserveStage("transcribe", start, errors.New("boom"))
	m.ObserveStage("render", start, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.stageTotal.WithLabelValues("transcribe", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stageTotal.WithLabelValues("transcribe", "failure")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.stageDuration))
}

func TestRenderAttempt(t *testing.T) {
	m := New()
	m.RenderAttempt(true)
	m.RenderAttempt(false)
	m.RenderAttempt(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.renderAttempts.WithLabelValues("false")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveStage("ingest", time.Now(), nil)
		m.RenderAttempt(true)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.RenderAttempt(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `opencaption_render_attempts_total{success="true"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
