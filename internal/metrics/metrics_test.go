package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilesim/server/internal/animtile"
	"github.com/tilesim/server/internal/tile"
)

var _ animtile.PassObserver = (*Metrics)(nil)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func TestMetricsRecordPass(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.PassStarted(3)
	m.TileAnimated(tile.House)
	m.TileAnimated(tile.House)
	m.TileAnimated(tile.Object)
	m.PassFinished(3, 2*time.Millisecond)

	fams := gather(t, reg)

	assert.Equal(t, 3.0, fams["tilesim_animation_registry_tiles"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, 1.0, fams["tilesim_animation_passes_total"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, uint64(1), fams["tilesim_animation_pass_duration_seconds"].GetMetric()[0].GetHistogram().GetSampleCount())

	calls := map[string]float64{}
	for _, metric := range fams["tilesim_animation_handler_calls_total"].GetMetric() {
		calls[metric.GetLabel()[0].GetValue()] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"house": 2, "object": 1}, calls)
}

func TestMetricsHandler(t *testing.T) {
	m := New()
	m.PassStarted(1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "tilesim_animation_registry_tiles 1")
}
