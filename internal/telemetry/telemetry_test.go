package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestNoopCollector(t *testing.T) {
	c := Noop()
	require.NotNil(t, c)
	c.IncCache(true)
	c.ObserveFetch(SourceNetwork, time.Second, nil)
	c.IncMutation("create", nil)
	c.SetTotal(3)
}

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewPrometheusCollector(reg)
	require.NoError(t, err)

	c.IncCache(true)
	c.IncCache(true)
	c.IncCache(false)
	c.ObserveFetch(SourceNetwork, 20*time.Millisecond, nil)
	c.IncMutation("delete", errors.New("boom"))
	c.SetTotal(42)

	mm := gather(t, reg)
	requireCounter(t, mm["userdeck_page_cache_requests_total"], map[string]string{"result": "hit"}, 2)
	requireCounter(t, mm["userdeck_page_cache_requests_total"], map[string]string{"result": "miss"}, 1)
	requireCounter(t, mm["userdeck_mutations_total"], map[string]string{"kind": "delete", "outcome": "error"}, 1)
	require.Equal(t, float64(42), mm["userdeck_users_total"].Metric[0].GetGauge().GetValue())
	require.Equal(t, uint64(1), mm["userdeck_fetch_duration_seconds"].Metric[0].GetHistogram().GetSampleCount())
}

func TestPrometheusCollectorReuses(t *testing.T) {
	reg := prometheus.NewRegistry()
	c1, err := NewPrometheusCollector(reg)
	require.NoError(t, err)
	c2, err := NewPrometheusCollector(reg)
	require.NoError(t, err)
	require.Same(t, c1.cache, c2.cache)

	c1.IncCache(true)
	c2.IncCache(true)
	requireCounter(t, gather(t, reg)["userdeck_page_cache_requests_total"], map[string]string{"result": "hit"}, 2)
}

func TestNilPrometheusCollector(t *testing.T) {
	var c *PrometheusCollector
	c.IncCache(true)
	c.SetTotal(1)
}

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	ff, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(ff))
	for _, f := range ff {
		out[f.GetName()] = f
	}
	return out
}

func requireCounter(t *testing.T, mf *dto.MetricFamily, labels map[string]string, value float64) {
	t.Helper()
	require.NotNil(t, mf)
	for _, m := range mf.Metric {
		match := true
		for _, lp := range m.GetLabel() {
			if v, ok := labels[lp.GetName()]; ok && v != lp.GetValue() {
				match = false
			}
		}
		if match {
			require.Equal(t, value, m.GetCounter().GetValue())
			return
		}
	}
	t.Fatalf("no metric matching %v", labels)
}
