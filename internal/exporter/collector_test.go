package exporter

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanr70/usage/internal/usage"
)

func gather(t *testing.T, c *Collector) map[string]*dto.MetricFamily {
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	mfs, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]*dto.MetricFamily{}
	for _, mf := range mfs {
		byName[mf.GetName()] = mf
	}
	return byName
}

func labels(m *dto.Metric) map[string]string {
	out := map[string]string{}
	for _, l := range m.GetLabel() {
		out[l.GetName()] = l.GetValue()
	}
	return out
}

func TestCollectorBeforeFirstObserve(t *testing.T) {
	mfs := gather(t, NewCollector())

	require.Contains(t, mfs, "usage_cycles_total")
	assert.Equal(t, 0.0, mfs["usage_cycles_total"].GetMetric()[0].GetCounter().GetValue())
	assert.NotContains(t, mfs, "usage_user_cpu_percent")
	assert.NotContains(t, mfs, "usage_users_tracked")
}

func TestCollectorReportsLatestSnapshot(t *testing.T) {
	c := NewCollector()
	c.Observe(usage.Snapshot{Users: []usage.User{{Entry: usage.Entry{ID: 1, Mean: 99}, Name: "stale"}}}, time.Second)
	c.Observe(usage.Snapshot{
		Users: []usage.User{
			{Entry: usage.Entry{ID: 1000, Mean: 42.5}, Name: "Ada"},
			{Entry: usage.Entry{ID: 0, Mean: 1.25}, Name: "root"},
		},
		Cores: usage.CoreUsage{10, 90},
	}, 250*time.Millisecond)

	mfs := gather(t, c)

	users := mfs["usage_user_cpu_percent"].GetMetric()
	require.Len(t, users, 2)
	got := map[string]float64{}
	for _, m := range users {
		l := labels(m)
		got[l["uid"]+"/"+l["user"]] = m.GetGauge().GetValue()
	}
	assert.Equal(t, map[string]float64{"1000/Ada": 42.5, "0/root": 1.25}, got)

	cores := mfs["usage_core_cpu_percent"].GetMetric()
	require.Len(t, cores, 2)
	coreValues := map[string]float64{}
	for _, m := range cores {
		coreValues[labels(m)["core"]] = m.GetGauge().GetValue()
	}
	assert.Equal(t, map[string]float64{"cpu0": 10, "cpu1": 90}, coreValues)

	assert.Equal(t, 2.0, mfs["usage_users_tracked"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, 0.25, mfs["usage_cycle_duration_seconds"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, 2.0, mfs["usage_cycles_total"].GetMetric()[0].GetCounter().GetValue())
}
