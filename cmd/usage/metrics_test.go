package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanr70/usage/internal/exporter"
	"github.com/evanr70/usage/internal/usage"
)

func TestNewRegistry(t *testing.T) {
	col := exporter.NewCollector()
	col.Observe(usage.Snapshot{Users: []usage.User{{Entry: usage.Entry{ID: 0, Mean: 3}, Name: "root"}}}, time.Millisecond)

	mfs, err := newRegistry(col).Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["usage_build_info"])
	assert.True(t, names["usage_user_cpu_percent"])
	assert.True(t, names["usage_cycles_total"])
}
