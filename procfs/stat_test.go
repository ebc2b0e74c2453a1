// Copyright 2016 DigitalOcean
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package procfs

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStatValues = `cpu  433 1 653 4451143 183 0 130 0 0 0
cpu0 185 0 345 2224578 102 0 106 0 0 0
cpu1 248 1 308 2226565 80 0 23 0 0 0
intr 339569 44 9 0 0 0 0 0 0 0 0 0 0 133 0 20059 20881 0 0 0 15068 2271 6850 0 0 0
ctxt 450500
btime 1447251166
processes 1693
procs_running 1
procs_blocked 0
softirq 274487 0 86947 4456 14978 25431 0 3 83095 239 59338
`

func TestReadStat(t *testing.T) {
	s, err := readStat(strings.NewReader(testStatValues))
	require.NoError(t, err)

	assert.Len(t, s.CPUS, 3)
	assert.Equal(t, uint64(339569), s.Interrupt)
	assert.Equal(t, uint64(450500), s.ContextSwitch)
	assert.Equal(t, uint64(1693), s.Processes)
}

func TestStatCoresSkipsAggregate(t *testing.T) {
	s, err := readStat(strings.NewReader(testStatValues))
	require.NoError(t, err)

	cores := s.Cores()
	require.Len(t, cores, 2)
	assert.Equal(t, "cpu0", cores[0].CPU)
	assert.Equal(t, "cpu1", cores[1].CPU)
}

func TestFSNewStat(t *testing.T) {
	fs, err := NewFS("testdata/proc")
	require.NoError(t, err)

	s, err := fs.NewStat()
	require.NoError(t, err)
	assert.Len(t, s.Cores(), 2)
	assert.Equal(t, uint64(1), s.ProcessesRunning)
}

func TestParseCPUValues(t *testing.T) {
	const testLine = "cpu0 185 1 345 2224578 102 2 106 3 4 5"

	c, err := parseCPU(testLine)
	require.NoError(t, err)

	cr := reflect.ValueOf(c)

	var cpuTestValues = []struct {
		n        string
		expected uint64
	}{
		{"User", 185},
		{"Nice", 1},
		{"System", 345},
		{"Idle", 2224578},
		{"Iowait", 102},
		{"Irq", 2},
		{"Softirq", 106},
		{"Steal", 3},
		{"Guest", 4},
		{"GuestNice", 5},
	}

	for _, ct := range cpuTestValues {
		actual := reflect.Indirect(cr).FieldByName(ct.n).Uint()
		assert.Equal(t, ct.expected, actual, "CPU.%s", ct.n)
	}

	assert.Equal(t, "cpu0", c.CPU)
}

func TestParseCPUShortLinePadsZeros(t *testing.T) {
	c, err := parseCPU("cpu3 1 2 3 4")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), c.Steal)
	assert.Equal(t, uint64(10), c.TotalTime())
}

func TestParseCPUFail(t *testing.T) {
	_, err := parseCPU("cpu1 248 1 308")
	assert.Error(t, err, "there aren't enough fields")
}

func TestParseStat(t *testing.T) {
	s := Stat{}

	require.NoError(t, parseStat("ctxt 450500", &s))
	assert.Equal(t, uint64(450500), s.ContextSwitch)

	require.NoError(t, parseStat("procs_running 1", &s))
	assert.Equal(t, uint64(1), s.ProcessesRunning)

	assert.Error(t, parseStat("btime", &s))
}

func TestCPUTotalTimeExcludesGuest(t *testing.T) {
	c := CPU{User: 10, Nice: 1, System: 5, Idle: 100, Iowait: 4, Irq: 1, Softirq: 1, Steal: 2, Guest: 7, GuestNice: 3}
	assert.Equal(t, uint64(124), c.TotalTime())
	assert.Equal(t, uint64(104), c.IdleTime())
}

func TestCPUUtilization(t *testing.T) {
	prev := CPU{User: 100, System: 50, Idle: 800, Iowait: 50}
	tests := []struct {
		name string
		cur  CPU
		want float64
	}{
		{"half busy", CPU{User: 140, System: 60, Idle: 840, Iowait: 60}, 50},
		{"fully busy", CPU{User: 200, System: 50, Idle: 800, Iowait: 50}, 100},
		{"idle", CPU{User: 100, System: 50, Idle: 900, Iowait: 50}, 0},
		{"no elapsed time", prev, 0},
		{"counters reset", CPU{User: 1, Idle: 2}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.cur.Utilization(prev), 1e-9)
		})
	}
}
