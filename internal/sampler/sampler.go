// Package sampler turns successive procfs readings into per-user and per-core
// CPU percentages.
package sampler

import (
	"time"

	"github.com/pkg/errors"
	"github.com/tklauser/go-sysconf"

	"github.com/evanr70/usage/internal/usage"
	"github.com/evanr70/usage/procfs"
)

// defaultClockTicks is USER_HZ on nearly every Linux build.
const defaultClockTicks = 100

var (
	// clockTicks allows tests to avoid calling sysconf.
	clockTicks = func() float64 {
		if sc, err := sysconf.Sysconf(sysconf.SC_CLK_TCK); err == nil && sc > 0 {
			return float64(sc)
		}
		return defaultClockTicks
	}

	now = time.Now
)

type procState struct {
	ticks     uint64
	startTime uint64
}

// Sampler computes CPU usage since its previous reading. It is not safe for
// concurrent use; the refresh loop is its only caller.
type Sampler struct {
	procs  procfs.Procer
	stats  procfs.Stater
	clkTck float64

	// cores is fixed by the first reading
	cores     []string
	lastCPUs  map[string]procfs.CPU
	lastProcs map[int]procState
	lastTime  time.Time
}

// New takes a baseline reading so that the first Sample reports usage over
// the time since New returned.
func New(procs procfs.Procer, stats procfs.Stater) (*Sampler, error) {
	s := &Sampler{
		procs:  procs,
		stats:  stats,
		clkTck: clockTicks(),
	}

	stat, err := stats.NewStat()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read initial cpu stat")
	}
	for _, c := range stat.Cores() {
		s.cores = append(s.cores, c.CPU)
	}
	s.lastCPUs = indexCPUs(stat)

	samples, err := procs.NewProcSamples()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read initial process table")
	}
	s.lastProcs = indexProcs(samples)
	s.lastTime = now()

	return s, nil
}

// NumCores is the length of every CoreUsage this sampler returns.
func (s *Sampler) NumCores() int {
	return len(s.cores)
}

// Sample returns the summed CPU percentage of each user's processes and the
// utilization of each core since the previous call. A process percentage is
// relative to one core, so a user can exceed 100.
func (s *Sampler) Sample() (usage.Instant, usage.CoreUsage, error) {
	stat, err := s.stats.NewStat()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read cpu stat")
	}
	samples, err := s.procs.NewProcSamples()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read process table")
	}
	t := now()

	cpus := indexCPUs(stat)
	cores := make(usage.CoreUsage, len(s.cores))
	for i, name := range s.cores {
		cur, ok := cpus[name]
		if !ok {
			continue // core went offline
		}
		if prev, ok := s.lastCPUs[name]; ok {
			cores[i] = cur.Utilization(prev)
		}
	}

	instant := usage.Instant{}
	elapsed := t.Sub(s.lastTime).Seconds()
	for _, p := range samples {
		// every owner appears, even with idle processes only
		instant[usage.UserID(p.UID)] += s.processPercent(p, elapsed)
	}

	s.lastCPUs = cpus
	s.lastProcs = indexProcs(samples)
	s.lastTime = t

	return instant, cores, nil
}

func (s *Sampler) processPercent(p procfs.ProcSample, elapsed float64) float64 {
	prev, ok := s.lastProcs[p.PID]
	if !ok || prev.startTime != p.StartTime || p.Ticks < prev.ticks || elapsed <= 0 {
		return 0
	}
	return (float64(p.Ticks-prev.ticks) / s.clkTck) / elapsed * 100
}

func indexCPUs(stat procfs.Stat) map[string]procfs.CPU {
	m := make(map[string]procfs.CPU, len(stat.CPUS))
	for _, c := range stat.Cores() {
		m[c.CPU] = c
	}
	return m
}

func indexProcs(samples []procfs.ProcSample) map[int]procState {
	m := make(map[int]procState, len(samples))
	for _, p := range samples {
		m[p.PID] = procState{ticks: p.Ticks, startTime: p.StartTime}
	}
	return m
}
