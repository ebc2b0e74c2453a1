package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/evanr70/usage/internal/log"
	"github.com/evanr70/usage/internal/usage"
)

type limiter interface {
	WaitDuration() time.Duration
	Name() string
}

type observer interface {
	Observe(snap usage.Snapshot, took time.Duration)
}

// refresher carries the state of the refresh loop from one cycle to the next
type refresher struct {
	sampler  usage.Sampler
	resolver usage.Resolver
	// store is nil when smoothing is disabled
	store    *usage.Store
	snaps    chan usage.Snapshot
	observer observer
}

// cycle runs one refresh. Sampling failures are logged and the cycle is
// skipped; any other failure ends the run.
func (r *refresher) cycle() error {
	start := time.Now()

	var (
		snap usage.Snapshot
		err  error
	)
	if r.store == nil {
		snap, err = usage.RefreshOnce(r.sampler, r.resolver)
	} else {
		snap, r.store, err = usage.RefreshCycle(r.sampler, r.resolver, r.store)
	}

	var sampleErr *usage.SampleError
	if errors.As(err, &sampleErr) {
		log.Error("skipping cycle: %+v", err)
		return nil
	}
	if err != nil {
		return err
	}

	took := time.Since(start)
	log.Debug("usage of %d users computed in %s", len(snap.Users), took)

	if !usage.Publish(r.snaps, snap) {
		log.Debug("renderer busy, snapshot dropped")
	}
	if r.observer != nil {
		r.observer.Observe(snap, took)
	}
	return nil
}

// run refreshes until ctx is done. Cycles never overlap: the wait starts
// when a cycle has finished.
func run(ctx context.Context, r *refresher, l limiter) error {
	log.Debug("refreshing every %s (%s limiter)", l.WaitDuration(), l.Name())

	for {
		if err := r.cycle(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.WaitDuration()):
		}
	}
}
