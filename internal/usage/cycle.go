package usage

import (
	"strings"
	"time"
)

// Sampler reports the CPU usage of the current instant. Implementations must
// read fresh data on every call.
type Sampler interface {
	Sample() (Instant, CoreUsage, error)
}

// User is a ranked entry with its resolved display name.
type User struct {
	Entry
	Name string
}

// Snapshot is the immutable result of one cycle, handed to the renderer.
type Snapshot struct {
	// Names and Values hold one line per ranked user, in the same order.
	Names  string
	Values string
	Cores  CoreUsage
	Users  []User
	Taken  time.Time
}

// SampleError is returned when the sampler could not produce a reading. The
// store is left untouched, so the next cycle can simply try again.
type SampleError struct {
	err error
}

func (e *SampleError) Error() string { return "failed to sample cpu usage: " + e.err.Error() }

// Cause returns the sampler's error.
func (e *SampleError) Cause() error { return e.err }

func (e *SampleError) Unwrap() error { return e.err }

// now allows tests to pin snapshot timestamps.
var now = time.Now

// RefreshCycle samples once, folds the reading into store and returns the
// ranked snapshot together with the store for the next cycle.
//
// A sampling error leaves store untouched. A resolution error happens after
// the windows advanced; the returned store reflects that.
func RefreshCycle(s Sampler, r Resolver, store *Store) (Snapshot, *Store, error) {
	instant, cores, err := s.Sample()
	if err != nil {
		return Snapshot{}, store, &SampleError{err: err}
	}

	store = UpdateWindows(store, instant)
	ranked := Rank(ComputeMeans(store))

	snap, err := buildSnapshot(ranked, cores, r)
	return snap, store, err
}

// RefreshOnce ranks a single unsmoothed reading. It keeps no state and is
// meant for callers that do not want a rolling average.
func RefreshOnce(s Sampler, r Resolver) (Snapshot, error) {
	instant, cores, err := s.Sample()
	if err != nil {
		return Snapshot{}, &SampleError{err: err}
	}

	return buildSnapshot(Rank(instant), cores, r)
}

func buildSnapshot(ranked Ranked, cores CoreUsage, r Resolver) (Snapshot, error) {
	names, err := ResolveNames(ranked, r)
	if err != nil {
		return Snapshot{}, err
	}

	users := make([]User, len(ranked))
	for i, e := range ranked {
		users[i] = User{Entry: e, Name: names[i]}
	}

	return Snapshot{
		Names:  strings.Join(names, "\n"),
		Values: FormatValues(ranked),
		Cores:  append(CoreUsage(nil), cores...),
		Users:  users,
		Taken:  now(),
	}, nil
}

// Publish hands snap to a renderer without blocking. If the renderer has not
// picked up the previous snapshot yet, that one is discarded so only the
// newest is pending. On an unbuffered channel the snapshot is delivered only
// when a receiver is already waiting. Publish reports whether snap was queued.
func Publish(ch chan Snapshot, snap Snapshot) bool {
	if cap(ch) == 0 {
		select {
		case ch <- snap:
			return true
		default:
			return false
		}
	}

	for {
		select {
		case ch <- snap:
			return true
		default:
		}

		// drop the stale snapshot and try again
		select {
		case <-ch:
		default:
		}
	}
}
