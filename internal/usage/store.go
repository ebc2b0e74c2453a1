// Package usage aggregates per-user CPU usage into smoothed, ranked summaries.
//
// A Store keeps one rolling Window per user. Each refresh cycle feeds the
// latest Instant reading into the store, averages every window, ranks users by
// that average and formats two positionally parallel strings for display.
// The store is owned by the caller and passed into and out of every cycle.
package usage

import "sort"

// UserID identifies the account owning a process.
type UserID uint32

// Instant is the summed CPU percentage of each user's processes at one
// sampling instant.
type Instant map[UserID]float64

// CoreUsage holds one utilization percentage (0-100) per CPU core.
type CoreUsage []float64

// Means maps each user to the mean of their window.
type Means map[UserID]float64

// Store maps every user ever observed to their usage window. Keys are never
// removed; a user without running processes keeps receiving zero samples.
type Store struct {
	capacity int
	windows  map[UserID]*Window
}

// NewStore creates an empty store whose windows will hold capacity samples.
// A capacity below one falls back to DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		windows:  map[UserID]*Window{},
	}
}

// Capacity is the length of every window in the store.
func (s *Store) Capacity() int {
	return s.capacity
}

// Len is the number of users tracked.
func (s *Store) Len() int {
	return len(s.windows)
}

// Window returns the window for id, if the user has been observed.
func (s *Store) Window(id UserID) (*Window, bool) {
	w, ok := s.windows[id]
	return w, ok
}

// Users returns the tracked ids in ascending order.
func (s *Store) Users() []UserID {
	ids := make([]UserID, 0, len(s.windows))
	for id := range s.windows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// UpdateWindows advances every window in store by one sample. Users present in
// instant push their reading, creating a zero-filled window first if they are
// new. Users missing from instant push zero so they decay over one full
// window instead of disappearing. The same store is returned.
func UpdateWindows(store *Store, instant Instant) *Store {
	for id, v := range instant {
		w, ok := store.windows[id]
		if !ok {
			w = NewWindow(store.capacity)
			store.windows[id] = w
		}
		w.Push(v)
	}

	for id, w := range store.windows {
		if _, ok := instant[id]; !ok {
			w.Push(0)
		}
	}

	return store
}

// ComputeMeans averages every window in the store.
func ComputeMeans(store *Store) Means {
	means := make(Means, len(store.windows))
	for id, w := range store.windows {
		means[id] = w.Mean()
	}
	return means
}
