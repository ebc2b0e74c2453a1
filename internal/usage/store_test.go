package usage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeOf builds a store whose windows hold exactly the given samples.
func storeOf(windows map[UserID][]float64) *Store {
	var capacity int
	for _, samples := range windows {
		capacity = len(samples)
	}
	s := NewStore(capacity)
	for id, samples := range windows {
		w := NewWindow(capacity)
		for _, v := range samples {
			w.Push(v)
		}
		s.windows[id] = w
	}
	return s
}

func TestComputeMeans(t *testing.T) {
	s := storeOf(map[UserID][]float64{
		1: {1, 2, 3},
		2: {10, 20, 30},
		3: {4, 5, 6},
	})

	expected := Means{1: 2, 2: 20, 3: 5}
	assert.Equal(t, expected, ComputeMeans(s))
}

func TestUpdateWindowsEmptyIntoEmpty(t *testing.T) {
	s := UpdateWindows(NewStore(10), Instant{})
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, ComputeMeans(s))
}

func TestUpdateWindowsNewKey(t *testing.T) {
	const capacity = 10
	s := UpdateWindows(NewStore(capacity), Instant{1000: 42})

	w, ok := s.Window(1000)
	require.True(t, ok)
	assert.Equal(t, capacity, w.Len())
	assert.InDelta(t, 42.0/capacity, ComputeMeans(s)[1000], 1e-9)
}

func TestUpdateWindowsReturnsSameStore(t *testing.T) {
	s := NewStore(3)
	assert.Same(t, s, UpdateWindows(s, Instant{1: 1}))
}

func TestUpdateWindowsKeepsLengthInvariant(t *testing.T) {
	const capacity = 4
	s := NewStore(capacity)

	inputs := []Instant{
		{1: 10, 2: 5},
		{1: 3},
		{3: 1, 4: 2},
		{},
		{2: 50, 5: 0.5},
		{},
		{1: 1, 2: 2, 3: 3, 4: 4, 5: 5},
	}

	for _, in := range inputs {
		s = UpdateWindows(s, in)
		for _, id := range s.Users() {
			w, _ := s.Window(id)
			require.Equal(t, capacity, w.Len(), "uid %d", id)
		}
	}
	assert.Equal(t, []UserID{1, 2, 3, 4, 5}, s.Users())
}

func TestUpdateWindowsAbsentUserDecays(t *testing.T) {
	const capacity = 5
	s := NewStore(capacity)
	for i := 0; i < capacity; i++ {
		s = UpdateWindows(s, Instant{7: 80, 8: 1})
	}
	require.InDelta(t, 80.0, ComputeMeans(s)[7], 1e-9)

	for i := 1; i <= capacity; i++ {
		s = UpdateWindows(s, Instant{8: 1})
		m := ComputeMeans(s)[7]
		assert.InDelta(t, 80.0*float64(capacity-i)/capacity, m, 1e-9, "after %d absent cycles", i)
	}

	assert.Equal(t, 0.0, ComputeMeans(s)[7])
	assert.Equal(t, 2, s.Len(), "absent users are never removed")
}

func TestUpdateWindowsAbsentUserGetsZeroSample(t *testing.T) {
	s := storeOf(map[UserID][]float64{1: {1, 2, 3}})
	s = UpdateWindows(s, Instant{2: 9})

	w1, _ := s.Window(1)
	assert.Equal(t, []float64{2, 3, 0}, w1.Samples())
	w2, _ := s.Window(2)
	assert.Equal(t, []float64{0, 0, 9}, w2.Samples())
}

func TestNewStoreDefaultsCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, NewStore(0).Capacity())
}
