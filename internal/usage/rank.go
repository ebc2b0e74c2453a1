package usage

import "container/heap"

// Entry is one user's position in a ranking.
type Entry struct {
	ID   UserID
	Mean float64
}

// Ranked is ordered by Mean, highest first.
type Ranked []Entry

// Rank orders users by descending usage. Users with equal usage are ordered by
// ascending id so repeated calls over the same data agree. Means must not
// contain NaN.
func Rank(means map[UserID]float64) Ranked {
	h := make(entryHeap, 0, len(means))
	for id, m := range means {
		h = append(h, Entry{ID: id, Mean: m})
	}
	heap.Init(&h)

	return h.TopK(uint(len(h)))
}

type entryHeap []Entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

// invert less function to create max heap
func (h entryHeap) Less(i, j int) bool {
	if h[i].Mean != h[j].Mean {
		return h[i].Mean > h[j].Mean
	}
	return h[i].ID < h[j].ID
}

func (h *entryHeap) Push(x interface{}) {
	*h = append(*h, x.(Entry))
}

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func (h *entryHeap) TopK(k uint) Ranked {
	if k > uint(len(*h)) {
		k = uint(len(*h))
	}
	top := make(Ranked, 0, k)
	for i := uint(0); i < k; i++ {
		top = append(top, heap.Pop(h).(Entry))
	}

	return top
}
