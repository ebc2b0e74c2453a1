package usage

// DefaultCapacity is the number of samples kept per user when no capacity is
// configured.
const DefaultCapacity = 10

// Window is a fixed-capacity ring buffer of usage samples. It is created full
// of zeros and every Push evicts the oldest sample, so its length never changes.
type Window struct {
	samples []float64
	// next is the slot holding the oldest sample, overwritten by the next Push
	next int
}

// NewWindow returns a zero-filled window. A capacity below one falls back to
// DefaultCapacity.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Window{samples: make([]float64, capacity)}
}

// Push appends v and drops the oldest sample.
func (w *Window) Push(v float64) {
	w.samples[w.next] = v
	w.next = (w.next + 1) % len(w.samples)
}

// Len is always the capacity the window was created with.
func (w *Window) Len() int {
	return len(w.samples)
}

// Samples returns a copy of the samples, oldest first.
func (w *Window) Samples() []float64 {
	out := make([]float64, 0, len(w.samples))
	out = append(out, w.samples[w.next:]...)
	return append(out, w.samples[:w.next]...)
}

// Sum of all samples in the window.
func (w *Window) Sum() float64 {
	var sum float64
	for _, s := range w.samples {
		sum += s
	}
	return sum
}

// Mean is Sum divided by the capacity.
func (w *Window) Mean() float64 {
	return w.Sum() / float64(len(w.samples))
}
