package engine

// ring is a fixed-capacity float64 buffer. Push evicts the oldest sample once
// full; iteration order is oldest first, newest last.
type ring struct {
	buf  []float64
	head int // index of the oldest sample
	size int
}

func newRing(capacity int) *ring {
	return &ring{buf: make([]float64, capacity)}
}

// newFilledRing returns a ring pre-filled to capacity with v.
func newFilledRing(capacity int, v float64) *ring {
	r := newRing(capacity)
	for i := range r.buf {
		r.buf[i] = v
	}
	r.size = capacity
	return r
}

func (r *ring) Len() int { return r.size }
func (r *ring) Cap() int { return len(r.buf) }

// Push appends v, evicting the oldest sample when the ring is full.
func (r *ring) Push(v float64) {
	if r.size < len(r.buf) {
		r.buf[(r.head+r.size)%len(r.buf)] = v
		r.size++
		return
	}
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
}

// At returns the i-th sample, 0 being the oldest. Callers must keep i within
// [0, Len).
func (r *ring) At(i int) float64 {
	return r.buf[(r.head+i)%len(r.buf)]
}

// Last returns the newest sample.
func (r *ring) Last() float64 {
	return r.At(r.size - 1)
}

// Lookback returns the sample n positions before the newest; Lookback(0) is
// the newest sample itself.
func (r *ring) Lookback(n int) float64 {
	return r.At(r.size - 1 - n)
}

// Values copies the buffer oldest to newest.
func (r *ring) Values() []float64 {
	out := make([]float64, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.At(i)
	}
	return out
}

// Tail copies the newest n samples (all of them when n exceeds Len).
func (r *ring) Tail(n int) []float64 {
	if n > r.size {
		n = r.size
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = r.At(r.size - n + i)
	}
	return out
}
