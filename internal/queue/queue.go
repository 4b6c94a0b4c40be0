package queue

// Deque is a double-ended queue backed by a power-of-two ring buffer.
// Items are stored by value; the buffer grows on demand and is reused
// across Reset calls.
type Deque[T any] struct {
	items []T
	head  int
	size  int
}

// NewDeque creates a deque with room for at least capacity items.
func NewDeque[T any](capacity int) *Deque[T] {
	return &Deque[T]{items: make([]T, ringSize(capacity))}
}

func ringSize(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// Len returns the number of items.
func (d *Deque[T]) Len() int { return d.size }

// Empty reports whether the deque holds no items.
func (d *Deque[T]) Empty() bool { return d.size == 0 }

func (d *Deque[T]) mask() int { return len(d.items) - 1 }

// Front returns the first item. The deque must not be empty.
func (d *Deque[T]) Front() *T {
	return &d.items[d.head]
}

// Back returns the last item. The deque must not be empty.
func (d *Deque[T]) Back() *T {
	return &d.items[(d.head+d.size-1)&d.mask()]
}

// PushBack appends an item.
func (d *Deque[T]) PushBack(v T) {
	if d.size == len(d.items) {
		d.grow()
	}
	d.items[(d.head+d.size)&d.mask()] = v
	d.size++
}

// PopFront removes the first item. The deque must not be empty.
func (d *Deque[T]) PopFront() {
	var zero T
	d.items[d.head] = zero
	d.head = (d.head + 1) & d.mask()
	d.size--
}

// PopBack removes the last item. The deque must not be empty.
func (d *Deque[T]) PopBack() {
	var zero T
	d.items[(d.head+d.size-1)&d.mask()] = zero
	d.size--
}

// At returns the i-th item counted from the front.
func (d *Deque[T]) At(i int) T {
	return d.items[(d.head+i)&d.mask()]
}

// Reset removes all items and keeps the buffer.
func (d *Deque[T]) Reset() {
	clear(d.items)
	d.head = 0
	d.size = 0
}

func (d *Deque[T]) grow() {
	n := len(d.items) * 2
	if n == 0 {
		n = 1
	}
	items := make([]T, n)
	for i := 0; i < d.size; i++ {
		items[i] = d.items[(d.head+i)&d.mask()]
	}
	d.items = items
	d.head = 0
}
