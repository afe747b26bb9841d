package ringbuffer

// Buffer is a bounded FIFO queue with access to both ends. Not safe for
// concurrent use.
type Buffer[T any] struct {
	items    []T
	capacity int
}

// New creates a Buffer with the given capacity. A zero capacity is bumped to 1.
func New[T any](capacity uint) *Buffer[T] {
	return &Buffer[T]{capacity: int(max(1, capacity))}
}

// Len returns the number of buffered items.
func (b *Buffer[T]) Len() int {
	return len(b.items)
}

// Full returns true if the buffer is at capacity.
func (b *Buffer[T]) Full() bool {
	return len(b.items) == b.capacity
}

// PushBack appends an item. It returns false if the buffer is full.
func (b *Buffer[T]) PushBack(item T) bool {
	if b.Full() {
		return false
	}
	b.items = append(b.items, item)
	return true
}

// PopFront removes and returns the oldest item.
func (b *Buffer[T]) PopFront() (T, bool) {
	var zero T
	if len(b.items) == 0 {
		return zero, false
	}
	item := b.items[0]
	b.items[0] = zero // release the reference
	b.items = b.items[1:]
	return item, true
}

// PeekBack returns the newest item without removing it.
func (b *Buffer[T]) PeekBack() (T, bool) {
	var zero T
	if len(b.items) == 0 {
		return zero, false
	}
	return b.items[len(b.items)-1], true
}

// DropBack discards the newest item, if any.
func (b *Buffer[T]) DropBack() {
	if len(b.items) == 0 {
		return
	}
	var zero T
	b.items[len(b.items)-1] = zero
	b.items = b.items[:len(b.items)-1]
}
