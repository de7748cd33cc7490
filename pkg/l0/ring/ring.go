// Package ring provides a fixed-capacity byte queue for handing bytes from
// an interrupt-like producer to a polling consumer.
package ring

import "sync/atomic"

// DefaultCapacity matches the UART queue size of the navigation board.
const DefaultCapacity = 512

// Buffer is a single-producer/single-consumer circular byte queue.
//
// One slot is always kept empty so that head == tail means empty, so a
// Buffer created with capacity N holds at most N-1 bytes. Push must only be
// called by the producer and Pop by the consumer; each side publishes its
// index with a single atomic store, no lock is involved.
type Buffer struct {
	data     []byte
	head     atomic.Uint32 // next slot to read, owned by consumer
	tail     atomic.Uint32 // next slot to write, owned by producer
	overflow atomic.Uint32
}

// New creates a Buffer with the given capacity. Capacity below 2 is raised to 2.
func New(capacity int) *Buffer {
	if capacity < 2 {
		capacity = 2
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Cap returns the capacity the Buffer was created with.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Push appends a byte. It never blocks and never overwrites: when the
// buffer is full the byte is dropped, the overflow counter is incremented
// and false is returned.
func (b *Buffer) Push(c byte) bool {
	tail := b.tail.Load()
	next := b.advance(tail)
	if next == b.head.Load() {
		b.overflow.Add(1)
		return false
	}
	b.data[tail] = c
	b.tail.Store(next)
	return true
}

// Pop removes the oldest byte. ok is false when the buffer is empty.
func (b *Buffer) Pop() (c byte, ok bool) {
	head := b.head.Load()
	if head == b.tail.Load() {
		return 0, false
	}
	c = b.data[head]
	b.head.Store(b.advance(head))
	return c, true
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	n := uint32(len(b.data))
	return int((b.tail.Load() + n - b.head.Load()) % n)
}

// IsEmpty indicates no byte is buffered.
func (b *Buffer) IsEmpty() bool {
	return b.head.Load() == b.tail.Load()
}

// Free returns how many bytes can be pushed before the buffer is full.
func (b *Buffer) Free() int {
	return len(b.data) - 1 - b.Len()
}

// Overflow returns the number of bytes dropped because the buffer was full.
func (b *Buffer) Overflow() uint32 {
	return b.overflow.Load()
}

// Clear zeroes the content and resets indices and the overflow counter.
// Neither side may be running while Clear is called.
func (b *Buffer) Clear() {
	for i := range b.data {
		b.data[i] = 0
	}
	b.head.Store(0)
	b.tail.Store(0)
	b.overflow.Store(0)
}

func (b *Buffer) advance(i uint32) uint32 {
	if i++; i >= uint32(len(b.data)) {
		return 0
	}
	return i
}
