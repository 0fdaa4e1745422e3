// Package channel carries progress updates from the analysis client to
// whatever is watching: the CLI printer today, a render host later.
// The producer only ever sees a Sender, so consumers can be swapped
// without touching the client.
package channel

// Receiver is the consuming side of a progress stream.
type Receiver[T any] interface {
	Receive() <-chan T
	Len() int
}

// Sender is the producing side of a progress stream.
type Sender[T any] interface {
	Send(T)
}

// Channel combines both sides plus teardown.
type Channel[T any] interface {
	Receiver[T]
	Sender[T]
	Close()
}

// Buffered is a Channel backed by a buffered Go channel. The buffer
// absorbs bursts of milestone updates so a slow consumer never stalls
// an upload in flight.
type Buffered[T any] struct {
	ch chan T
}

// New creates a buffered progress channel of the given capacity.
func New[T any](size int) Channel[T] {
	return &Buffered[T]{ch: make(chan T, size)}
}

// Send enqueues one update. Blocks only when the buffer is full.
func (b *Buffered[T]) Send(v T) {
	b.ch <- v
}

// Receive returns the consuming side of the stream.
func (b *Buffered[T]) Receive() <-chan T {
	return b.ch
}

// Len returns the number of buffered, unconsumed updates.
func (b *Buffered[T]) Len() int {
	return len(b.ch)
}

// Close ends the stream. The producer must not Send afterwards.
func (b *Buffered[T]) Close() {
	close(b.ch)
}
