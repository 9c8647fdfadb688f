// Package eventloop serializes work from driver goroutines onto the single
// goroutine that runs the game's Update.
package eventloop

// Loop is a FIFO of pending callbacks.
type Loop struct {
	ch chan func()
}

// New creates a loop that buffers up to size callbacks before Post blocks.
func New(size int) *Loop {
	if size <= 0 {
		size = 256
	}
	return &Loop{ch: make(chan func(), size)}
}

// Post queues fn. Safe for concurrent use.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.ch <- fn
}

// Drain runs every queued callback, including ones queued while draining,
// and returns how many ran. Must only be called from the host goroutine.
func (l *Loop) Drain() int {
	n := 0
	for {
		select {
		case fn := <-l.ch:
			fn()
			n++
		default:
			return n
		}
	}
}
