package mpv

import "sync"

const relaySize = 64

// relay runs callbacks on its own goroutine so the event loop never waits on
// whoever consumes them. Callbacks run in the order they were posted.
type relay struct {
	queue   chan func()
	closing chan struct{}
	once    sync.Once
}

func newRelay(size int) *relay {
	return &relay{
		queue:   make(chan func(), size),
		closing: make(chan struct{}),
	}
}

func (r *relay) run() {
	for {
		select {
		case fn := <-r.queue:
			fn()
		case <-r.closing:
			return
		}
	}
}

// post queues fn. It blocks while the queue is full and gives up once the
// relay is stopped.
func (r *relay) post(fn func()) bool {
	select {
	case <-r.closing:
		return false
	default:
	}

	select {
	case r.queue <- fn:
		return true
	case <-r.closing:
		return false
	}
}

// stop drops queued callbacks and releases any blocked post. A callback that
// is already running is left to finish on its own.
func (r *relay) stop() {
	r.once.Do(func() { close(r.closing) })
}

func (r *relay) stopped() bool {
	select {
	case <-r.closing:
		return true
	default:
		return false
	}
}
