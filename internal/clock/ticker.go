package clock

import (
	"sync"
	"time"
)

// Ticker is a countdown timer backed by time.Timer.
//
// Callbacks are handed to the post hook so the owner can run them on its own
// goroutine; a nil hook runs them on the timer goroutine. Callbacks of a
// cancelled or superseded run are dropped even if they were already posted.
type Ticker struct {
	post func(func())

	mu     sync.Mutex
	gen    uint64
	stop   chan struct{}
	closed bool
	wg     sync.WaitGroup
}

// NewTicker creates a Ticker that delivers callbacks through post.
func NewTicker(post func(func())) *Ticker {
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &Ticker{post: post}
}

// Start begins a countdown of total, ticking every interval. The last
// step is shortened so onFinish fires total after Start.
// Any running countdown is cancelled first. Start does nothing once the
// ticker is closed.
func (t *Ticker) Start(total, interval time.Duration, onTick func(remaining time.Duration), onFinish func()) {
	if interval <= 0 {
		interval = time.Second
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.cancelLocked()
	t.gen++
	gen := t.gen
	stop := make(chan struct{})
	t.stop = stop

	t.wg.Add(1)
	go t.run(gen, stop, total, interval, onTick, onFinish)
}

func (t *Ticker) run(gen uint64, stop <-chan struct{}, total, interval time.Duration, onTick func(time.Duration), onFinish func()) {
	defer t.wg.Done()

	if !t.deliver(gen, stop, func() { onTick(total) }) {
		return
	}

	remaining := total
	step := min(interval, remaining)
	timer := time.NewTimer(step)
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-timer.C:
			remaining -= step
			if remaining <= 0 {
				t.deliver(gen, stop, onFinish)
				return
			}
			left := remaining
			if !t.deliver(gen, stop, func() { onTick(left) }) {
				return
			}
			step = min(interval, remaining)
			timer.Reset(step)
		}
	}
}

// deliver posts fn guarded by the run generation. It reports false once the
// run has been stopped.
func (t *Ticker) deliver(gen uint64, stop <-chan struct{}, fn func()) bool {
	select {
	case <-stop:
		return false
	default:
	}

	t.post(func() {
		if t.current(gen) {
			fn()
		}
	})
	return true
}

func (t *Ticker) current(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen == gen && t.stop != nil
}

// Cancel stops the running countdown, if any. It does not wait for the
// timer goroutine; use Wait for that.
func (t *Ticker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

func (t *Ticker) cancelLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
	t.gen++
}

// Close cancels the running countdown and refuses further starts. Call
// Wait afterwards to join the timer goroutine.
func (t *Ticker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.cancelLocked()
}

// Wait blocks until every timer goroutine has returned. Call Close first
// when Start may still run on another goroutine.
func (t *Ticker) Wait() {
	t.wg.Wait()
}
