package clock

import "time"

// Manual is a countdown timer that only moves when Advance is called.
// It is not safe for concurrent use.
type Manual struct {
	gen       uint64
	running   bool
	interval  time.Duration
	remaining time.Duration
	sinceTick time.Duration
	onTick    func(time.Duration)
	onFinish  func()

	starts  int
	cancels int
}

// NewManual creates a stopped manual timer.
func NewManual() *Manual {
	return &Manual{}
}

// Start begins a countdown and immediately ticks with the full duration.
func (m *Manual) Start(total, interval time.Duration, onTick func(remaining time.Duration), onFinish func()) {
	if interval <= 0 {
		interval = time.Second
	}
	m.gen++
	m.starts++
	m.running = true
	m.interval = interval
	m.remaining = total
	m.sinceTick = 0
	m.onTick = onTick
	m.onFinish = onFinish

	onTick(total)
}

// Cancel stops the countdown without firing any callback.
func (m *Manual) Cancel() {
	m.gen++
	m.cancels++
	m.running = false
}

// Advance moves the clock forward by d, firing ticks at every interval
// boundary and the finish callback once the countdown reaches zero. The
// last step is shortened to what remains.
// A callback that restarts or cancels the timer ends the advance.
func (m *Manual) Advance(d time.Duration) {
	for d > 0 && m.running {
		due := min(m.interval, m.remaining)
		step := due - m.sinceTick
		if d < step {
			m.sinceTick += d
			return
		}
		d -= step
		m.sinceTick = 0
		m.remaining -= due

		gen := m.gen
		if m.remaining <= 0 {
			m.running = false
			m.onFinish()
			return
		}
		m.onTick(m.remaining)
		if m.gen != gen {
			return
		}
	}
}

// Expire advances straight to the end of the running countdown.
func (m *Manual) Expire() {
	if m.running {
		m.Advance(m.remaining + m.interval)
	}
}

// Running reports whether a countdown is in progress.
func (m *Manual) Running() bool {
	return m.running
}

// Remaining returns the time left as of the last tick.
func (m *Manual) Remaining() time.Duration {
	return m.remaining
}

// Starts returns how many times Start was called.
func (m *Manual) Starts() int {
	return m.starts
}

// Cancels returns how many times Cancel was called.
func (m *Manual) Cancels() int {
	return m.cancels
}
