// Package tui provides the Bubble Tea front-end for shape-drop.
// It handles the terminal UI loop, input mapping and session orchestration.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// timerMsg carries a countdown callback onto the Bubble Tea goroutine.
type timerMsg struct {
	from *timerBridge
	fn   func()
}

// timerQueueSize bounds how many countdown callbacks may wait for the UI.
const timerQueueSize = 16

// timerBridge hands callbacks from the countdown goroutine to the program.
type timerBridge struct {
	ch   chan func()
	done chan struct{}
}

func newTimerBridge() *timerBridge {
	return &timerBridge{
		ch:   make(chan func(), timerQueueSize),
		done: make(chan struct{}),
	}
}

// post is the clock.Ticker hook. It gives up once the bridge is closed.
func (b *timerBridge) post(fn func()) {
	select {
	case b.ch <- fn:
	case <-b.done:
	}
}

// wait returns a command that blocks until the next callback arrives.
func (b *timerBridge) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-b.ch:
			return timerMsg{from: b, fn: fn}
		case <-b.done:
			return nil
		}
	}
}

func (b *timerBridge) close() {
	close(b.done)
}
