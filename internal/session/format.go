package session

import (
	"fmt"
	"time"
)

// FormatScore renders the score line shown above the board.
func FormatScore(total int) string {
	return fmt.Sprintf("Score: %d", total)
}

// FormatTime renders the remaining time in whole seconds, rounded up so
// the display reaches zero only when the timer expires.
func FormatTime(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	secs := (remaining + time.Second - 1) / time.Second
	return fmt.Sprintf("Time: %d", secs)
}

// FormatLevel renders the level banner.
func FormatLevel(level int) string {
	return fmt.Sprintf("Level %d", level)
}
