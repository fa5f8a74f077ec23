package pomodoro

import (
	"fmt"
	"time"
)

// FormatClock renders seconds as MM:SS. Minutes are not capped at 59.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatElapsed renders an accumulated duration as H:MM:SS.
func FormatElapsed(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	total := int(value / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}
