package animation

import "time"

// DefaultConfig returns the alarm flash timing.
func DefaultConfig() Config {
	return Config{
		On:  400 * time.Millisecond,
		Off: 250 * time.Millisecond,
	}
}
