package pomodoro

import "time"

const (
	sirenHighHz   = 1500
	sirenLowHz    = 500
	sirenTone     = 200 * time.Millisecond
	sirenGap      = 100 * time.Millisecond
	sirenRepeats  = 5
	sirenSettle   = 3 * time.Second
	chimeHz       = 800
	chimeDuration = time.Second
)

// Tone is a single step of an alarm. A zero Frequency is silence.
type Tone struct {
	Frequency float64
	Duration  time.Duration
}

// Alarm is the tone sequence played when a phase runs out.
type Alarm struct {
	Phase Phase
	Tones []Tone
}

// Duration returns the total time the alarm occupies, pauses included.
func (alarm Alarm) Duration() time.Duration {
	var total time.Duration
	for _, tone := range alarm.Tones {
		total += tone.Duration
	}
	return total
}

// AlarmFor returns the alarm for the phase that just ended.
// Work ends with a two-tone siren followed by a settle pause, everything else with one chime.
func AlarmFor(phase Phase) Alarm {
	if phase != PhaseWork {
		return Alarm{
			Phase: phase,
			Tones: []Tone{{Frequency: chimeHz, Duration: chimeDuration}},
		}
	}

	tones := make([]Tone, 0, sirenRepeats*4+1)
	for i := 0; i < sirenRepeats; i++ {
		tones = append(tones,
			Tone{Frequency: sirenHighHz, Duration: sirenTone},
			Tone{Duration: sirenGap},
			Tone{Frequency: sirenLowHz, Duration: sirenTone},
			Tone{Duration: sirenGap},
		)
	}
	tones = append(tones, Tone{Duration: sirenSettle})
	return Alarm{Phase: phase, Tones: tones}
}
