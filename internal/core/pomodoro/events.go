package pomodoro

import "time"

// Phase is the activity the countdown belongs to.
type Phase string

const (
	PhaseWork      Phase = "work"
	PhaseBreak     Phase = "break"
	PhaseFreeBreak Phase = "free_break"
)

// String returns the human label used in prompts.
func (phase Phase) String() string {
	switch phase {
	case PhaseWork:
		return "work"
	case PhaseBreak:
		return "break"
	case PhaseFreeBreak:
		return "free break"
	default:
		return string(phase)
	}
}

// StartAction tells the shell what the start control currently does.
type StartAction string

const (
	StartActionStart      StartAction = "start"
	StartActionStartBreak StartAction = "start_break"
)

// FreeBreakOutcome is the result of the free-break toggle.
type FreeBreakOutcome string

const (
	FreeBreakEntered   FreeBreakOutcome = "entered"
	FreeBreakResumed   FreeBreakOutcome = "resumed"
	FreeBreakUnchanged FreeBreakOutcome = "unchanged"
)

const (
	LabelIdle    = "Tomato Timer"
	LabelWorking = "Working..."
	LabelBreak   = "On break"
)

// View is everything a shell needs to draw the timer.
type View struct {
	Clock         string
	Remaining     int
	Phase         Phase
	Label         string
	Running       bool
	Cycle         int
	Breaks        int
	TotalWork     time.Duration
	TotalWorkText string
	StartAction   StartAction
	Alarm         bool
	Awaiting      bool
	Question      string
}

// State is a point-in-time copy of the engine internals.
type State struct {
	Phase        Phase
	Scheduled    Phase
	Remaining    int
	Running      bool
	Cycle        int
	Breaks       int
	TotalWork    time.Duration
	AlarmPlaying bool
	Awaiting     bool
}

// Renderer receives a fresh View on every visible change.
type Renderer interface {
	Render(view View)
}

// Prompter asks the user a yes/no question and reports the answer through respond.
// respond may be called from any goroutine, at most once.
type Prompter interface {
	Confirm(question string, respond func(yes bool))
}

// AlarmPlayer starts an alarm. Play must return without waiting for playback to end.
type AlarmPlayer interface {
	Play(alarm Alarm) error
}

// Observer is notified about session milestones.
type Observer interface {
	AlarmRaised(phase Phase)
	PhaseCompleted(from, to Phase, long bool)
	ConfigurationRejected(err error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(View)

func (fn RendererFunc) Render(view View) {
	fn(view)
}

// Renderers fans a view out to several renderers in order.
type Renderers []Renderer

func (renderers Renderers) Render(view View) {
	for _, renderer := range renderers {
		if renderer != nil {
			renderer.Render(view)
		}
	}
}

type nopRenderer struct{}

func (nopRenderer) Render(View) {}

type nopPlayer struct{}

func (nopPlayer) Play(Alarm) error { return nil }

type nopObserver struct{}

func (nopObserver) AlarmRaised(Phase) {}

func (nopObserver) PhaseCompleted(Phase, Phase, bool) {}

func (nopObserver) ConfigurationRejected(error) {}

// declinePrompter answers every question with no.
type declinePrompter struct{}

func (declinePrompter) Confirm(_ string, respond func(bool)) {
	respond(false)
}
