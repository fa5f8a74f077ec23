package pomodoro

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tomato/internal/core/model"

	"github.com/rs/zerolog"
)

// Config contains runtime options for the Engine.
type Config struct {
	TickInterval time.Duration
}

// Engine is the Pomodoro state machine. Every exported method is safe to call
// from any goroutine; collaborators are always invoked without the lock held.
type Engine struct {
	mu        sync.Mutex
	config    model.SessionConfig
	options   Config
	phase     Phase
	scheduled Phase
	remaining int
	running   bool
	idle      bool
	cycle     int
	breaks    int
	totalWork time.Duration

	alarm     *alarmState
	awaiting  bool
	promptSeq uint64
	question  string

	renderer Renderer
	prompter Prompter
	player   AlarmPlayer
	observer Observer
	logger   zerolog.Logger
}

type alarmState struct {
	alarm     Alarm
	ticksLeft int
}

// New creates an Engine in the stopped Work phase.
func New(config model.SessionConfig, options Config) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	config = config.Normalized()

	return &Engine{
		config:    config,
		options:   options,
		phase:     PhaseWork,
		scheduled: PhaseWork,
		remaining: config.WorkMinutes * 60,
		idle:      true,
		renderer:  nopRenderer{},
		prompter:  declinePrompter{},
		player:    nopPlayer{},
		observer:  nopObserver{},
		logger:    zerolog.Nop(),
	}
}

// SetRenderer injects the render sink.
func (engine *Engine) SetRenderer(renderer Renderer) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if renderer == nil {
		renderer = nopRenderer{}
	}
	engine.renderer = renderer
}

// SetPrompter injects the switch-activity prompt.
func (engine *Engine) SetPrompter(prompter Prompter) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if prompter == nil {
		prompter = declinePrompter{}
	}
	engine.prompter = prompter
}

// SetAlarmPlayer injects the alarm output.
func (engine *Engine) SetAlarmPlayer(player AlarmPlayer) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if player == nil {
		player = nopPlayer{}
	}
	engine.player = player
}

// SetObserver injects a milestone observer.
func (engine *Engine) SetObserver(observer Observer) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if observer == nil {
		observer = nopObserver{}
	}
	engine.observer = observer
}

// SetLogger replaces the engine logger.
func (engine *Engine) SetLogger(logger zerolog.Logger) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.logger = logger
}

// Config returns the active session configuration.
func (engine *Engine) Config() model.SessionConfig {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.config
}

// State returns a snapshot of the timer state.
func (engine *Engine) State() State {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return State{
		Phase:        engine.phase,
		Scheduled:    engine.scheduled,
		Remaining:    engine.remaining,
		Running:      engine.running,
		Cycle:        engine.cycle,
		Breaks:       engine.breaks,
		TotalWork:    engine.totalWork,
		AlarmPlaying: engine.alarm != nil,
		Awaiting:     engine.awaiting,
	}
}

// View returns what the renderer last saw, or would see now.
func (engine *Engine) View() View {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.viewLocked()
}

// Refresh pushes the current view to the renderer.
func (engine *Engine) Refresh() {
	var box outbox
	engine.mu.Lock()
	engine.renderLocked(&box)
	engine.mu.Unlock()
	box.flush()
}

// Start leaves a free break if one is pending and begins ticking.
// The first decrement happens immediately.
func (engine *Engine) Start() {
	var box outbox
	engine.mu.Lock()
	engine.idle = false
	if engine.running {
		engine.renderLocked(&box)
		engine.mu.Unlock()
		box.flush()
		return
	}
	if engine.phase == PhaseFreeBreak {
		engine.phase = PhaseWork
		engine.scheduled = PhaseWork
	}
	engine.running = true
	engine.logger.Debug().Str("phase", string(engine.phase)).Int("remaining", engine.remaining).Msg("timer started")
	engine.renderLocked(&box)
	engine.tickLocked(&box)
	engine.mu.Unlock()
	box.flush()
}

// Stop halts the countdown without touching the remaining time.
func (engine *Engine) Stop() {
	var box outbox
	engine.mu.Lock()
	if engine.running {
		engine.running = false
		engine.logger.Debug().Str("phase", string(engine.phase)).Int("remaining", engine.remaining).Msg("timer stopped")
		engine.renderLocked(&box)
	}
	engine.mu.Unlock()
	box.flush()
}

// Reset stops the timer and refills the current scheduled phase.
func (engine *Engine) Reset() {
	var box outbox
	engine.mu.Lock()
	engine.resetLocked(&box)
	engine.mu.Unlock()
	box.flush()
}

// StartFreeBreak enters an unscheduled break, or starts it if already entered.
func (engine *Engine) StartFreeBreak() FreeBreakOutcome {
	var box outbox
	engine.mu.Lock()
	outcome := engine.freeBreakLocked(&box)
	engine.mu.Unlock()
	box.flush()
	return outcome
}

// Tick advances the countdown by one step. It does nothing while stopped.
func (engine *Engine) Tick() {
	var box outbox
	engine.mu.Lock()
	engine.tickLocked(&box)
	engine.mu.Unlock()
	box.flush()
}

// UpdateConfiguration parses work and break minutes from free text and resets the timer.
// Invalid input leaves configuration and state untouched.
func (engine *Engine) UpdateConfiguration(workText, breakText string) error {
	var box outbox
	engine.mu.Lock()
	updated, err := engine.config.WithDurations(workText, breakText)
	if err == nil {
		err = engine.applyConfigLocked(updated, &box)
	}
	engine.mu.Unlock()
	box.flush()
	if err != nil {
		engine.reject(err)
	}
	return err
}

// UpdateConfig applies a complete configuration and resets the timer.
func (engine *Engine) UpdateConfig(config model.SessionConfig) error {
	var box outbox
	engine.mu.Lock()
	err := engine.applyConfigLocked(config, &box)
	engine.mu.Unlock()
	box.flush()
	if err != nil {
		engine.reject(err)
	}
	return err
}

// Run ticks the engine until ctx is cancelled.
func (engine *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(engine.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			engine.Tick()
		}
	}
}

func (engine *Engine) reject(err error) {
	engine.mu.Lock()
	observer := engine.observer
	engine.logger.Warn().Err(err).Msg("configuration rejected")
	engine.mu.Unlock()
	observer.ConfigurationRejected(err)
}

func (engine *Engine) applyConfigLocked(config model.SessionConfig, box *outbox) error {
	if err := validateConfig(config); err != nil {
		return err
	}
	engine.config = config
	engine.logger.Info().
		Int("work_minutes", config.WorkMinutes).
		Int("break_minutes", config.BreakMinutes).
		Int("long_break_minutes", config.LongBreakMinutes).
		Msg("configuration updated")
	engine.resetLocked(box)
	return nil
}

func (engine *Engine) resetLocked(box *outbox) {
	engine.running = false
	engine.clearPendingLocked()
	engine.idle = true
	engine.remaining = engine.durationLocked(engine.scheduled)
	engine.renderLocked(box)
}

func (engine *Engine) freeBreakLocked(box *outbox) FreeBreakOutcome {
	engine.idle = false
	if engine.phase != PhaseFreeBreak {
		engine.running = false
		engine.clearPendingLocked()
		engine.phase = PhaseFreeBreak
		engine.remaining = engine.config.BreakMinutes * 60
		engine.logger.Debug().Int("remaining", engine.remaining).Msg("free break entered")
		engine.renderLocked(box)
		return FreeBreakEntered
	}
	if engine.running {
		engine.renderLocked(box)
		return FreeBreakUnchanged
	}

	engine.running = true
	engine.renderLocked(box)
	engine.tickLocked(box)
	return FreeBreakResumed
}

func (engine *Engine) tickLocked(box *outbox) {
	if !engine.running {
		return
	}
	if engine.alarm != nil {
		engine.alarm.ticksLeft--
		if engine.alarm.ticksLeft <= 0 {
			engine.alarm = nil
			engine.finishPhaseLocked(box)
		}
		return
	}
	if engine.awaiting {
		return
	}
	if engine.remaining > 0 {
		engine.remaining--
		engine.renderLocked(box)
		return
	}
	engine.beginAlarmLocked(box)
}

func (engine *Engine) beginAlarmLocked(box *outbox) {
	alarm := AlarmFor(engine.phase)
	ticks := int((alarm.Duration() + engine.options.TickInterval - 1) / engine.options.TickInterval)
	if ticks < 1 {
		ticks = 1
	}
	engine.alarm = &alarmState{alarm: alarm, ticksLeft: ticks}
	engine.logger.Info().Str("phase", string(engine.phase)).Dur("duration", alarm.Duration()).Msg("phase finished, alarm raised")

	player := engine.player
	observer := engine.observer
	logger := engine.logger
	box.add(func() {
		observer.AlarmRaised(alarm.Phase)
		if err := player.Play(alarm); err != nil {
			logger.Warn().Err(err).Str("phase", string(alarm.Phase)).Msg("alarm playback failed")
		}
	})
	engine.renderLocked(box)
}

func (engine *Engine) finishPhaseLocked(box *outbox) {
	if engine.phase == PhaseFreeBreak {
		engine.remaining = engine.config.BreakMinutes * 60
		engine.logger.Debug().Msg("free break restarted")
		engine.renderLocked(box)
		return
	}

	from := engine.phase
	to := PhaseBreak
	if from == PhaseBreak {
		to = PhaseWork
	}
	question := fmt.Sprintf("Switch from %s to %s?", from, to)

	engine.awaiting = true
	engine.promptSeq++
	engine.question = question
	seq := engine.promptSeq
	prompter := engine.prompter
	engine.renderLocked(box)
	box.add(func() {
		prompter.Confirm(question, func(yes bool) {
			engine.answer(seq, yes)
		})
	})
}

func (engine *Engine) answer(seq uint64, yes bool) {
	var box outbox
	engine.mu.Lock()
	if !engine.awaiting || seq != engine.promptSeq {
		engine.mu.Unlock()
		return
	}
	engine.awaiting = false
	engine.question = ""
	if yes {
		// A Stop issued while the question was open stays in effect.
		engine.switchModeLocked(&box)
	} else {
		engine.running = false
		engine.logger.Info().Str("phase", string(engine.phase)).Msg("switch declined, timer halted at zero")
	}
	engine.renderLocked(&box)
	engine.mu.Unlock()
	box.flush()
}

func (engine *Engine) switchModeLocked(box *outbox) {
	from := engine.phase
	long := false
	if from == PhaseWork {
		engine.cycle++
		if engine.cycle >= engine.config.CyclesPerLongBreak {
			engine.remaining = engine.config.LongBreakMinutes * 60
			engine.cycle = 0
			long = true
		} else {
			engine.remaining = engine.config.BreakMinutes * 60
		}
		engine.totalWork += engine.config.Work()
		engine.breaks++
		engine.phase = PhaseBreak
	} else {
		engine.phase = PhaseWork
		engine.remaining = engine.config.WorkMinutes * 60
	}
	engine.scheduled = engine.phase
	engine.idle = false

	to := engine.phase
	engine.logger.Info().
		Str("from", string(from)).
		Str("to", string(to)).
		Bool("long_break", long).
		Int("cycle", engine.cycle).
		Str("total_work", FormatElapsed(engine.totalWork)).
		Msg("phase switched")

	observer := engine.observer
	box.add(func() {
		observer.PhaseCompleted(from, to, long)
	})
}

func (engine *Engine) clearPendingLocked() {
	engine.alarm = nil
	if engine.awaiting {
		engine.awaiting = false
		engine.question = ""
		engine.promptSeq++
	}
}

func (engine *Engine) durationLocked(phase Phase) int {
	if phase == PhaseBreak {
		return engine.config.BreakMinutes * 60
	}
	return engine.config.WorkMinutes * 60
}

func (engine *Engine) viewLocked() View {
	label := LabelWorking
	switch {
	case engine.idle:
		label = LabelIdle
	case engine.phase != PhaseWork:
		label = LabelBreak
	}

	action := StartActionStart
	if engine.phase == PhaseFreeBreak && !engine.running {
		action = StartActionStartBreak
	}

	return View{
		Clock:         FormatClock(engine.remaining),
		Remaining:     engine.remaining,
		Phase:         engine.phase,
		Label:         label,
		Running:       engine.running,
		Cycle:         engine.cycle,
		Breaks:        engine.breaks,
		TotalWork:     engine.totalWork,
		TotalWorkText: FormatElapsed(engine.totalWork),
		StartAction:   action,
		Alarm:         engine.alarm != nil,
		Awaiting:      engine.awaiting,
		Question:      engine.question,
	}
}

func (engine *Engine) renderLocked(box *outbox) {
	view := engine.viewLocked()
	renderer := engine.renderer
	box.add(func() {
		renderer.Render(view)
	})
}

func validateConfig(config model.SessionConfig) error {
	fields := []struct {
		name  string
		value int
	}{
		{"work", config.WorkMinutes},
		{"break", config.BreakMinutes},
		{"long break", config.LongBreakMinutes},
		{"cycles", config.CyclesPerLongBreak},
	}
	for _, field := range fields {
		if field.value <= 0 {
			return &model.ValidationError{Field: field.name, Value: fmt.Sprintf("%d", field.value)}
		}
	}
	return nil
}

// outbox defers collaborator calls until the engine lock is released.
type outbox struct {
	calls []func()
}

func (box *outbox) add(call func()) {
	box.calls = append(box.calls, call)
}

func (box *outbox) flush() {
	for _, call := range box.calls {
		call()
	}
	box.calls = nil
}
