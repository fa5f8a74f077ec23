// Package terminal provides a headless front end for the timer: a colored status line on
// stdout, typed commands and y/n answers on stdin.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"tomato/internal/core/pomodoro"

	"github.com/fatih/color"
)

var (
	workPrefix   = color.New(color.FgRed, color.Bold).SprintFunc()
	breakPrefix  = color.New(color.FgGreen, color.Bold).SprintFunc()
	alarmPrefix  = color.New(color.FgYellow, color.Bold).SprintFunc()
	promptPrefix = color.New(color.FgCyan).SprintFunc()
	errorPrefix  = color.New(color.FgRed).SprintFunc()
	dimText      = color.New(color.Faint).SprintFunc()
)

// Commands are the engine operations reachable from typed input.
type Commands struct {
	Start     func()
	Stop      func()
	Reset     func()
	FreeBreak func()
	Update    func(workText, breakText string) error
	Quit      func()
}

// Shell renders timer views as text and turns input lines into commands.
type Shell struct {
	mu        sync.Mutex
	out       io.Writer
	in        io.Reader
	commands  Commands
	pending   func(bool)
	lastClock string
	lastLabel string
}

// NewShell creates a shell reading in and writing out.
func NewShell(in io.Reader, out io.Writer, commands Commands) *Shell {
	return &Shell{in: in, out: out, commands: commands}
}

// Render implements pomodoro.Renderer. Repeated identical views are printed once.
func (shell *Shell) Render(view pomodoro.View) {
	shell.mu.Lock()
	defer shell.mu.Unlock()

	if view.Clock == shell.lastClock && view.Label == shell.lastLabel && !view.Alarm {
		return
	}
	shell.lastClock = view.Clock
	shell.lastLabel = view.Label
	fmt.Fprintln(shell.out, FormatView(view))
}

// Confirm implements pomodoro.Prompter. The next input line answers the question.
func (shell *Shell) Confirm(question string, respond func(bool)) {
	shell.mu.Lock()
	shell.pending = respond
	fmt.Fprintf(shell.out, "%s %s [y/N]\n", promptPrefix("[?]"), question)
	shell.mu.Unlock()
}

// ShowError prints a rejected command.
func (shell *Shell) ShowError(err error) {
	shell.mu.Lock()
	defer shell.mu.Unlock()
	fmt.Fprintf(shell.out, "%s %v\n", errorPrefix("[ERROR]"), err)
}

// Run reads input lines until ctx is cancelled, input ends or quit is typed.
func (shell *Shell) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(shell.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	shell.printHelp()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		case line := <-lines:
			if !shell.handle(line) {
				return nil
			}
		}
	}
}

// handle runs one input line and reports whether the shell keeps reading.
func (shell *Shell) handle(line string) bool {
	fields := strings.Fields(strings.ToLower(line))

	shell.mu.Lock()
	respond := shell.pending
	shell.pending = nil
	shell.mu.Unlock()
	if respond != nil {
		respond(len(fields) > 0 && (fields[0] == "y" || fields[0] == "yes"))
		return true
	}
	if len(fields) == 0 {
		return true
	}

	switch fields[0] {
	case "s", "start":
		call(shell.commands.Start)
	case "p", "stop":
		call(shell.commands.Stop)
	case "r", "reset":
		call(shell.commands.Reset)
	case "b", "break":
		call(shell.commands.FreeBreak)
	case "u", "update":
		if len(fields) != 3 {
			shell.ShowError(fmt.Errorf("usage: update <work minutes> <break minutes>"))
			return true
		}
		if shell.commands.Update != nil {
			if err := shell.commands.Update(fields[1], fields[2]); err != nil {
				shell.ShowError(err)
			}
		}
	case "q", "quit", "exit":
		call(shell.commands.Quit)
		return false
	case "h", "help", "?":
		shell.printHelp()
	default:
		shell.ShowError(fmt.Errorf("unknown command %q", fields[0]))
	}
	return true
}

func (shell *Shell) printHelp() {
	shell.mu.Lock()
	defer shell.mu.Unlock()
	fmt.Fprintln(shell.out, dimText("commands: start, stop, reset, break, update <work> <break>, quit"))
}

// FormatView renders a view as a single status line.
func FormatView(view pomodoro.View) string {
	prefix := workPrefix("[" + strings.ToUpper(view.Phase.String()) + "]")
	if view.Phase != pomodoro.PhaseWork {
		prefix = breakPrefix("[" + strings.ToUpper(view.Phase.String()) + "]")
	}
	if view.Alarm {
		prefix = alarmPrefix("[ALARM]")
	}
	return fmt.Sprintf("%s %s  %s  breaks %d  work %s", prefix, view.Clock, view.Label, view.Breaks, view.TotalWorkText)
}

// Bell is an alarm player that rings the terminal bell.
type Bell struct {
	Out io.Writer
}

// Play implements pomodoro.AlarmPlayer.
func (bell Bell) Play(alarm pomodoro.Alarm) error {
	if bell.Out == nil {
		return nil
	}
	if _, err := io.WriteString(bell.Out, "\a"); err != nil {
		return fmt.Errorf("ring bell: %w", err)
	}
	return nil
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
