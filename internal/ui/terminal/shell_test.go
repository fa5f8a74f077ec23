package terminal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"tomato/internal/core/pomodoro"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestFormatView(t *testing.T) {
	tests := []struct {
		name     string
		view     pomodoro.View
		expected string
	}{
		{
			name:     "work",
			view:     pomodoro.View{Phase: pomodoro.PhaseWork, Clock: "39:59", Label: pomodoro.LabelWorking, TotalWorkText: "0:00:00"},
			expected: "[WORK] 39:59  Working...  breaks 0  work 0:00:00",
		},
		{
			name:     "free break",
			view:     pomodoro.View{Phase: pomodoro.PhaseFreeBreak, Clock: "10:00", Label: pomodoro.LabelBreak, Breaks: 2, TotalWorkText: "1:20:00"},
			expected: "[FREE BREAK] 10:00  On break  breaks 2  work 1:20:00",
		},
		{
			name:     "alarm",
			view:     pomodoro.View{Phase: pomodoro.PhaseWork, Clock: "00:00", Label: pomodoro.LabelWorking, Alarm: true, TotalWorkText: "0:00:00"},
			expected: "[ALARM] 00:00  Working...  breaks 0  work 0:00:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatView(tt.view))
		})
	}
}

func TestRenderSkipsRepeatedViews(t *testing.T) {
	var out bytes.Buffer
	shell := NewShell(strings.NewReader(""), &out, Commands{})

	view := pomodoro.View{Phase: pomodoro.PhaseWork, Clock: "00:10", Label: pomodoro.LabelWorking}
	shell.Render(view)
	shell.Render(view)
	view.Clock = "00:09"
	shell.Render(view)

	assert.Equal(t, 2, strings.Count(out.String(), "\n"))
}

func TestRunDispatchesCommands(t *testing.T) {
	var calls []string
	var updates [][2]string
	input := "start\nstop\nbreak\nreset\nupdate 25 5\nupdate 0 5\nbogus\n\nquit\nstart\n"
	var out bytes.Buffer
	shell := NewShell(strings.NewReader(input), &out, Commands{
		Start:     func() { calls = append(calls, "start") },
		Stop:      func() { calls = append(calls, "stop") },
		Reset:     func() { calls = append(calls, "reset") },
		FreeBreak: func() { calls = append(calls, "break") },
		Update: func(workText, breakText string) error {
			updates = append(updates, [2]string{workText, breakText})
			if workText == "0" {
				return errors.New("work must be positive")
			}
			return nil
		},
		Quit: func() { calls = append(calls, "quit") },
	})

	require.NoError(t, shell.Run(context.Background()))

	assert.Equal(t, []string{"start", "stop", "break", "reset", "quit"}, calls)
	assert.Equal(t, [][2]string{{"25", "5"}, {"0", "5"}}, updates)
	assert.Contains(t, out.String(), "[ERROR] work must be positive")
	assert.Contains(t, out.String(), `unknown command "bogus"`)
}

func TestConfirmTakesNextLine(t *testing.T) {
	var out bytes.Buffer
	shell := NewShell(strings.NewReader(""), &out, Commands{})

	var answers []bool
	shell.Confirm("Switch from work to break?", func(yes bool) { answers = append(answers, yes) })
	assert.True(t, shell.handle("Y"))
	shell.Confirm("Switch from break to work?", func(yes bool) { answers = append(answers, yes) })
	assert.True(t, shell.handle("nope"))
	shell.Confirm("Switch from work to break?", func(yes bool) { answers = append(answers, yes) })
	assert.True(t, shell.handle(""))

	assert.Equal(t, []bool{true, false, false}, answers)
	assert.Contains(t, out.String(), "[?] Switch from work to break? [y/N]")
}

func TestRunStopsWithContext(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()
	shell := NewShell(reader, &bytes.Buffer{}, Commands{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- shell.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("shell did not stop")
	}
}

func TestBellRings(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Bell{Out: &out}.Play(pomodoro.AlarmFor(pomodoro.PhaseWork)))
	assert.Equal(t, "\a", out.String())
	assert.NoError(t, Bell{}.Play(pomodoro.AlarmFor(pomodoro.PhaseBreak)))
}
