package timerwindow

import (
	"context"
	"fmt"
	"image/color"

	"tomato/internal/core/pomodoro"
	"tomato/internal/ui/animation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Config defines window options.
type Config struct {
	Title       string
	Undecorated bool
	KeepInFront bool
}

// Callbacks defines the commands the window can issue.
type Callbacks struct {
	OnStart       func()
	OnStop        func()
	OnReset       func()
	OnFreeBreak   func()
	OnKeepInFront func(bool)
	OnClose       func()
}

// Window is the main timer window. It implements pomodoro.Renderer and pomodoro.Prompter.
type Window struct {
	window      fyne.Window
	config      Config
	callbacks   Callbacks
	background  *canvas.Rectangle
	titleLabel  *canvas.Text
	clockLabel  *canvas.Text
	workLabel   *widget.Label
	breaksLabel *widget.Label
	startButton *widget.Button
	stopButton  *widget.Button
	resetButton *widget.Button
	breakButton *widget.Button
	keepInFront *widget.Check
	flash       *animation.Engine
	lastPhase   pomodoro.Phase
}

var (
	backgroundColor = color.NRGBA{R: 0x13, G: 0x15, B: 0x16, A: 0xff}
	textColor       = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	alarmColor      = color.NRGBA{R: 0xe5, G: 0x41, B: 0x2d, A: 0xff}
)

const (
	windowWidth  = float32(410)
	windowHeight = float32(360)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates the timer window. settings is embedded between controls and status rows.
func New(app fyne.App, config Config, settings fyne.CanvasObject, callbacks Callbacks) *Window {
	if config.Title == "" {
		config.Title = "Tomato"
	}
	var window fyne.Window
	if driver, ok := app.Driver().(splashWindowDriver); ok && config.Undecorated {
		window = driver.CreateSplashWindow()
	} else {
		window = app.NewWindow(config.Title)
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	background := canvas.NewRectangle(backgroundColor)

	titleLabel := canvas.NewText(pomodoro.LabelIdle, textColor)
	titleLabel.Alignment = fyne.TextAlignCenter
	titleLabel.TextSize = 16

	clockLabel := canvas.NewText("--:--", textColor)
	clockLabel.Alignment = fyne.TextAlignCenter
	clockLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clockLabel.TextSize = 46

	timer := &Window{
		window:      window,
		config:      config,
		callbacks:   callbacks,
		background:  background,
		titleLabel:  titleLabel,
		clockLabel:  clockLabel,
		workLabel:   widget.NewLabel("Work time: 0:00:00"),
		breaksLabel: widget.NewLabel("Breaks: 0"),
	}

	timer.startButton = widget.NewButton("Start", func() { call(timer.callbacks.OnStart) })
	timer.stopButton = widget.NewButton("Stop", func() { call(timer.callbacks.OnStop) })
	timer.resetButton = widget.NewButton("Reset", func() { call(timer.callbacks.OnReset) })
	timer.breakButton = widget.NewButton("Free break", func() { call(timer.callbacks.OnFreeBreak) })
	timer.keepInFront = widget.NewCheck("Keep in front", func(checked bool) {
		timer.config.KeepInFront = checked
		if timer.callbacks.OnKeepInFront != nil {
			timer.callbacks.OnKeepInFront(checked)
		}
	})
	timer.keepInFront.SetChecked(config.KeepInFront)
	closeButton := widget.NewButton("Close", func() { call(timer.callbacks.OnClose) })

	timer.flash = animation.New(animation.DefaultConfig(), func(highlight bool) {
		fyne.Do(func() {
			timer.setHighlightUnsafe(highlight)
		})
	})

	controls := container.NewCenter(container.NewHBox(timer.startButton, timer.stopButton, timer.resetButton, timer.breakButton))
	status := container.NewCenter(container.NewHBox(timer.workLabel, timer.breaksLabel))
	rows := []fyne.CanvasObject{titleLabel, clockLabel, controls}
	if settings != nil {
		rows = append(rows, container.NewCenter(settings))
	}
	rows = append(rows, status, container.NewCenter(timer.keepInFront), container.NewCenter(closeButton))

	window.SetContent(container.NewStack(background, container.NewPadded(container.NewVBox(rows...))))
	window.SetCloseIntercept(func() { call(timer.callbacks.OnClose) })
	window.Resize(fyne.NewSize(windowWidth, windowHeight))
	window.CenterOnScreen()

	return timer
}

// Show displays the window.
func (timer *Window) Show() {
	timer.window.Show()
	timer.window.RequestFocus()
}

// Hide hides the window.
func (timer *Window) Hide() {
	timer.window.Hide()
}

// SetKeepInFront updates the toggle. Must run on the Fyne thread.
func (timer *Window) SetKeepInFront(keep bool) {
	timer.config.KeepInFront = keep
	timer.keepInFront.SetChecked(keep)
}

// Render implements pomodoro.Renderer.
func (timer *Window) Render(view pomodoro.View) {
	if view.Alarm {
		timer.flash.Start(context.Background())
	} else {
		timer.flash.Stop()
	}
	fyne.Do(func() {
		timer.applyViewUnsafe(view)
	})
}

// Confirm implements pomodoro.Prompter with a modal yes/no dialog.
func (timer *Window) Confirm(question string, respond func(bool)) {
	fyne.Do(func() {
		timer.window.Show()
		timer.window.RequestFocus()
		dialog.ShowConfirm("Switch activity", question, respond, timer.window)
	})
}

// ShowError reports a rejected action to the user.
func (timer *Window) ShowError(err error) {
	fyne.Do(func() {
		dialog.ShowError(err, timer.window)
	})
}

func (timer *Window) applyViewUnsafe(view pomodoro.View) {
	timer.titleLabel.Text = view.Label
	timer.titleLabel.Refresh()
	timer.clockLabel.Text = view.Clock
	timer.clockLabel.Refresh()

	timer.workLabel.SetText(fmt.Sprintf("Work time: %s", view.TotalWorkText))
	timer.breaksLabel.SetText(fmt.Sprintf("Breaks: %d", view.Breaks))

	if view.StartAction == pomodoro.StartActionStartBreak {
		timer.startButton.SetText("Start break")
	} else {
		timer.startButton.SetText("Start")
	}

	if view.Phase != timer.lastPhase {
		timer.lastPhase = view.Phase
		if timer.config.KeepInFront {
			timer.window.RequestFocus()
		}
	}
}

func (timer *Window) setHighlightUnsafe(highlight bool) {
	if highlight {
		timer.clockLabel.Color = alarmColor
	} else {
		timer.clockLabel.Color = textColor
	}
	timer.clockLabel.Refresh()
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
