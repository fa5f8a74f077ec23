package tray

import (
	"fmt"

	"tomato/internal/core/pomodoro"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow      func()
	OnToggle    func()
	OnFreeBreak func()
	OnReset     func()
	OnQuit      func()
}

// Icons holds the tray icon per timer state.
type Icons struct {
	Active fyne.Resource
	Paused fyne.Resource
	Break  fyne.Resource
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	callbacks  Callbacks
	icons      Icons
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	running    bool
	phase      pomodoro.Phase
	status     string
	current    fyne.Resource
}

// New creates a tray manager. app may be nil when the driver has no tray.
func New(app desktop.App, icons Icons, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		icons:     icons,
		phase:     pomodoro.PhaseWork,
		status:    pomodoro.LabelIdle,
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.toggleItem = fyne.NewMenuItem("Start", func() { call(manager.callbacks.OnToggle) })

	manager.refreshStatus()
	manager.refreshIcon()
	manager.refreshMenu()
	return manager
}

// Render implements pomodoro.Renderer.
func (manager *Manager) Render(view pomodoro.View) {
	fyne.Do(func() {
		manager.apply(view)
	})
}

// Running reports the last rendered running state.
func (manager *Manager) Running() bool {
	return manager.running
}

func (manager *Manager) apply(view pomodoro.View) {
	changed := manager.running != view.Running || manager.phase != view.Phase
	manager.running = view.Running
	manager.phase = view.Phase
	manager.status = fmt.Sprintf("%s %s", view.Label, view.Clock)
	if view.Running {
		manager.toggleItem.Label = "Stop"
	} else {
		manager.toggleItem.Label = "Start"
	}
	manager.refreshStatus()
	if changed {
		manager.refreshIcon()
	}
	manager.refreshMenu()
}

func (manager *Manager) refreshStatus() {
	manager.statusItem.Label = fmt.Sprintf("Status: %s", manager.status)
}

func (manager *Manager) refreshIcon() {
	icon := manager.icons.Paused
	switch {
	case manager.running && manager.phase == pomodoro.PhaseWork:
		icon = manager.icons.Active
	case manager.running:
		icon = manager.icons.Break
	}
	if icon == nil || icon == manager.current {
		return
	}
	manager.current = icon
	if manager.app != nil {
		manager.app.SetSystemTrayIcon(icon)
	}
}

func (manager *Manager) menu() *fyne.Menu {
	return fyne.NewMenu("Tomato",
		manager.statusItem,
		fyne.NewMenuItem("Show timer", func() { call(manager.callbacks.OnShow) }),
		manager.toggleItem,
		fyne.NewMenuItem("Free break", func() { call(manager.callbacks.OnFreeBreak) }),
		fyne.NewMenuItem("Reset", func() { call(manager.callbacks.OnReset) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { call(manager.callbacks.OnQuit) }),
	)
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.menu())
	}
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
