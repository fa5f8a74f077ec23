package tray

import (
	"testing"

	"tomato/internal/core/pomodoro"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTray struct {
	desktop.App
	menus []*fyne.Menu
	icons []fyne.Resource
}

func (tray *fakeTray) SetSystemTrayMenu(menu *fyne.Menu)    { tray.menus = append(tray.menus, menu) }
func (tray *fakeTray) SetSystemTrayIcon(icon fyne.Resource) { tray.icons = append(tray.icons, icon) }

var testIcons = Icons{
	Active: fyne.NewStaticResource("active.svg", []byte("a")),
	Paused: fyne.NewStaticResource("paused.svg", []byte("p")),
	Break:  fyne.NewStaticResource("break.svg", []byte("b")),
}

func TestNewInstallsIdleMenu(t *testing.T) {
	app := &fakeTray{}
	manager := New(app, testIcons, Callbacks{})

	require.Len(t, app.menus, 1)
	assert.Equal(t, "Status: "+pomodoro.LabelIdle, manager.statusItem.Label)
	assert.Equal(t, "Start", manager.toggleItem.Label)
	assert.Equal(t, []fyne.Resource{testIcons.Paused}, app.icons)
}

func TestApplyFollowsView(t *testing.T) {
	app := &fakeTray{}
	manager := New(app, testIcons, Callbacks{})

	manager.apply(pomodoro.View{Clock: "39:59", Label: pomodoro.LabelWorking, Phase: pomodoro.PhaseWork, Running: true})
	assert.Equal(t, "Status: Working... 39:59", manager.statusItem.Label)
	assert.Equal(t, "Stop", manager.toggleItem.Label)
	assert.True(t, manager.Running())

	manager.apply(pomodoro.View{Clock: "09:59", Label: pomodoro.LabelBreak, Phase: pomodoro.PhaseBreak, Running: true})
	manager.apply(pomodoro.View{Clock: "09:59", Label: pomodoro.LabelBreak, Phase: pomodoro.PhaseBreak, Running: false})
	assert.Equal(t, "Start", manager.toggleItem.Label)

	assert.Equal(t, []fyne.Resource{testIcons.Paused, testIcons.Active, testIcons.Break, testIcons.Paused}, app.icons)
}

func TestMenuItemsInvokeCallbacks(t *testing.T) {
	var calls []string
	manager := New(nil, Icons{}, Callbacks{
		OnShow:      func() { calls = append(calls, "show") },
		OnToggle:    func() { calls = append(calls, "toggle") },
		OnFreeBreak: func() { calls = append(calls, "free") },
		OnReset:     func() { calls = append(calls, "reset") },
		OnQuit:      func() { calls = append(calls, "quit") },
	})

	for _, item := range manager.menu().Items {
		if item.Action != nil {
			item.Action()
		}
	}
	assert.Equal(t, []string{"show", "toggle", "free", "reset", "quit"}, calls)
}
