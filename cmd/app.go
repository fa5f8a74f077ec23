package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tomato/internal/audio"
	"tomato/internal/core/pomodoro"
	"tomato/internal/logging"
	"tomato/internal/platform"
	"tomato/internal/storage"
	"tomato/internal/telemetry"
	"tomato/internal/ui/preferences"
	"tomato/internal/ui/terminal"
	"tomato/internal/ui/timerwindow"
	"tomato/internal/ui/tray"
	"tomato/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

// session bundles the engine with everything that outlives a single front end.
type session struct {
	engine   *pomodoro.Engine
	settings *settingsStore
	guard    *platform.InstanceGuard
	logger   zerolog.Logger
	opts     options
}

func run(ctx context.Context, opts options) error {
	logger, err := logging.Setup(logging.Options{Level: opts.LogLevel, NoColor: opts.NoColor})
	if err != nil {
		return err
	}

	guard, err := platform.AcquireSingleInstance(appName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		logger.Info().Msg("another instance is running, asking it to come forward")
		if err := platform.ActivateRunning(appName); err != nil {
			logger.Warn().Err(err).Msg("activating running instance failed")
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	path := opts.ConfigPath
	if path == "" {
		if path, err = storage.SettingsPath(appName); err != nil {
			logger.Warn().Err(err).Msg("no settings location, preferences will not be saved")
		}
	}
	settings := preferences.DefaultSettings()
	if path != "" {
		loaded, err := storage.LoadSettings(path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("loading settings failed, using defaults")
		} else {
			settings = loaded
		}
	}
	settings = applyOverrides(settings, opts)

	engine := pomodoro.New(settings.SessionConfig(), pomodoro.Config{TickInterval: time.Second})
	engine.SetLogger(logger.With().Str("component", "engine").Logger())

	var meters metric.MeterProvider
	provider, err := telemetry.NewProvider(ctx, version)
	if err != nil {
		logger.Warn().Err(err).Msg("metrics provider unavailable")
	} else {
		meters = provider.MeterProvider()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			provider.LogTotals(shutdownCtx, logger)
			if err := provider.Shutdown(shutdownCtx); err != nil {
				logger.Warn().Err(err).Msg("metrics shutdown failed")
			}
		}()
	}

	recorder, err := telemetry.NewRecorder(meters, func() int { return engine.Config().WorkMinutes })
	if err != nil {
		logger.Warn().Err(err).Msg("metrics disabled")
	} else {
		engine.SetObserver(recorder)
	}

	current := &session{
		engine:   engine,
		settings: newSettingsStore(path, settings, logger),
		guard:    guard,
		logger:   logger,
		opts:     opts,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.Headless {
		return current.runHeadless(ctx)
	}
	return current.runDesktop(ctx)
}

// update parses and applies typed durations, then persists them.
func (s *session) update(workText, breakText string) error {
	if err := s.engine.UpdateConfiguration(workText, breakText); err != nil {
		return err
	}
	config := s.engine.Config()
	s.settings.Update(func(settings preferences.Settings) preferences.Settings {
		return settings.WithSessionConfig(config)
	})
	return nil
}

// watch starts the settings file watcher when settings have a location.
// onReload runs after an external edit has been applied to the engine.
func (s *session) watch(ctx context.Context, group *errgroup.Group, onReload func(preferences.Settings)) {
	if s.settings.path == "" {
		return
	}
	watcher, err := storage.NewWatcher(s.settings.path, func(settings preferences.Settings) {
		if settings, ok := s.reload(settings); ok && onReload != nil {
			onReload(settings)
		}
	}, s.logger.With().Str("component", "settings").Logger())
	if err != nil {
		s.logger.Warn().Err(err).Msg("settings hot reload disabled")
		return
	}
	s.settings.attach(watcher)
	group.Go(func() error {
		if err := watcher.Run(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("settings watcher stopped")
		}
		return nil
	})
}

// reload adopts settings edited outside the app. Command line durations still win, and
// the timer is only reset when the resulting durations differ from the running ones.
func (s *session) reload(settings preferences.Settings) (preferences.Settings, bool) {
	settings = applyOverrides(settings, s.opts)
	if config := settings.SessionConfig(); config != s.engine.Config() {
		if err := s.engine.UpdateConfig(config); err != nil {
			s.logger.Warn().Err(err).Msg("ignoring reloaded settings")
			return settings, false
		}
	}
	s.settings.Adopt(settings)
	return settings, true
}

func (s *session) alarmPlayer(fallback pomodoro.AlarmPlayer) (pomodoro.AlarmPlayer, func()) {
	player, err := audio.NewPlayer(audio.DefaultSampleRate)
	if err != nil {
		s.logger.Warn().Err(err).Msg("audio unavailable, alarms fall back")
		return fallback, func() {}
	}
	return player, func() {
		_ = player.Close()
	}
}

func (s *session) runDesktop(signals context.Context) error {
	ctx, cancel := context.WithCancel(signals)
	defer cancel()

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustIcon(resources.IconActive))

	settings := s.settings.Current()
	var window *timerwindow.Window
	form := preferences.NewForm(s.engine.Config(), s.update, func(err error) {
		window.ShowError(err)
	})
	window = timerwindow.New(fyneApp, timerwindow.Config{
		Title:       appName,
		Undecorated: s.opts.Borderless,
		KeepInFront: settings.KeepInFront,
	}, form.Content(), timerwindow.Callbacks{
		OnStart:     s.engine.Start,
		OnStop:      s.engine.Stop,
		OnReset:     s.engine.Reset,
		OnFreeBreak: func() { s.engine.StartFreeBreak() },
		OnKeepInFront: func(checked bool) {
			if s.settings.Current().KeepInFront == checked {
				return
			}
			s.settings.Update(func(settings preferences.Settings) preferences.Settings {
				settings.KeepInFront = checked
				return settings
			})
		},
		OnClose: fyneApp.Quit,
	})

	renderers := pomodoro.Renderers{window}
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		var trayManager *tray.Manager
		trayManager = tray.New(desktopApp, tray.Icons{
			Active: resources.MustIcon(resources.IconActive),
			Paused: resources.MustIcon(resources.IconPaused),
			Break:  resources.MustIcon(resources.IconBreak),
		}, tray.Callbacks{
			OnShow: window.Show,
			OnToggle: func() {
				if trayManager.Running() {
					s.engine.Stop()
				} else {
					s.engine.Start()
				}
			},
			OnFreeBreak: func() { s.engine.StartFreeBreak() },
			OnReset:     s.engine.Reset,
			OnQuit:      fyneApp.Quit,
		})
		renderers = append(renderers, trayManager)
	} else {
		s.logger.Info().Msg("system tray unsupported on this platform")
	}

	player, closePlayer := s.alarmPlayer(audio.Silent{})
	defer closePlayer()

	s.engine.SetRenderer(renderers)
	s.engine.SetPrompter(window)
	s.engine.SetAlarmPlayer(player)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		s.engine.Run(groupCtx)
		return nil
	})
	group.Go(func() error {
		return s.guard.Serve(groupCtx, func() {
			fyne.Do(window.Show)
		})
	})
	s.watch(groupCtx, group, func(settings preferences.Settings) {
		fyne.Do(func() {
			form.SetConfig(settings.SessionConfig())
			window.SetKeepInFront(settings.KeepInFront)
		})
	})

	appDone := make(chan struct{})
	go func() {
		select {
		case <-signals.Done():
			s.logger.Info().Msg("signal received, quitting")
			fyne.Do(fyneApp.Quit)
		case <-appDone:
		}
	}()

	s.engine.Refresh()
	window.Show()
	s.logger.Info().Msg("timer window ready")
	fyneApp.Run()
	close(appDone)

	cancel()
	return group.Wait()
}

func (s *session) runHeadless(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shell := terminal.NewShell(os.Stdin, os.Stdout, terminal.Commands{
		Start:     s.engine.Start,
		Stop:      s.engine.Stop,
		Reset:     s.engine.Reset,
		FreeBreak: func() { s.engine.StartFreeBreak() },
		Update:    s.update,
		Quit:      cancel,
	})

	player, closePlayer := s.alarmPlayer(terminal.Bell{Out: os.Stdout})
	defer closePlayer()

	s.engine.SetRenderer(shell)
	s.engine.SetPrompter(shell)
	s.engine.SetAlarmPlayer(player)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		s.engine.Run(groupCtx)
		return nil
	})
	group.Go(func() error {
		return s.guard.Serve(groupCtx, nil)
	})
	s.watch(groupCtx, group, nil)
	group.Go(func() error {
		defer cancel()
		return shell.Run(groupCtx)
	})

	s.engine.Refresh()
	return group.Wait()
}
