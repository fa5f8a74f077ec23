package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	appName   = "Tomato"
	appID     = "com.tomato.timer"
	envPrefix = "TOMATO"
)

var (
	version = "dev"
	commit  = "none"
)

// options are the resolved command line and environment settings.
type options struct {
	WorkMinutes      int
	BreakMinutes     int
	LongBreakMinutes int
	ConfigPath       string
	LogLevel         string
	Headless         bool
	Borderless       bool
	NoColor          bool
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	config := viper.New()

	cmd := &cobra.Command{
		Use:   "tomato",
		Short: "Tomato - a Pomodoro timer",
		Long: `Tomato alternates work intervals with short breaks and takes a long break
after every third work interval. An alarm sounds and a prompt asks before each switch.

Durations come from the settings file and can be overridden by flags or
TOMATO_* environment variables.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), loadOptions(config))
		},
	}

	flags := cmd.Flags()
	flags.Int("work", 0, "work interval in minutes (overrides settings file)")
	flags.Int("break", 0, "short break in minutes (overrides settings file)")
	flags.Int("long-break", 0, "long break in minutes (overrides settings file)")
	flags.StringP("config", "c", "", "settings file (default is <user config dir>/Tomato/settings.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.Bool("headless", false, "run in the terminal instead of opening a window")
	flags.Bool("borderless", false, "open the timer without window decorations")
	flags.Bool("no-color", false, "disable colored output")

	_ = config.BindPFlags(flags)
	config.SetEnvPrefix(envPrefix)
	config.SetEnvKeyReplacer(newEnvReplacer())
	config.AutomaticEnv()

	return cmd
}

func newEnvReplacer() *strings.Replacer {
	return strings.NewReplacer("-", "_")
}

func loadOptions(config *viper.Viper) options {
	return options{
		WorkMinutes:      config.GetInt("work"),
		BreakMinutes:     config.GetInt("break"),
		LongBreakMinutes: config.GetInt("long-break"),
		ConfigPath:       config.GetString("config"),
		LogLevel:         config.GetString("log-level"),
		Headless:         config.GetBool("headless"),
		Borderless:       config.GetBool("borderless"),
		NoColor:          config.GetBool("no-color"),
	}
}
