// File: cmd/mediadriver/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// mediadriver runs the driver control plane and inspects a running driver.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-mediadriver/driver"
	"github.com/momentics/hioload-mediadriver/internal/cnc"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "mediadriver",
		Short:        "Media driver control plane",
		Long:         "mediadriver owns publications, subscriptions and client liveness for processes attached through a shared CnC file.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("config", os.Getenv("MEDIADRIVER_CONFIG"), "YAML config file")
	rootCmd.PersistentFlags().String("dir", "", "Driver directory (overrides config)")

	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run the media driver until interrupted",
		Aliases: []string{"start"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if level, _ := cmd.Flags().GetString("log-level"); level != "" {
				cfg.LogLevel = level
			}
			if cpu, _ := cmd.Flags().GetInt("conductor-cpu"); cmd.Flags().Changed("conductor-cpu") {
				cfg.ConductorCPU = cpu
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			d, err := driver.NewMediaDriver(cfg, driver.WithDriverLogger(logger))
			if err != nil {
				return fmt.Errorf("start media driver: %w", err)
			}
			defer d.Close()
			logger.Info().Str("cnc", d.CnCPath()).Msg("media driver ready")
			return d.Run(ctx)
		},
	}
	runCmd.Flags().String("log-level", os.Getenv("MEDIADRIVER_LOG_LEVEL"), "Log level: trace|debug|info|warn|error")
	runCmd.Flags().Int("conductor-cpu", -1, "Pin the conductor to this CPU (-1 disables pinning)")
	rootCmd.AddCommand(runCmd)

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	rootCmd.AddCommand(configCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the driver owning the CnC file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			f, err := cnc.Open(cfg.CnCPath())
			if err != nil {
				return fmt.Errorf("open %s: %w", cfg.CnCPath(), err)
			}
			defer f.Close()

			heartbeat := f.CommandRing().ConsumerHeartbeatTime()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "cnc:        %s\n", f.Path())
			fmt.Fprintf(w, "pid:        %d\n", f.DriverPID())
			fmt.Fprintf(w, "started:    %s\n", f.StartTime().Format(time.RFC3339))
			fmt.Fprintf(w, "heartbeat:  %d ns\n", heartbeat)
			fmt.Fprintf(w, "commands:   %d/%d bytes pending\n", f.CommandRing().Size(), f.CommandRing().Capacity())
			fmt.Fprintf(w, "responses:  %d bytes broadcast over a %d byte buffer\n", f.ToClients().Tail(), f.ToClients().Capacity())
			return nil
		},
	}
	rootCmd.AddCommand(statusCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*driver.Config, error) {
	cfg := driver.DefaultConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := driver.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolve --dir: %w", err)
		}
		cfg.Dir = abs
	}
	return cfg, nil
}

func newLogger(level string) (zerolog.Logger, error) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).With().Timestamp().Logger(), nil
}
