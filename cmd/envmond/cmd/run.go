package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sensorlabs/envmond/internal/agent"
	"github.com/sensorlabs/envmond/internal/sensor"
	"github.com/sensorlabs/envmond/internal/telemetry"
	"github.com/sensorlabs/envmond/internal/transport"
)

var once bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the envmond agent",
	Long: "Start the envmond agent daemon. Connects to the configured publish\n" +
		"backend and publishes one telemetry sample per interval until interrupted.",
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&once, "once", false, "publish a single sample and exit")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := agent.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("envmond run: %w", err)
	}

	// Apply CLI flag overrides.
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if backend != "" {
		cfg.Transport.Backend = backend
	}
	if deviceID != "" {
		cfg.DeviceID = deviceID
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("envmond run: %w", err)
	}

	logger := setupLogger(cfg.LogLevel)

	logger.Info("starting envmond",
		"version", buildVersion,
		"device_id", cfg.DeviceID,
		"backend", cfg.Transport.Backend,
		"sample_interval", cfg.SampleInterval,
	)

	tr, err := transport.New(cfg.Transport, logger)
	if err != nil {
		return fmt.Errorf("envmond run: %w", err)
	}

	interval := time.Duration(cfg.SampleInterval) * time.Second
	provider := sensor.NewProvider(&sensor.CPUTemperature{}, sensor.NewSystemReader(), logger)
	builder := telemetry.NewBuilder(cfg.DeviceID, interval)
	validator := telemetry.NewValidator(logger)

	loop := agent.NewLoop(agent.LoopConfig{
		SampleInterval: interval,
		Once:           once,
	}, provider, builder, validator, tr, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := loop.Run(ctx); err != nil {
		logger.Error("agent stopped", "error", err)
		return fmt.Errorf("envmond run: %w", err)
	}

	logger.Info("envmond stopped")
	return nil
}
