package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sensorlabs/envmond/internal/agent"
	"github.com/sensorlabs/envmond/internal/transport"
)

// checkTimeout bounds the connectivity probe.
const checkTimeout = 45 * time.Second

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe connectivity to the configured publish backend",
	Long: "Connect to the configured MQTT broker or Pub/Sub topic, report the\n" +
		"outcome, and disconnect. Publishes nothing.",
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := agent.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("envmond check: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if backend != "" {
		cfg.Transport.Backend = backend
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("envmond check: %w", err)
	}

	logger := setupLogger(cfg.LogLevel)

	tr, err := transport.New(cfg.Transport, logger)
	if err != nil {
		return fmt.Errorf("envmond check: %w", err)
	}
	defer tr.Disconnect()

	ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
	defer cancel()

	if err := tr.Connect(ctx); err != nil {
		return fmt.Errorf("envmond check: %s backend unreachable: %w", cfg.Transport.Backend, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s backend reachable\n", cfg.Transport.Backend)
	return nil
}
