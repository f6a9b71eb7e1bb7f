package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/finatech/onboard/internal/config"
	"github.com/finatech/onboard/internal/logger"
	"github.com/finatech/onboard/internal/tui/theme"
)

const (
	logoText1 = "█▀▀ █ █▄ █ ▄▀█ ▀█▀ █▀▀ █▀▀ █ █"
	logoText2 = "█▀  █ █ ▀█ █▀█  █  ██▄ █▄▄ █▀█"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Vehicle-financing onboarding wizard",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.Current()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

onboard collects the data a customer needs to apply for vehicle financing in
four steps: personal data, address, vehicle and professional profile. Each
step is validated locally and submitted to the core API before the next one
opens. Journeys are journaled in an embedded NATS JetStream store.`

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mockAPICmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(cepCmd)
}

// loadConfig reads the configuration and applies its logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, err
	}
	return cfg, nil
}
