package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/finatech/onboard/internal/gateway"
	"github.com/finatech/onboard/internal/logger"
	"github.com/finatech/onboard/internal/mcpserver"
	"github.com/finatech/onboard/internal/mockapi"
)

var mockAPIFlags struct {
	addr         string
	maxFinancing int64
	failStatus   int
}

var mockAPICmd = &cobra.Command{
	Use:   "mock-api",
	Short: "Serve mock versions of every backend",
	Long: `Serve the core API, the vehicle catalog and both postal-code services
from one in-memory HTTP server, for demos and local development.

Point the configuration at it:

  ONBOARD_CORE_API_URL=http://127.0.0.1:8089 onboard run`,
	RunE: runMockAPI,
}

var mcpFlags struct {
	addr string
	mock bool
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the onboarding tools over MCP",
	Long: `Serve the validate-step, lookup-address and list-brands tools over the
Model Context Protocol (streamable HTTP at /mcp).`,
	RunE: runMCP,
}

func init() {
	mockAPICmd.Flags().StringVar(&mockAPIFlags.addr, "addr", "127.0.0.1:8089", "Listen address")
	mockAPICmd.Flags().Int64Var(&mockAPIFlags.maxFinancing, "max-financing", mockapi.DefaultMaxFinancing, "Largest financing value approved, in cents")
	mockAPICmd.Flags().IntVar(&mockAPIFlags.failStatus, "fail-status", 0, "Fail every submission with this HTTP status")

	mcpCmd.Flags().StringVar(&mcpFlags.addr, "addr", "127.0.0.1:0", "Listen address")
	mcpCmd.Flags().BoolVar(&mcpFlags.mock, "mock", false, "Answer lookups from the built-in mock backends")
}

func runMockAPI(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	opts := []mockapi.Option{mockapi.WithMaxFinancing(mockAPIFlags.maxFinancing)}
	if mockAPIFlags.failStatus != 0 {
		opts = append(opts, mockapi.WithFailures(mockAPIFlags.failStatus))
	}
	srv := mockapi.New(opts...)
	addr, err := srv.Start(mockAPIFlags.addr)
	if err != nil {
		return fmt.Errorf("failed to start mock api: %w", err)
	}
	defer shutdown("mock api", srv.Shutdown)

	fmt.Printf("Mock API listening on http://%s (ctrl+c to stop)\n", addr)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")
	return nil
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gwCfg := gateway.FromConfig(cfg)
	if mcpFlags.mock {
		mock := mockapi.New()
		addr, err := mock.Start("127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to start mock api: %w", err)
		}
		defer shutdown("mock api", mock.Shutdown)
		gwCfg = mockGatewayConfig(gwCfg, addr)
	}

	srv := mcpserver.New(gateway.NewClient(gwCfg))
	if _, err := srv.Start(ctx, mcpFlags.addr); err != nil {
		return fmt.Errorf("failed to start MCP server: %w", err)
	}
	defer func() {
		if err := srv.Stop(); err != nil {
			logger.Warn("mcp shutdown: %v", err)
		}
	}()

	fmt.Printf("MCP server listening on %s (ctrl+c to stop)\n", srv.URL())
	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")
	return nil
}
