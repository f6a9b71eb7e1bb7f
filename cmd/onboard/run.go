package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/finatech/onboard/internal/config"
	"github.com/finatech/onboard/internal/gateway"
	"github.com/finatech/onboard/internal/hooks"
	"github.com/finatech/onboard/internal/journal"
	"github.com/finatech/onboard/internal/logger"
	"github.com/finatech/onboard/internal/metrics"
	"github.com/finatech/onboard/internal/mockapi"
	"github.com/finatech/onboard/internal/nats"
	tuiwizard "github.com/finatech/onboard/internal/tui/wizard"
	"github.com/finatech/onboard/internal/wizard"
)

var runFlags struct {
	session   string
	dataDir   string
	noJournal bool
	mock      bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the onboarding wizard",
	Long: `Start the onboarding wizard in the terminal.

Each step is validated and submitted before the next one opens. Use --mock to
run against an in-process mock of every backend.`,
	RunE: runWizard,
}

func init() {
	runCmd.Flags().StringVarP(&runFlags.session, "session", "s", "", "Session label, e.g. the store or operator name")
	runCmd.Flags().StringVar(&runFlags.dataDir, "data-dir", "", "Data directory for the journal (default: from config)")
	runCmd.Flags().BoolVar(&runFlags.noJournal, "no-journal", false, "Do not record the journey")
	runCmd.Flags().BoolVar(&runFlags.mock, "mock", false, "Use the built-in mock backends")
}

func runWizard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runFlags.dataDir != "" {
		cfg.DataDir = runFlags.dataDir
	}
	if runFlags.noJournal {
		cfg.Journal = false
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gwCfg := gateway.FromConfig(cfg)
	if runFlags.mock {
		srv := mockapi.New()
		addr, err := srv.Start("127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to start mock api: %w", err)
		}
		defer shutdown("mock api", srv.Shutdown)
		gwCfg = mockGatewayConfig(gwCfg, addr)
	}
	gw := gateway.NewClient(gwCfg)

	if cfg.MetricsAddr != "" {
		ms, err := metrics.Serve(cfg.MetricsAddr)
		if err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer shutdown("metrics", ms.Shutdown)
	}

	session := sessionID(runFlags.session)
	logger.Info("Starting onboarding session %s", session)

	var opts []wizard.Option
	if cfg.Journal {
		emb, err := nats.Open(ctx, filepath.Join(cfg.DataDir, "nats"))
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer func() {
			if err := emb.Close(); err != nil {
				logger.Warn("journal shutdown: %v", err)
			}
		}()

		store := journal.NewStore(emb.JS, emb.Stream)
		if err := store.Start(ctx, session, runFlags.session); err != nil {
			return fmt.Errorf("failed to start journal: %w", err)
		}
		opts = append(opts, wizard.WithObserver(store.Observer(session)))
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	hooksCfg, err := hooks.LoadConfig(workDir)
	if err != nil {
		return err
	}
	if hooksCfg != nil {
		opts = append(opts, wizard.WithObserver(hooks.Observer(hooksCfg, workDir, session)))
	}

	res, err := tuiwizard.Run(ctx, tuiwizard.Config{
		Controller: wizard.New(gw, opts...),
		Gateway:    gw,
		Debounce:   cfg.Debounce(),
		Session:    session,
	})
	switch {
	case errors.Is(err, tuiwizard.ErrCancelled):
		fmt.Println("Cadastro interrompido. Execute 'onboard run' para recomeçar.")
		return nil
	case err != nil:
		return err
	}

	fmt.Println("Cadastro concluído. Obrigado por confiar na Finatech!")
	if res.Identifier != "" {
		fmt.Printf("Protocolo: %s\n", res.Identifier)
	}
	return nil
}

// mockGatewayConfig points every backend at the mock API listening on addr.
func mockGatewayConfig(cfg gateway.Config, addr string) gateway.Config {
	base := "http://" + addr
	cfg.CoreURL = base
	cfg.CatalogURL = base
	cfg.PostalURL = base
	cfg.CompanyPostalURL = base
	return cfg
}

// shutdown stops a background server with a bounded wait.
func shutdown(name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		logger.Warn("%s shutdown: %v", name, err)
	}
}

// gatewayFromConfig builds the HTTP gateway for the commands that only look
// things up.
func gatewayFromConfig(cfg *config.Config) *gateway.Client {
	return gateway.NewClient(gateway.FromConfig(cfg))
}
