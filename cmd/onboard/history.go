package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/finatech/onboard/internal/journal"
	"github.com/finatech/onboard/internal/nats"
	"github.com/finatech/onboard/internal/onboard"
)

var historyFlags struct {
	session string
	dataDir string
	json    bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show journaled onboarding sessions",
	Long: `List the onboarding sessions recorded in the journal, or show the
step-by-step journey of one session with --session.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historyFlags.session, "session", "s", "", "Show one session in detail")
	historyCmd.Flags().StringVar(&historyFlags.dataDir, "data-dir", "", "Data directory of the journal (default: from config)")
	historyCmd.Flags().BoolVar(&historyFlags.json, "json", false, "Print JSON instead of a table")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if historyFlags.dataDir != "" {
		cfg.DataDir = historyFlags.dataDir
	}

	ctx := cmd.Context()
	emb, err := nats.Open(ctx, filepath.Join(cfg.DataDir, "nats"))
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() { _ = emb.Close() }()
	store := journal.NewStore(emb.JS, emb.Stream)

	if historyFlags.session != "" {
		st, err := store.LoadState(ctx, historyFlags.session)
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		if st.Status() == "empty" {
			return fmt.Errorf("session %q not found", historyFlags.session)
		}
		if historyFlags.json {
			return printJSON(st)
		}
		lipgloss.Println(renderJourney(st))
		return nil
	}

	states, err := store.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if historyFlags.json {
		return printJSON(states)
	}
	if len(states) == 0 {
		fmt.Println("No sessions recorded yet.")
		return nil
	}
	lipgloss.Println(renderSessions(states))
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

var (
	historyHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	historyCell   = lipgloss.NewStyle().Padding(0, 1)
)

func historyTable() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return historyHeader
			}
			return historyCell
		})
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("02/01/2006 15:04")
}

// renderSessions renders the session listing.
func renderSessions(states []*journal.State) string {
	t := historyTable().Headers("SESSÃO", "RÓTULO", "ETAPAS", "STATUS", "ATUALIZADO")
	for _, st := range states {
		label := st.Label
		if label == "" {
			label = "-"
		}
		t.Row(
			st.Session,
			label,
			fmt.Sprintf("%d/%d", st.StepsDone(), onboard.StepCount),
			st.Status(),
			formatTime(st.UpdatedAt),
		)
	}
	return t.String()
}

// renderJourney renders one session step by step.
func renderJourney(st *journal.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sessão %s (%s)\n", st.Session, st.Status())
	if st.Identifier != "" {
		fmt.Fprintf(&b, "Protocolo: %s\n", st.Identifier)
	}
	fmt.Fprintf(&b, "Início: %s\n", formatTime(st.StartedAt))
	if st.Fatal != "" {
		fmt.Fprintf(&b, "Erro fatal: %s\n", st.Fatal)
	}

	steps := make([]int, 0, len(st.Steps))
	for n := range st.Steps {
		steps = append(steps, n)
	}
	sort.Ints(steps)

	t := historyTable().Headers("ETAPA", "TÍTULO", "TENTATIVAS", "INVÁLIDAS", "ENVIADA", "ÚLTIMO ERRO")
	for _, n := range steps {
		rec := st.Steps[n]
		sent := "não"
		if rec.Submitted {
			sent = "sim"
		}
		lastErr := rec.LastError
		if lastErr == "" {
			lastErr = "-"
		}
		t.Row(strconv.Itoa(rec.Step), rec.Title, strconv.Itoa(rec.Attempts), strconv.Itoa(rec.Invalid), sent, lastErr)
	}
	b.WriteString(t.String())
	return b.String()
}
