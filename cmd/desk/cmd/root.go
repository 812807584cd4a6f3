package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/desk/broker"
	"github.com/rustyeddy/desk/broker/bridge"
	"github.com/rustyeddy/desk/config"
	"github.com/rustyeddy/desk/journal"
	"github.com/rustyeddy/desk/trigger"
)

var rootCmd = &cobra.Command{
	Use:   "desk",
	Short: "Manual-trading desk companion for the terminal",
	Long: `Desk wraps a trading-terminal bridge with position-management automation.

It provides:
  - Auto-breakeven triggers: move a stop loss to entry once price clears a level
  - Partial take-profit triggers: close a percentage of a position at a level
  - Persistent trigger storage that survives restarts
  - An execution journal of fired triggers and reconciled positions`,
}

var (
	cfgPath string
	verbose bool
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "f", "", "path to config file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}
}

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		cfg := config.Default()
		cfg.Bridge.Token = os.Getenv("DESK_BRIDGE_TOKEN")
		return cfg, nil
	}
	return config.LoadFromFile(cfgPath)
}

func newDesk(cfg *config.Config) broker.Desk {
	return bridge.NewClient(cfg.Bridge.URL, cfg.Bridge.Token)
}

func newJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	case "csv":
		return journal.NewCSV(cfg.Journal.ExecutionsFile, cfg.Journal.ReconciliationsFile)
	default:
		return journal.Nop{}, nil
	}
}

// newEngines builds both behavior engines against one desk and journal.
// Callers own Close on each engine and on the journal.
func newEngines(cfg *config.Config, desk broker.Desk, j journal.Journal) (be, ptp *trigger.Engine, err error) {
	interval, err := cfg.Triggers.Interval()
	if err != nil {
		return nil, nil, err
	}

	beStore, err := trigger.OpenStore(cfg.Triggers.BreakevenFile(), slog.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("open breakeven store: %w", err)
	}
	be, err = trigger.NewEngine(trigger.Options{
		Behavior: trigger.Breakeven{},
		Desk:     desk,
		Store:    beStore,
		Journal:  j,
		Interval: interval,
	})
	if err != nil {
		return nil, nil, err
	}

	ptpStore, err := trigger.OpenStore(cfg.Triggers.PartialCloseFile(), slog.Default())
	if err != nil {
		be.Close()
		return nil, nil, fmt.Errorf("open partial-close store: %w", err)
	}
	ptp, err = trigger.NewEngine(trigger.Options{
		Behavior: trigger.PartialClose{},
		Desk:     desk,
		Store:    ptpStore,
		Journal:  j,
		Interval: interval,
	})
	if err != nil {
		be.Close()
		return nil, nil, err
	}

	return be, ptp, nil
}

func printTriggers(label string, triggers []trigger.Trigger) {
	fmt.Printf("%s (%d active)\n", label, len(triggers))
	if len(triggers) == 0 {
		fmt.Println("  no active triggers")
		return
	}
	for _, t := range triggers {
		line := fmt.Sprintf("  %s #%d %s %s @ %v", t.ID, t.Ticket, t.Symbol, t.Side, t.Price)
		if t.ClosePercent > 0 {
			line += fmt.Sprintf(" (%.0f%%)", t.ClosePercent)
		}
		fmt.Println(line)
	}
}
