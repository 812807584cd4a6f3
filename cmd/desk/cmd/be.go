package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/desk/trigger"
)

var beCmd = &cobra.Command{
	Use:   "be",
	Short: "Manage auto-breakeven triggers",
	Long: `Auto-breakeven moves a position's stop loss to its entry price once
the exit-side price clears the trigger level. One trigger per position.

Examples:
  desk be add 1001 1.09600
  desk be list
  desk be remove 1001
  desk be clear`,
}

var beAddCmd = &cobra.Command{
	Use:   "add <ticket> <price>",
	Short: "Add a breakeven trigger for a position",
	Args:  cobra.ExactArgs(2),
	RunE:  runBEAdd,
}

var beRemoveCmd = &cobra.Command{
	Use:   "remove <ticket>",
	Short: "Remove the breakeven trigger for a position",
	Args:  cobra.ExactArgs(1),
	RunE:  runBERemove,
}

var beListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active breakeven triggers",
	Args:  cobra.NoArgs,
	RunE:  runBEList,
}

var beClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop executed breakeven trigger records",
	Args:  cobra.NoArgs,
	RunE:  runBEClear,
}

func init() {
	rootCmd.AddCommand(beCmd)
	beCmd.AddCommand(beAddCmd, beRemoveCmd, beListCmd, beClearCmd)
}

// withBE runs fn against a fully wired breakeven engine and tears it down.
func withBE(fn func(*trigger.Engine) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	j, err := newJournal(cfg)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	be, ptp, err := newEngines(cfg, newDesk(cfg), j)
	if err != nil {
		return err
	}
	defer be.Close()
	defer ptp.Close()

	return fn(be)
}

func runBEAdd(cmd *cobra.Command, args []string) error {
	ticket, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ticket %q", args[0])
	}
	price, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid price %q", args[1])
	}

	return withBE(func(e *trigger.Engine) error {
		t, err := e.Add(context.Background(), ticket, price, trigger.Params{})
		if err != nil {
			return err
		}
		fmt.Printf("breakeven trigger set for #%d at %v\n", t.Ticket, t.Price)
		return nil
	})
}

func runBERemove(cmd *cobra.Command, args []string) error {
	ticket, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ticket %q", args[0])
	}

	return withBE(func(e *trigger.Engine) error {
		id := fmt.Sprintf("be-%d", ticket)
		if _, err := e.Remove(id); err != nil {
			return err
		}
		fmt.Printf("breakeven trigger removed for #%d\n", ticket)
		return nil
	})
}

func runBEList(cmd *cobra.Command, args []string) error {
	return withBE(func(e *trigger.Engine) error {
		printTriggers("Auto Breakeven Triggers", e.Active())
		return nil
	})
}

func runBEClear(cmd *cobra.Command, args []string) error {
	return withBE(func(e *trigger.Engine) error {
		n, err := e.ClearExecuted()
		if err != nil {
			return err
		}
		fmt.Printf("cleared %d executed trigger(s)\n", n)
		return nil
	})
}
