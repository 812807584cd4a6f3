package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/desk/trigger"
)

var ptpCmd = &cobra.Command{
	Use:   "ptp",
	Short: "Manage partial take-profit triggers",
	Long: `Partial take-profit closes a percentage of a position's volume once
the exit-side price clears the trigger level. A position may carry several
triggers at different levels.

Examples:
  desk ptp add 1001 1.09650 50
  desk ptp add 1001 1.09800 30
  desk ptp list
  desk ptp remove 01HTXM0K9Q3W8Z6Y5V4T3R2P1N
  desk ptp remove-all 1001`,
}

var ptpAddCmd = &cobra.Command{
	Use:   "add <ticket> <price> <percent>",
	Short: "Add a partial take-profit trigger for a position",
	Args:  cobra.ExactArgs(3),
	RunE:  runPTPAdd,
}

var ptpRemoveCmd = &cobra.Command{
	Use:   "remove <trigger-id>",
	Short: "Remove a partial take-profit trigger by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runPTPRemove,
}

var ptpRemoveAllCmd = &cobra.Command{
	Use:   "remove-all <ticket>",
	Short: "Remove every partial take-profit trigger for a position",
	Args:  cobra.ExactArgs(1),
	RunE:  runPTPRemoveAll,
}

var ptpListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active partial take-profit triggers",
	Args:  cobra.NoArgs,
	RunE:  runPTPList,
}

var ptpClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop executed partial take-profit trigger records",
	Args:  cobra.NoArgs,
	RunE:  runPTPClear,
}

func init() {
	rootCmd.AddCommand(ptpCmd)
	ptpCmd.AddCommand(ptpAddCmd, ptpRemoveCmd, ptpRemoveAllCmd, ptpListCmd, ptpClearCmd)
}

// withPTP runs fn against a fully wired partial-close engine.
func withPTP(fn func(*trigger.Engine) error) error {
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

	return fn(ptp)
}

func runPTPAdd(cmd *cobra.Command, args []string) error {
	ticket, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ticket %q", args[0])
	}
	price, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid price %q", args[1])
	}
	percent, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid percent %q", args[2])
	}

	return withPTP(func(e *trigger.Engine) error {
		t, err := e.Add(context.Background(), ticket, price, trigger.Params{ClosePercent: percent})
		if err != nil {
			return err
		}
		fmt.Printf("partial take-profit set for #%d at %v (%.0f%%), trigger %s\n",
			t.Ticket, t.Price, t.ClosePercent, t.ID)
		return nil
	})
}

func runPTPRemove(cmd *cobra.Command, args []string) error {
	return withPTP(func(e *trigger.Engine) error {
		t, err := e.Remove(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("partial take-profit trigger removed for #%d\n", t.Ticket)
		return nil
	})
}

func runPTPRemoveAll(cmd *cobra.Command, args []string) error {
	ticket, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ticket %q", args[0])
	}

	return withPTP(func(e *trigger.Engine) error {
		n, err := e.RemoveAllFor(ticket)
		if err != nil {
			return err
		}
		fmt.Printf("removed %d trigger(s) for #%d\n", n, ticket)
		return nil
	})
}

func runPTPList(cmd *cobra.Command, args []string) error {
	return withPTP(func(e *trigger.Engine) error {
		printTriggers("Partial Take Profit Triggers", e.Active())
		return nil
	})
}

func runPTPClear(cmd *cobra.Command, args []string) error {
	return withPTP(func(e *trigger.Engine) error {
		n, err := e.ClearExecuted()
		if err != nil {
			return err
		}
		fmt.Printf("cleared %d executed trigger(s)\n", n)
		return nil
	})
}
