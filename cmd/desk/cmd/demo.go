package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/desk/broker"
	"github.com/rustyeddy/desk/broker/sim"
	"github.com/rustyeddy/desk/journal"
	"github.com/rustyeddy/desk/trigger"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted trigger demo against a simulated desk",
	Long: `Open a simulated long EURUSD position, arm a breakeven trigger and two
partial take-profit triggers, then walk price upward and show each trigger
firing. Nothing touches a real terminal.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	dir, err := filepath.Abs("demo-data")
	if err != nil {
		return err
	}

	desk := sim.NewDesk()
	desk.SetQuote("EURUSD", 1.09480, 1.09500)

	ticket, err := desk.Open("EURUSD", broker.Long, 0.20)
	if err != nil {
		return err
	}
	fmt.Printf("opened long EURUSD #%d, 0.20 lots at 1.09500\n", ticket)

	beStore, err := trigger.OpenStore(filepath.Join(dir, "demo_be.json"), nil)
	if err != nil {
		return err
	}
	be, err := trigger.NewEngine(trigger.Options{
		Behavior: trigger.Breakeven{},
		Desk:     desk,
		Store:    beStore,
		Journal:  journal.Nop{},
		Interval: 20 * time.Millisecond,
	})
	if err != nil {
		return err
	}
	defer be.Close()

	ptpStore, err := trigger.OpenStore(filepath.Join(dir, "demo_ptp.json"), nil)
	if err != nil {
		return err
	}
	ptp, err := trigger.NewEngine(trigger.Options{
		Behavior: trigger.PartialClose{},
		Desk:     desk,
		Store:    ptpStore,
		Journal:  journal.Nop{},
		Interval: 20 * time.Millisecond,
	})
	if err != nil {
		return err
	}
	defer ptp.Close()

	ctx := context.Background()
	if _, err := be.Add(ctx, ticket, 1.09600, trigger.Params{}); err != nil {
		return err
	}
	fmt.Println("breakeven trigger armed at 1.09600")

	if _, err := ptp.Add(ctx, ticket, 1.09650, trigger.Params{ClosePercent: 50}); err != nil {
		return err
	}
	if _, err := ptp.Add(ctx, ticket, 1.09800, trigger.Params{ClosePercent: 30}); err != nil {
		return err
	}
	fmt.Println("partial take-profit triggers armed at 1.09650 (50%) and 1.09800 (30%)")

	steps := []struct {
		bid, ask float64
		note     string
	}{
		{1.09550, 1.09570, "drifting up"},
		{1.09600, 1.09620, "breakeven level hit"},
		{1.09650, 1.09670, "first take-profit level hit"},
		{1.09800, 1.09820, "second take-profit level hit"},
	}

	for _, s := range steps {
		desk.SetQuote("EURUSD", s.bid, s.ask)
		time.Sleep(150 * time.Millisecond)

		pos, err := desk.Position(ctx, ticket)
		if err != nil {
			fmt.Printf("bid %.5f: position closed (%s)\n", s.bid, s.note)
			continue
		}
		fmt.Printf("bid %.5f: %s (volume %.2f, stop %.5f)\n",
			s.bid, s.note, pos.Volume, pos.StopLoss)
	}

	fmt.Printf("done: %d breakeven, %d partial trigger(s) still active\n",
		be.CountActive(), ptp.CountActive())
	return nil
}
