package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run both trigger monitors until interrupted",
	Long: `Start the auto-breakeven and partial take-profit monitors against the
bridge and keep them running. Triggers added from other desk invocations are
picked up from the shared trigger files on the next start.

Stop with Ctrl-C; both monitors shut down cleanly before exit.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	be.StartMonitoring()
	ptp.StartMonitoring()

	fmt.Printf("watching: %d breakeven, %d partial take-profit trigger(s)\n",
		be.CountActive(), ptp.CountActive())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	fmt.Println("shutting down")
	be.StopMonitoring()
	ptp.StopMonitoring()
	return nil
}
