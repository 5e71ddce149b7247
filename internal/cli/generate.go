package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/liberfy/open2fa/internal/totp"
)

var generateRepeat int

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"g"},
	Short:   "Continuously generate 2FA codes for all stored secrets",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(app.Secrets()) == 0 {
			fmt.Println("No secrets stored.")
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		nameW := len("Name")
		for _, s := range app.Secrets() {
			if len(s.Name) > nameW {
				nameW = len(s.Name)
			}
		}
		header := color.New(color.Bold)
		header.Printf("%s    Code      Next Code\n", pad("Name", nameW))
		fmt.Printf("%s    ------    ---------\n", strings.Repeat("-", nameW))

		for iteration := 1; ; iteration++ {
			for _, r := range app.GenerateCodes(time.Now()) {
				if r.Err != nil {
					fmt.Printf("%s    %v\n", pad(r.Name, nameW), r.Err)
					continue
				}
				fmt.Printf("%s    %s    %8.2fs\n", pad(r.Name, nameW), r.Code.Value, r.Code.SecondsRemaining)
			}
			if generateRepeat > 0 && iteration >= generateRepeat {
				return nil
			}
			select {
			case <-ctx.Done():
				// Interrupted by the user; not an error.
				fmt.Println()
				return nil
			case <-time.After(totp.UntilNextWindow(time.Now())):
			}
		}
	},
}

func init() {
	generateCmd.Flags().IntVarP(&generateRepeat, "repeat", "r", 0, "stop after N generation cycles (0 = run until interrupted)")
}
