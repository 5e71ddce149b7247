package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var remotePushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload all local secrets, encrypted, to the remote server",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := app.Push(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Pushed %d secret(s).\n", len(result.Pushed))
		for _, item := range result.Skipped {
			fmt.Printf("Skipped %q: %v\n", item.Name, item.Err)
		}
		return nil
	},
}
