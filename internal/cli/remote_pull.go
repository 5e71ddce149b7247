package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var remotePullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download remote secrets and merge them into the local store",
	RunE: func(cmd *cobra.Command, args []string) error {
		added, err := app.Pull(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Pulled %d new secret(s).\n", added)
		return nil
	},
}
