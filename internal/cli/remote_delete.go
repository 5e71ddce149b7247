package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var remoteDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete remote secrets by name",
	Long:  "Delete every remote secret with the given name. Deleting a name\nwith no remote matches succeeds with a count of zero.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deleted, err := app.RemoteDelete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d remote secret(s).\n", deleted)
		return nil
	},
}
