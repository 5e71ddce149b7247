package cli

import (
	"github.com/spf13/cobra"
)

var remoteListShowSecrets bool

var remoteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remote secrets without modifying the local store",
	RunE: func(cmd *cobra.Command, args []string) error {
		secrets, err := app.RemoteList(cmd.Context())
		if err != nil {
			return err
		}
		printSecretTable(secrets, remoteListShowSecrets)
		return nil
	},
}

func init() {
	remoteListCmd.Flags().BoolVarP(&remoteListShowSecrets, "secrets", "s", false, "show full secret values")
}
