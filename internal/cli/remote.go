package cli

import "github.com/spf13/cobra"

var remoteCmd = &cobra.Command{
	Use:     "remote",
	Aliases: []string{"r"},
	Short:   "Synchronize encrypted secrets with the remote server",
}

func init() {
	remoteCmd.AddCommand(remoteInitCmd)
	remoteCmd.AddCommand(remotePushCmd)
	remoteCmd.AddCommand(remotePullCmd)
	remoteCmd.AddCommand(remoteListCmd)
	remoteCmd.AddCommand(remoteDeleteCmd)
}
