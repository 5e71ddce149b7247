package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	deleteName   string
	deleteSecret string
	deleteForce  bool
)

var deleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"d"},
	Short:   "Delete local TOTP secrets by name and/or value",
	RunE: func(cmd *cobra.Command, args []string) error {
		if deleteName == "" && deleteSecret == "" {
			return errors.New("no secret or name provided to delete")
		}
		removed, err := app.RemoveSecrets(deleteName, deleteSecret, deleteForce, func(matches int) bool {
			return confirm("Are you sure you want to remove %d secret(s)? (y/n): ", matches)
		})
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d secret(s).\n", removed)
		return nil
	},
}

func init() {
	deleteCmd.Flags().StringVarP(&deleteName, "name", "n", "", "name of the secret to delete")
	deleteCmd.Flags().StringVarP(&deleteSecret, "secret", "s", "", "secret value to delete")
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "delete all matches without confirmation")
}
