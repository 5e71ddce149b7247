package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addName string

var addCmd = &cobra.Command{
	Use:     "add SECRET",
	Aliases: []string{"a"},
	Short:   "Add a new TOTP secret",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sec, err := app.AddSecret(addName, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Added secret: %s %s\n", sec.Name, truncate(sec.Secret))
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addName, "name", "n", "", "name of the secret")
}
