package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initUUID string

var remoteInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize remote capabilities with a new identity UUID",
	RunE: func(cmd *cobra.Command, args []string) error {
		ident, created, err := app.Init(cmd.Context(), initUUID, func() bool {
			return confirm("An identity already exists. Replacing it invalidates all remote data. Replace? (y/n): ")
		})
		if err != nil {
			return err
		}
		if !created {
			fmt.Println("Keeping existing identity.")
			return nil
		}
		fmt.Printf("Remote capabilities initialized with UUID: %s\n", ident.UUID())
		fmt.Println("Save this UUID somewhere safe; it is the only way to recover your secrets on another device.")
		return nil
	},
}

func init() {
	remoteInitCmd.Flags().StringVar(&initUUID, "uuid", "", "use this UUID instead of generating one")
}
