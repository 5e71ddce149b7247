package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoShowSecrets bool

var infoCmd = &cobra.Command{
	Use:     "info",
	Aliases: []string{"i"},
	Short:   "Show open2fa status",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := app.Info()
		reveal := func(s string) string {
			if s == "" {
				if info.IdentityErr != nil {
					return fmt.Sprintf("<unreadable: %v>", info.IdentityErr)
				}
				return "<not initialized>"
			}
			if infoShowSecrets {
				return s
			}
			return truncate(s)
		}
		fmt.Printf("Directory:      %s\n", info.Dir)
		fmt.Printf("API URL:        %s\n", info.APIURL)
		fmt.Printf("Secrets:        %d\n", info.NumSecrets)
		fmt.Printf("UUID:           %s\n", reveal(info.UUID))
		fmt.Printf("Remote ID:      %s\n", reveal(info.RemoteID))
		fmt.Printf("Remote secret:  %s\n", reveal(info.RemoteSecret))
		return nil
	},
}

func init() {
	infoCmd.Flags().BoolVarP(&infoShowSecrets, "secrets", "s", false, "show values uncensored")
}
