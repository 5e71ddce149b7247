package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/liberfy/open2fa/internal/models"
)

var listShowSecrets bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List stored TOTP secrets",
	RunE: func(cmd *cobra.Command, args []string) error {
		printSecretTable(app.Secrets(), listShowSecrets)
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listShowSecrets, "secrets", "s", false, "show full secret values")
}

func printSecretTable(secrets []models.Secret, full bool) {
	if len(secrets) == 0 {
		fmt.Println("No secrets stored.")
		return
	}
	nameW, secW := len("Name"), len("Secret")
	rows := make([][2]string, 0, len(secrets))
	for _, s := range secrets {
		sec := truncate(s.Secret)
		if full {
			sec = s.Secret
		}
		rows = append(rows, [2]string{s.Name, sec})
		if len(s.Name) > nameW {
			nameW = len(s.Name)
		}
		if len(sec) > secW {
			secW = len(sec)
		}
	}
	header := color.New(color.Bold)
	header.Printf("%s    %s\n", pad("Name", nameW), pad("Secret", secW))
	fmt.Printf("%s    %s\n", strings.Repeat("-", nameW), strings.Repeat("-", secW))
	for _, r := range rows {
		fmt.Printf("%s    %s\n", pad(r[0], nameW), pad(r[1], secW))
	}
}

func pad(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}
