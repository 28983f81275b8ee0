package cli

import (
	"fmt"

	"github.com/mihazs/clockify-auto-fill/internal/tui"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	Long:  `Walk through credentials and preferences and write the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := tui.RunWizard(cfg); err != nil {
			return err
		}
		fmt.Println("✓ Configuration saved. Try: clockify-auto-fill run")
		return nil
	},
}
