package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage API credentials",
	Long:  `Set or clear the Clockify and Jira credentials without the full wizard.`,
}

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Enter credentials (secrets are read without echo)",
	RunE:  runAuthSet,
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove stored credentials",
	RunE:  runAuthClear,
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authClearCmd)
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Clockify API key: ")
	keyBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	if key := strings.TrimSpace(string(keyBytes)); key != "" {
		cfg.ClockifyAPIKey = key
	}

	fmt.Printf("Workspace ID [%s]: ", cfg.WorkspaceID)
	workspace, _ := reader.ReadString('\n')
	if workspace = strings.TrimSpace(workspace); workspace != "" {
		cfg.WorkspaceID = workspace
	}

	fmt.Printf("Project ID [%s]: ", cfg.ProjectID)
	project, _ := reader.ReadString('\n')
	if project = strings.TrimSpace(project); project != "" {
		cfg.ProjectID = project
	}

	fmt.Printf("Jira email (optional) [%s]: ", cfg.JiraEmail)
	email, _ := reader.ReadString('\n')
	if email = strings.TrimSpace(email); email != "" {
		cfg.JiraEmail = email
	}

	if cfg.JiraEmail != "" {
		fmt.Print("Jira API token: ")
		tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read Jira token: %w", err)
		}
		if token := strings.TrimSpace(string(tokenBytes)); token != "" {
			cfg.JiraToken = token
		}
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Println("✓ Credentials saved.")
	return nil
}

func runAuthClear(cmd *cobra.Command, args []string) error {
	cfg.ClockifyAPIKey = ""
	cfg.JiraEmail = ""
	cfg.JiraToken = ""

	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Println("✓ Credentials cleared.")
	return nil
}
