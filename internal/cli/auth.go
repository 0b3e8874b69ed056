package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/existflow/planner/internal/planner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add [username]",
	Short: "Create an account",
	Long: `Create an account. The password is read from the terminal unless
--password is given.

Examples:
  planner user add anna --email anna@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runUserAdd,
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Load the demo account with sample data",
	RunE:  runDemo,
}

var (
	userEmail    string
	userPassword string
)

func init() {
	userAddCmd.Flags().StringVarP(&userEmail, "email", "e", "", "Email address")
	userAddCmd.Flags().StringVarP(&userPassword, "password", "p", "", "Password (prompted when empty)")

	userCmd.AddCommand(userAddCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	password := userPassword
	if password == "" {
		if password, err = promptPassword(); err != nil {
			return err
		}
	}

	user, err := svc.Register(cmd.Context(), args[0], userEmail, password)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Created user %s (id %d)\n", user.Username, user.ID)
	return nil
}

func promptPassword() (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Print("Confirm Password: ")
	confirmBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if string(passwordBytes) != string(confirmBytes) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(passwordBytes), nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	user, created, err := svc.SeedDemo(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load demo data: %w", err)
	}

	if !created {
		fmt.Printf("Demo user %q already exists (id %d)\n", user.Username, user.ID)
		return nil
	}
	fmt.Printf("✓ Demo data loaded. Log in as %s / %s\n", planner.DemoUsername, planner.DemoPassword)
	return nil
}
