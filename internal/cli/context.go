package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/existflow/planner/internal/config"
	"github.com/spf13/cobra"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage the current list",
	Long: `Set or view the current list.

When a context is set, 'planner task add' puts new tasks into that list
unless --list is given.

Examples:
  planner context              # Show current list
  planner context set 3        # Use list #3
  planner context clear        # Clear context`,
	RunE: runContextShow,
}

var contextSetCmd = &cobra.Command{
	Use:   "set [list-id]",
	Short: "Set the current list",
	Args:  cobra.ExactArgs(1),
	RunE:  runContextSet,
}

var contextClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the current list",
	RunE:  runContextClear,
}

func init() {
	contextCmd.AddCommand(contextSetCmd)
	contextCmd.AddCommand(contextClearCmd)
}

// Context file path
func contextFilePath() string {
	return filepath.Join(config.Dir(), "context")
}

// GetCurrentContext returns the current list id (0 means none)
func GetCurrentContext() int64 {
	data, err := os.ReadFile(contextFilePath())
	if err != nil {
		return 0
	}
	id, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// SetContext saves the current list
func SetContext(listID int64) error {
	path := contextFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.FormatInt(listID, 10)), 0644)
}

// ClearContext removes the context file
func ClearContext() error {
	if err := os.Remove(contextFilePath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func runContextShow(cmd *cobra.Command, args []string) error {
	id := GetCurrentContext()
	if id == 0 {
		fmt.Println("📥 No current list")
		return nil
	}

	svc, err := openService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	user, err := actingUser(cmd.Context(), svc)
	if err != nil {
		return err
	}

	l, err := svc.GetList(cmd.Context(), user.ID, id)
	if err != nil {
		fmt.Printf("⚠️  Context set to #%d but that list is not yours or is gone\n", id)
		return nil
	}

	fmt.Printf("📁 Current list: %s (#%d, %d tasks)\n", l.Name, l.ID, l.TaskCount)
	return nil
}

func runContextSet(cmd *cobra.Command, args []string) error {
	id, err := parseID("list", args[0])
	if err != nil {
		return err
	}

	svc, err := openService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	user, err := actingUser(cmd.Context(), svc)
	if err != nil {
		return err
	}

	l, err := svc.GetList(cmd.Context(), user.ID, id)
	if err != nil {
		return fmt.Errorf("list not found: %s", args[0])
	}

	if err := SetContext(l.ID); err != nil {
		return fmt.Errorf("failed to set context: %w", err)
	}

	fmt.Printf("📁 Switched to: %s\n", l.Name)
	return nil
}

func runContextClear(cmd *cobra.Command, args []string) error {
	if err := ClearContext(); err != nil {
		return fmt.Errorf("failed to clear context: %w", err)
	}
	fmt.Println("📥 Context cleared")
	return nil
}
