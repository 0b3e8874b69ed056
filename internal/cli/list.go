package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Manage lists",
	Long:  `Create, show, rename and delete your task lists.`,
	RunE:  runListLs,
}

var listNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a new list",
	Long: `Create a new list for organizing tasks.

Examples:
  planner list new "Work"
  planner list new "Groceries" --user anna`,
	Args: cobra.MinimumNArgs(1),
	RunE: runListNew,
}

var listLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List your lists with task counts",
	RunE:    runListLs,
}

var listRenameCmd = &cobra.Command{
	Use:   "rename [list-id] [name]",
	Short: "Rename a list",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runListRename,
}

var listDeleteCmd = &cobra.Command{
	Use:     "delete [list-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a list and its tasks",
	Args:    cobra.ExactArgs(1),
	RunE:    runListDelete,
}

func init() {
	listCmd.AddCommand(listNewCmd)
	listCmd.AddCommand(listLsCmd)
	listCmd.AddCommand(listRenameCmd)
	listCmd.AddCommand(listDeleteCmd)
}

func parseID(kind, arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id: %s", kind, arg)
	}
	return id, nil
}

func runListNew(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	user, err := actingUser(cmd.Context(), svc)
	if err != nil {
		return err
	}

	l, err := svc.CreateList(cmd.Context(), user.ID, strings.Join(args, " "))
	if err != nil {
		return err
	}

	fmt.Printf("✓ Created list #%d: %s\n", l.ID, l.Name)
	return nil
}

func runListLs(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	user, err := actingUser(cmd.Context(), svc)
	if err != nil {
		return err
	}

	lists, err := svc.Lists(cmd.Context(), user.ID)
	if err != nil {
		return fmt.Errorf("failed to list lists: %w", err)
	}

	if len(lists) == 0 {
		fmt.Println("No lists yet. Create one with: planner list new \"Work\"")
		return nil
	}

	current := GetCurrentContext()
	fmt.Println()
	for _, l := range lists {
		marker := "  "
		if l.ID == current {
			marker = "❯ "
		}
		fmt.Printf("%s#%-5d  %-30s  %d tasks\n", marker, l.ID, l.Name, l.TaskCount)
	}
	fmt.Println()
	return nil
}

func runListRename(cmd *cobra.Command, args []string) error {
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

	l, err := svc.RenameList(cmd.Context(), user.ID, id, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}

	fmt.Printf("✓ Renamed list #%d to %s\n", l.ID, l.Name)
	return nil
}

func runListDelete(cmd *cobra.Command, args []string) error {
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
	if err := svc.DeleteList(cmd.Context(), user.ID, id); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	if GetCurrentContext() == id {
		_ = ClearContext()
	}

	fmt.Printf("🗑️  Deleted list %s and %d tasks\n", l.Name, l.TaskCount)
	return nil
}
