package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
}

var tagLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List your tags",
	RunE:    runTagLs,
}

var tagDeleteCmd = &cobra.Command{
	Use:     "delete [tag-id...]",
	Aliases: []string{"rm"},
	Short:   "Delete tags; tasks keep existing",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runTagDelete,
}

func init() {
	tagCmd.AddCommand(tagLsCmd)
	tagCmd.AddCommand(tagDeleteCmd)
}

func runTagLs(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	user, err := actingUser(cmd.Context(), svc)
	if err != nil {
		return err
	}

	tags, err := svc.Tags(cmd.Context(), user.ID)
	if err != nil {
		return fmt.Errorf("failed to list tags: %w", err)
	}
	if len(tags) == 0 {
		fmt.Println("No tags yet. Tag a task with: planner task add \"title\" -t work")
		return nil
	}

	for _, t := range tags {
		fmt.Printf("  #%-5d  %s\n", t.ID, t.Name)
	}
	return nil
}

func runTagDelete(cmd *cobra.Command, args []string) error {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID("tag", arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
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

	n, err := svc.BulkDeleteTags(cmd.Context(), user.ID, ids)
	if err != nil {
		return fmt.Errorf("failed to delete tags: %w", err)
	}

	fmt.Printf("🗑️  Deleted %d of %d tags\n", n, len(ids))
	return nil
}
