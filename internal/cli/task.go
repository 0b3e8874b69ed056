package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/existflow/planner/internal/model"
	"github.com/existflow/planner/internal/planner"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task to a list.

Examples:
  planner task add "Buy groceries" --list 2
  planner task add "Meeting with team" -p 1 -d tomorrow
  planner task add "Buy milk" -t "urgent, errands"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTaskAdd,
}

var taskLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List tasks",
	Long: `List your tasks, optionally filtered.

Examples:
  planner task ls
  planner task ls --list 2 --open
  planner task ls -q milk --tag 3 --tag 4
  planner task ls --by-list`,
	RunE: runTaskLs,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as done",
	Long: `Mark a task as completed.

Examples:
  planner task done 12
  planner task done 12 --undo`,
	Args: cobra.ExactArgs(1),
	RunE: runTaskDone,
}

var taskDeleteCmd = &cobra.Command{
	Use:     "delete [task-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskDelete,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show a task with its reminders, event and comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var (
	addList     int64
	addPriority int
	addDue      string
	addDesc     string
	addTags     []string

	lsList     int64
	lsPriority int
	lsQuery    string
	lsTags     []int64
	lsDone     bool
	lsOpen     bool
	lsByList   bool

	doneUndo bool
)

func init() {
	taskAddCmd.Flags().Int64VarP(&addList, "list", "l", 0, "List to add the task to (default: current context)")
	taskAddCmd.Flags().IntVarP(&addPriority, "priority", "p", model.PriorityLow, "Priority (1=urgent, 4=low)")
	taskAddCmd.Flags().StringVarP(&addDue, "due", "d", "", "Due date (today, tomorrow, or 2024-01-15)")
	taskAddCmd.Flags().StringVar(&addDesc, "desc", "", "Description")
	taskAddCmd.Flags().StringSliceVarP(&addTags, "tag", "t", nil, "Tag names, created when missing")

	taskLsCmd.Flags().Int64VarP(&lsList, "list", "l", 0, "Filter by list")
	taskLsCmd.Flags().IntVarP(&lsPriority, "priority", "p", 0, "Filter by priority")
	taskLsCmd.Flags().StringVarP(&lsQuery, "query", "q", "", "Search title, description, list and tag names")
	taskLsCmd.Flags().Int64SliceVar(&lsTags, "tag", nil, "Require tag id (repeatable)")
	taskLsCmd.Flags().BoolVar(&lsDone, "done", false, "Only completed tasks")
	taskLsCmd.Flags().BoolVar(&lsOpen, "open", false, "Only open tasks")
	taskLsCmd.Flags().BoolVar(&lsByList, "by-list", false, "Order by list name")
	taskLsCmd.MarkFlagsMutuallyExclusive("done", "open")

	taskDoneCmd.Flags().BoolVar(&doneUndo, "undo", false, "Mark task as not done")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskLsCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	taskCmd.AddCommand(taskShowCmd)
}

// parseDue accepts today, tomorrow or YYYY-MM-DD
func parseDue(s string, now time.Time) (*model.Date, error) {
	var d model.Date
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return nil, nil
	case "today":
		d = model.NewDate(now)
	case "tomorrow":
		d = model.NewDate(now.AddDate(0, 0, 1))
	default:
		var err error
		if d, err = model.ParseDate(s); err != nil {
			return nil, err
		}
	}
	return &d, nil
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	user, err := actingUser(cmd.Context(), svc)
	if err != nil {
		return err
	}

	listID := addList
	if !cmd.Flags().Changed("list") {
		listID = GetCurrentContext()
	}
	if listID == 0 {
		return fmt.Errorf("no list given; pass --list or run 'planner context set <list-id>'")
	}

	due, err := parseDue(addDue, time.Now())
	if err != nil {
		return err
	}

	t, err := svc.CreateTask(cmd.Context(), user.ID, planner.TaskInput{
		Title:       strings.Join(args, " "),
		Description: addDesc,
		DueDate:     due,
		Priority:    addPriority,
		ListID:      listID,
		NewTagNames: addTags,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Added #%d to [%s]: \"%s\" (P%d)\n", t.ID, t.ListName, t.Title, t.Priority)
	return nil
}

func runTaskLs(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	user, err := actingUser(cmd.Context(), svc)
	if err != nil {
		return err
	}

	q := planner.Query{
		Q:        lsQuery,
		ListID:   lsList,
		Priority: lsPriority,
		TagIDs:   lsTags,
	}
	if lsDone || lsOpen {
		done := lsDone
		q.Done = &done
	}
	if lsByList {
		q.Order = planner.OrderByList
	}

	tasks, err := svc.FilterTasks(cmd.Context(), user.ID, q)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found. Add one with: planner task add \"Your task\" --list <id>")
		return nil
	}

	printTasks(tasks, time.Now())
	return nil
}

func printTasks(tasks []model.Task, now time.Time) {
	pending := 0
	for _, t := range tasks {
		if !t.IsCompleted {
			pending++
		}
	}

	fmt.Printf("\n📋 %d tasks (%d pending)\n", len(tasks), pending)
	fmt.Println(strings.Repeat("─", 78))
	for _, t := range tasks {
		printTask(t, now)
	}
	fmt.Println()
}

func printTask(t model.Task, now time.Time) {
	icon := "[ ]"
	if t.IsCompleted {
		icon = "[x]"
	}

	priority := fmt.Sprintf("  P%d", t.Priority)
	if t.Priority <= model.PriorityHigh {
		priority = fmt.Sprintf("▲ P%d", t.Priority)
	}

	due := ""
	if t.DueDate != nil {
		due = t.DueDate.Format("Jan 2")
		if t.IsOverdue(now) {
			due = "!" + due
		}
	}

	title := t.Title
	if len([]rune(title)) > 36 {
		title = string([]rune(title)[:33]) + "..."
	}

	tags := make([]string, len(t.Tags))
	for i, tag := range t.Tags {
		tags[i] = "#" + tag.Name
	}

	fmt.Printf("  %s  %-5d  %-36s  %-14s  %-7s  %s  %s\n",
		icon, t.ID, title, t.ListName, due, priority, strings.Join(tags, " "))
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	id, err := parseID("task", args[0])
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

	t, err := svc.GetTask(cmd.Context(), user.ID, id)
	if err != nil {
		return fmt.Errorf("task not found: %s", args[0])
	}

	done := !doneUndo
	if _, err := svc.ToggleTask(cmd.Context(), user.ID, id, &done); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if done {
		fmt.Printf("✓ Completed: \"%s\"\n", t.Title)
	} else {
		fmt.Printf("○ Reopened: \"%s\"\n", t.Title)
	}
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID("task", args[0])
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

	t, err := svc.GetTask(cmd.Context(), user.ID, id)
	if err != nil {
		return fmt.Errorf("task not found: %s", args[0])
	}
	if err := svc.DeleteTask(cmd.Context(), user.ID, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	fmt.Printf("🗑️  Deleted: \"%s\"\n", t.Title)
	return nil
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	id, err := parseID("task", args[0])
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

	d, err := svc.TaskDetail(cmd.Context(), user.ID, id, "")
	if err != nil {
		return fmt.Errorf("task not found: %s", args[0])
	}

	fmt.Println()
	printTask(d.Task, time.Now())
	if d.Description != "" {
		fmt.Printf("\n  %s\n", d.Description)
	}
	if d.Event != nil {
		fmt.Printf("\n  📅 %s – %s\n", d.Event.StartTime.Local().Format("Mon Jan 2 15:04"), d.Event.EndTime.Local().Format("15:04"))
	}
	for _, r := range d.Reminders {
		fmt.Printf("  ⏰ %s  %s\n", r.RemindAt.Local().Format("Mon Jan 2 15:04"), r.Note)
	}
	for _, c := range d.Comments {
		fmt.Printf("  💬 %s (%s): %s\n", c.Author, c.CreatedAt.Local().Format("Jan 2 15:04"), c.Body)
	}
	fmt.Println()
	return nil
}
