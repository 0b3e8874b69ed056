package planner

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/existflow/planner/internal/db"
	"github.com/existflow/planner/internal/logger"
	"github.com/existflow/planner/internal/model"
)

const (
	maxTitle   = 255
	maxTagName = 255

	msgListCreate  = "You cannot add a task to that list."
	msgListMove    = "You cannot move the task to that list."
	msgForeignTags = "You cannot attach tags that you don't own."
)

// TaskInput is the full set of editable task fields. Tag membership comes
// from two explicit sources: ids of existing tags and names of tags to
// resolve or create.
type TaskInput struct {
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	DueDate        *model.Date `json:"due_date"`
	IsCompleted    bool        `json:"is_completed"`
	Priority       int         `json:"priority"`
	ListID         int64       `json:"list"`
	SelectedTagIDs []int64     `json:"tags"`
	NewTagNames    []string    `json:"new_tags"`
	Collaborators  []int64     `json:"users"`
}

// ParseTagNames splits comma-separated values, trims whitespace, drops
// empty entries and repeated names, keeping first-seen order.
func ParseTagNames(values ...string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			name := strings.TrimSpace(part)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

type resolvedTask struct {
	in       TaskInput
	selected []model.Tag
	newNames []string
}

// validateTask checks in against the user's data. listMsg is the message
// used when the target list is not the user's.
func (s *Service) validateTask(ctx context.Context, q *db.Queries, userID int64, in TaskInput, listMsg string) (resolvedTask, error) {
	verr := &ValidationError{}

	in.Title = strings.TrimSpace(in.Title)
	switch {
	case in.Title == "":
		verr.Add("title", "This field is required.")
	case utf8.RuneCountInString(in.Title) > maxTitle:
		verr.Add("title", "Ensure this value has at most 255 characters.")
	}

	if in.Priority == 0 {
		in.Priority = model.PriorityLow
	}
	if !model.ValidPriority(in.Priority) {
		verr.Add("priority", fmt.Sprintf("Select a valid choice. %d is not one of the available choices.", in.Priority))
	}

	if in.ListID == 0 {
		verr.Add("list", "This field is required.")
	} else if _, err := q.GetList(ctx, userID, in.ListID); err != nil {
		if err := notFound(err); !errors.Is(err, ErrNotFound) {
			return resolvedTask{}, err
		}
		verr.Add("list", listMsg)
	}

	selected, err := q.TagsByIDs(ctx, userID, in.SelectedTagIDs)
	if err != nil {
		return resolvedTask{}, err
	}
	if len(selected) != countUnique(in.SelectedTagIDs) {
		verr.Add("tags", msgForeignTags)
	}

	names := ParseTagNames(in.NewTagNames...)
	for _, name := range names {
		if utf8.RuneCountInString(name) > maxTagName {
			verr.Add("new_tags", "Tag names may have at most 255 characters.")
			break
		}
	}

	if n := countUnique(in.Collaborators); n > 0 {
		found, err := q.CountUsers(ctx, uniqueIDs(in.Collaborators))
		if err != nil {
			return resolvedTask{}, err
		}
		if found != n {
			verr.Add("users", "Select a valid choice. That user does not exist.")
		}
	}

	if err := verr.err(); err != nil {
		return resolvedTask{}, err
	}
	return resolvedTask{in: in, selected: selected, newNames: names}, nil
}

// applyRelations replaces the task's tags with the selection, then adds
// the resolved new tags on top, and replaces collaborators.
func (s *Service) applyRelations(ctx context.Context, q *db.Queries, userID, taskID int64, r resolvedTask) error {
	if err := q.ClearTaskTags(ctx, taskID); err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}
	for _, tag := range r.selected {
		if err := q.AddTaskTag(ctx, taskID, tag.ID); err != nil {
			return fmt.Errorf("failed to attach tag: %w", err)
		}
	}
	for _, name := range r.newNames {
		tag, err := s.resolveTag(ctx, q, userID, name, s.now())
		if err != nil {
			return fmt.Errorf("failed to resolve tag %q: %w", name, err)
		}
		if err := q.AddTaskTag(ctx, taskID, tag.ID); err != nil {
			return fmt.Errorf("failed to attach tag: %w", err)
		}
	}
	if err := q.SetTaskCollaborators(ctx, taskID, r.in.Collaborators); err != nil {
		return fmt.Errorf("failed to set collaborators: %w", err)
	}
	return nil
}

// CreateTask creates a task owned by userID in one transaction together
// with its tag set.
func (s *Service) CreateTask(ctx context.Context, userID int64, in TaskInput) (model.Task, error) {
	var id int64
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		r, err := s.validateTask(ctx, q, userID, in, msgListCreate)
		if err != nil {
			return err
		}

		id, err = q.CreateTask(ctx, db.CreateTaskParams{
			Title:       r.in.Title,
			Description: r.in.Description,
			DueDate:     r.in.DueDate,
			IsCompleted: r.in.IsCompleted,
			Priority:    r.in.Priority,
			ListID:      r.in.ListID,
			OwnerID:     userID,
			Now:         s.now(),
		})
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		return s.applyRelations(ctx, q, userID, id, r)
	})
	if err != nil {
		return model.Task{}, err
	}

	logger.Info("Task created", logger.F("user", userID), logger.F("task", id))
	return s.GetTask(ctx, userID, id)
}

// UpdateTask rewrites one of the user's tasks and its tag set in one
// transaction.
func (s *Service) UpdateTask(ctx context.Context, userID, taskID int64, in TaskInput) (model.Task, error) {
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		if _, err := q.GetTask(ctx, userID, taskID); err != nil {
			return notFound(err)
		}

		r, err := s.validateTask(ctx, q, userID, in, msgListMove)
		if err != nil {
			return err
		}

		if err := mustAffect(q.UpdateTask(ctx, db.UpdateTaskParams{
			ID:          taskID,
			Title:       r.in.Title,
			Description: r.in.Description,
			DueDate:     r.in.DueDate,
			IsCompleted: r.in.IsCompleted,
			Priority:    r.in.Priority,
			ListID:      r.in.ListID,
			OwnerID:     userID,
			Now:         s.now(),
		})); err != nil {
			return err
		}
		return s.applyRelations(ctx, q, userID, taskID, r)
	})
	if err != nil {
		return model.Task{}, err
	}

	logger.Info("Task updated", logger.F("user", userID), logger.F("task", taskID))
	return s.GetTask(ctx, userID, taskID)
}

// GetTask returns one of the user's tasks with tags and collaborators
func (s *Service) GetTask(ctx context.Context, userID, id int64) (model.Task, error) {
	t, err := s.db.GetTask(ctx, userID, id)
	return t, notFound(err)
}

// TaskDetail returns a task with reminders, event and comments. back is
// the caller's previous page; it is echoed only when it is a page worth
// returning to.
func (s *Service) TaskDetail(ctx context.Context, userID, id int64, back string) (model.TaskDetail, error) {
	t, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return model.TaskDetail{}, err
	}

	detail := model.TaskDetail{Task: t, BackURL: BackLink(back)}

	if detail.Reminders, err = s.db.ListReminders(ctx, userID, id); err != nil {
		return model.TaskDetail{}, err
	}
	if detail.Comments, err = s.db.ListComments(ctx, userID, id); err != nil {
		return model.TaskDetail{}, err
	}
	ev, err := s.db.GetTaskEvent(ctx, userID, id)
	switch err = notFound(err); {
	case err == nil:
		detail.Event = &ev
	case !errors.Is(err, ErrNotFound):
		return model.TaskDetail{}, err
	}

	return detail, nil
}

// DeleteTask deletes one of the user's tasks; comments, reminders and the
// event go with it.
func (s *Service) DeleteTask(ctx context.Context, userID, id int64) error {
	if err := mustAffect(s.db.DeleteTask(ctx, userID, id)); err != nil {
		return err
	}
	logger.Info("Task deleted", logger.F("user", userID), logger.F("task", id))
	return nil
}

// ToggleTask sets the completion flag to *done, or flips it when done is nil.
// It returns the new state.
func (s *Service) ToggleTask(ctx context.Context, userID, id int64, done *bool) (bool, error) {
	var state bool
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		t, err := q.GetTask(ctx, userID, id)
		if err != nil {
			return notFound(err)
		}
		state = !t.IsCompleted
		if done != nil {
			state = *done
		}
		return mustAffect(q.SetTaskCompleted(ctx, userID, id, state, s.now()))
	})
	return state, err
}

var listPage = regexp.MustCompile(`/app/lists/\d+$`)

// BackLink returns ref when it points at the task index or a list detail
// page, and "" otherwise.
func BackLink(ref string) string {
	ref = strings.TrimRight(strings.TrimSpace(ref), "/")
	if ref == "" {
		return ""
	}
	if strings.HasSuffix(ref, "/app/tasks") || listPage.MatchString(ref) {
		return ref
	}
	return ""
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func countUnique(ids []int64) int {
	return len(uniqueIDs(ids))
}
