package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/existflow/planner/internal/model"
)

type CreateTaskParams struct {
	Title       string
	Description string
	DueDate     *model.Date
	IsCompleted bool
	Priority    int
	ListID      int64
	OwnerID     int64
	Now         time.Time
}

func nullDate(d *model.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

// CreateTask inserts a task row
func (q *Queries) CreateTask(ctx context.Context, arg CreateTaskParams) (int64, error) {
	now := FormatTime(arg.Now)
	return q.insert(ctx, `
		INSERT INTO tasks (title, description, due_date, is_completed, priority, list_id, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Description, nullDate(arg.DueDate), arg.IsCompleted, arg.Priority,
		arg.ListID, arg.OwnerID, now, now,
	)
}

type UpdateTaskParams struct {
	ID          int64
	Title       string
	Description string
	DueDate     *model.Date
	IsCompleted bool
	Priority    int
	ListID      int64
	OwnerID     int64
	Now         time.Time
}

// UpdateTask rewrites the own-table fields of an owned task
func (q *Queries) UpdateTask(ctx context.Context, arg UpdateTaskParams) (int64, error) {
	return q.affected(ctx, `
		UPDATE tasks SET title = ?, description = ?, due_date = ?, is_completed = ?,
		       priority = ?, list_id = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		arg.Title, arg.Description, nullDate(arg.DueDate), arg.IsCompleted,
		arg.Priority, arg.ListID, FormatTime(arg.Now),
		arg.ID, arg.OwnerID,
	)
}

// SetTaskCompleted sets the completion flag of an owned task
func (q *Queries) SetTaskCompleted(ctx context.Context, ownerID, id int64, done bool, now time.Time) (int64, error) {
	return q.affected(ctx, `
		UPDATE tasks SET is_completed = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		done, FormatTime(now), id, ownerID,
	)
}

// DeleteTask deletes an owned task; comments, reminders and its event go with it
func (q *Queries) DeleteTask(ctx context.Context, ownerID, id int64) (int64, error) {
	return q.affected(ctx, `DELETE FROM tasks WHERE id = ? AND owner_id = ?`, id, ownerID)
}

const taskSelect = `
	SELECT t.id, t.title, t.description, t.due_date, t.is_completed, t.priority,
	       t.list_id, l.name, t.owner_id, u.username, t.created_at, t.updated_at
	FROM tasks t
	JOIN lists l ON l.id = t.list_id
	JOIN users u ON u.id = t.owner_id`

func scanTask(row interface{ Scan(...any) error }) (model.Task, error) {
	var t model.Task
	var due sql.NullString
	var created, updated string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &due, &t.IsCompleted, &t.Priority,
		&t.ListID, &t.ListName, &t.OwnerID, &t.Owner, &created, &updated)
	if err != nil {
		return model.Task{}, err
	}
	if t.CreatedAt, err = ParseTime(created); err != nil {
		return model.Task{}, err
	}
	if t.UpdatedAt, err = ParseTime(updated); err != nil {
		return model.Task{}, err
	}
	if due.Valid && due.String != "" {
		d, err := model.ParseDate(due.String)
		if err != nil {
			return model.Task{}, err
		}
		t.DueDate = &d
	}
	t.Tags = []model.Tag{}
	t.Collaborators = []int64{}
	return t, nil
}

// GetTask returns an owned task with its tags and collaborators
func (q *Queries) GetTask(ctx context.Context, ownerID, id int64) (model.Task, error) {
	t, err := scanTask(q.queryRow(ctx, taskSelect+` WHERE t.id = ? AND t.owner_id = ?`, id, ownerID))
	if err != nil {
		return model.Task{}, err
	}
	tasks := []model.Task{t}
	if err := q.attachRelations(ctx, tasks); err != nil {
		return model.Task{}, err
	}
	return tasks[0], nil
}

// TaskFilter narrows FilterTasks; zero values mean "no constraint"
type TaskFilter struct {
	Search   string
	ListID   int64
	Priority int
	Done     *bool
	TagIDs   []int64
	// ByList orders by list name then title instead of the default
	// priority, due date, title order.
	ByList bool
}

// orderBy returns the ORDER BY clause for FilterTasks. Text columns sort
// by code point on both dialects.
func (q *Queries) orderBy(byList bool) string {
	collate := ""
	if q.dialect == Postgres {
		collate = ` COLLATE "C"`
	}
	if byList {
		return ` ORDER BY l.name` + collate + `, t.title` + collate + `, t.id`
	}
	return ` ORDER BY t.priority, t.due_date IS NULL, t.due_date, t.title` + collate + `, t.id`
}

// FilterTasks returns the owner's tasks matching every constraint in f
func (q *Queries) FilterTasks(ctx context.Context, ownerID int64, f TaskFilter) ([]model.Task, error) {
	var b strings.Builder
	b.WriteString(taskSelect)
	b.WriteString(` WHERE t.owner_id = ?`)
	args := []any{ownerID}

	if search := strings.TrimSpace(f.Search); search != "" {
		title, pattern := q.containsFold("t.title", search)
		desc, _ := q.containsFold("t.description", search)
		list, _ := q.containsFold("l.name", search)
		tag, _ := q.containsFold("g.name", search)
		b.WriteString(` AND (` + title + `
			OR ` + desc + `
			OR ` + list + `
			OR EXISTS (
				SELECT 1 FROM task_tags tt JOIN tags g ON g.id = tt.tag_id
				WHERE tt.task_id = t.id AND ` + tag + `))`)
		args = append(args, pattern, pattern, pattern, pattern)
	}

	if f.ListID != 0 {
		b.WriteString(` AND t.list_id = ?`)
		args = append(args, f.ListID)
	}

	if f.Priority != 0 {
		b.WriteString(` AND t.priority = ?`)
		args = append(args, f.Priority)
	}

	if f.Done != nil {
		b.WriteString(` AND t.is_completed = ?`)
		args = append(args, *f.Done)
	}

	if tagIDs := uniqueIDs(f.TagIDs); len(tagIDs) > 0 {
		b.WriteString(` AND t.id IN (
			SELECT task_id FROM task_tags
			WHERE tag_id IN (` + placeholders(len(tagIDs)) + `)
			GROUP BY task_id
			HAVING COUNT(DISTINCT tag_id) = ?)`)
		args = append(args, int64Args(tagIDs)...)
		args = append(args, len(tagIDs))
	}

	b.WriteString(q.orderBy(f.ByList))

	rows, err := q.query(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := q.attachRelations(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
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

// attachRelations loads tags and collaborators for tasks in two queries
func (q *Queries) attachRelations(ctx context.Context, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]int64, len(tasks))
	index := make(map[int64]int, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
		index[t.ID] = i
	}

	rows, err := q.query(ctx, `
		SELECT tt.task_id, g.id, g.name, g.owner_id, g.created_at
		FROM task_tags tt
		JOIN tags g ON g.id = tt.tag_id
		WHERE tt.task_id IN (`+placeholders(len(ids))+`)
		ORDER BY g.name, g.id`, int64Args(ids)...)
	if err != nil {
		return err
	}
	for rows.Next() {
		var taskID int64
		var tag model.Tag
		var created string
		if err := rows.Scan(&taskID, &tag.ID, &tag.Name, &tag.OwnerID, &created); err != nil {
			rows.Close()
			return err
		}
		if tag.CreatedAt, err = ParseTime(created); err != nil {
			rows.Close()
			return err
		}
		i := index[taskID]
		tasks[i].Tags = append(tasks[i].Tags, tag)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.query(ctx, `
		SELECT task_id, user_id FROM task_collaborators
		WHERE task_id IN (`+placeholders(len(ids))+`)
		ORDER BY user_id`, int64Args(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var taskID, userID int64
		if err := rows.Scan(&taskID, &userID); err != nil {
			return err
		}
		i := index[taskID]
		tasks[i].Collaborators = append(tasks[i].Collaborators, userID)
	}
	return rows.Err()
}

// ClearTaskTags detaches every tag from a task
func (q *Queries) ClearTaskTags(ctx context.Context, taskID int64) error {
	_, err := q.exec(ctx, `DELETE FROM task_tags WHERE task_id = ?`, taskID)
	return err
}

// AddTaskTag attaches a tag to a task; attaching twice is a no-op
func (q *Queries) AddTaskTag(ctx context.Context, taskID, tagID int64) error {
	_, err := q.exec(ctx, `
		INSERT INTO task_tags (task_id, tag_id) VALUES (?, ?)
		ON CONFLICT (task_id, tag_id) DO NOTHING`, taskID, tagID)
	return err
}

// SetTaskCollaborators replaces the collaborator set of a task
func (q *Queries) SetTaskCollaborators(ctx context.Context, taskID int64, userIDs []int64) error {
	if _, err := q.exec(ctx, `DELETE FROM task_collaborators WHERE task_id = ?`, taskID); err != nil {
		return err
	}
	for _, id := range uniqueIDs(userIDs) {
		if _, err := q.exec(ctx, `INSERT INTO task_collaborators (task_id, user_id) VALUES (?, ?)`, taskID, id); err != nil {
			return err
		}
	}
	return nil
}
