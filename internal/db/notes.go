package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/existflow/planner/internal/model"
)

// Comments, reminders and events carry no authoritative owner of their own:
// every read below joins through tasks.owner_id.

type CreateCommentParams struct {
	TaskID   int64
	AuthorID int64
	Body     string
	Now      time.Time
}

// CreateComment inserts a comment
func (q *Queries) CreateComment(ctx context.Context, arg CreateCommentParams) (int64, error) {
	return q.insert(ctx, `
		INSERT INTO comments (task_id, author_id, body, created_at) VALUES (?, ?, ?, ?)`,
		arg.TaskID, arg.AuthorID, arg.Body, FormatTime(arg.Now))
}

const commentSelect = `
	SELECT c.id, c.task_id, c.author_id, u.username, c.body, c.created_at
	FROM comments c
	JOIN tasks t ON t.id = c.task_id
	JOIN users u ON u.id = c.author_id`

func scanComment(row interface{ Scan(...any) error }) (model.Comment, error) {
	var c model.Comment
	var created string
	if err := row.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Author, &c.Body, &created); err != nil {
		return model.Comment{}, err
	}
	ct, err := ParseTime(created)
	if err != nil {
		return model.Comment{}, err
	}
	c.CreatedAt = ct
	return c, nil
}

// GetComment returns a comment on one of ownerID's tasks
func (q *Queries) GetComment(ctx context.Context, ownerID, id int64) (model.Comment, error) {
	return scanComment(q.queryRow(ctx, commentSelect+` WHERE c.id = ? AND t.owner_id = ?`, id, ownerID))
}

// ListComments returns comments on an owned task, newest first
func (q *Queries) ListComments(ctx context.Context, ownerID, taskID int64) ([]model.Comment, error) {
	rows, err := q.query(ctx, commentSelect+`
		WHERE c.task_id = ? AND t.owner_id = ?
		ORDER BY c.created_at DESC, c.id DESC`, taskID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// DeleteComment removes a comment by id
func (q *Queries) DeleteComment(ctx context.Context, id int64) (int64, error) {
	return q.affected(ctx, `DELETE FROM comments WHERE id = ?`, id)
}

type CreateReminderParams struct {
	TaskID   int64
	RemindAt time.Time
	Note     string
	OwnerID  int64
	Now      time.Time
}

// CreateReminder inserts a reminder
func (q *Queries) CreateReminder(ctx context.Context, arg CreateReminderParams) (int64, error) {
	return q.insert(ctx, `
		INSERT INTO reminders (task_id, remind_at, note, owner_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		arg.TaskID, FormatTime(arg.RemindAt), arg.Note, arg.OwnerID, FormatTime(arg.Now))
}

const reminderSelect = `
	SELECT r.id, r.task_id, r.remind_at, r.note, r.owner_id, r.created_at
	FROM reminders r
	JOIN tasks t ON t.id = r.task_id`

func scanReminder(row interface{ Scan(...any) error }) (model.Reminder, error) {
	var r model.Reminder
	var remindAt, created string
	var owner sql.NullInt64
	if err := row.Scan(&r.ID, &r.TaskID, &remindAt, &r.Note, &owner, &created); err != nil {
		return model.Reminder{}, err
	}
	var err error
	if r.RemindAt, err = ParseTime(remindAt); err != nil {
		return model.Reminder{}, err
	}
	if r.CreatedAt, err = ParseTime(created); err != nil {
		return model.Reminder{}, err
	}
	r.OwnerID = owner.Int64
	return r, nil
}

// GetReminder returns a reminder on one of ownerID's tasks
func (q *Queries) GetReminder(ctx context.Context, ownerID, id int64) (model.Reminder, error) {
	return scanReminder(q.queryRow(ctx, reminderSelect+` WHERE r.id = ? AND t.owner_id = ?`, id, ownerID))
}

// ListReminders returns reminders on ownerID's tasks ordered by remind_at.
// A zero taskID lists across all tasks.
func (q *Queries) ListReminders(ctx context.Context, ownerID, taskID int64) ([]model.Reminder, error) {
	query := reminderSelect + ` WHERE t.owner_id = ?`
	args := []any{ownerID}
	if taskID != 0 {
		query += ` AND r.task_id = ?`
		args = append(args, taskID)
	}
	query += ` ORDER BY r.remind_at, r.id`

	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := []model.Reminder{}
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// UpdateReminder rewrites remind_at and note
func (q *Queries) UpdateReminder(ctx context.Context, id int64, remindAt time.Time, note string) (int64, error) {
	return q.affected(ctx, `UPDATE reminders SET remind_at = ?, note = ? WHERE id = ?`,
		FormatTime(remindAt), note, id)
}

// DeleteReminder removes a reminder by id
func (q *Queries) DeleteReminder(ctx context.Context, id int64) (int64, error) {
	return q.affected(ctx, `DELETE FROM reminders WHERE id = ?`, id)
}

// CreateEvent inserts the event of a task; a second one fails on the unique key
func (q *Queries) CreateEvent(ctx context.Context, taskID int64, start, end time.Time) (int64, error) {
	return q.insert(ctx, `INSERT INTO events (task_id, start_time, end_time) VALUES (?, ?, ?)`,
		taskID, FormatTime(start), FormatTime(end))
}

const eventSelect = `
	SELECT e.id, e.task_id, e.start_time, e.end_time
	FROM events e
	JOIN tasks t ON t.id = e.task_id`

func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var e model.Event
	var start, end string
	if err := row.Scan(&e.ID, &e.TaskID, &start, &end); err != nil {
		return model.Event{}, err
	}
	var err error
	if e.StartTime, err = ParseTime(start); err != nil {
		return model.Event{}, err
	}
	if e.EndTime, err = ParseTime(end); err != nil {
		return model.Event{}, err
	}
	return e, nil
}

// GetEvent returns an event on one of ownerID's tasks
func (q *Queries) GetEvent(ctx context.Context, ownerID, id int64) (model.Event, error) {
	return scanEvent(q.queryRow(ctx, eventSelect+` WHERE e.id = ? AND t.owner_id = ?`, id, ownerID))
}

// GetTaskEvent returns the event of an owned task
func (q *Queries) GetTaskEvent(ctx context.Context, ownerID, taskID int64) (model.Event, error) {
	return scanEvent(q.queryRow(ctx, eventSelect+` WHERE e.task_id = ? AND t.owner_id = ?`, taskID, ownerID))
}

// ListEvents returns events on ownerID's tasks ordered by start time
func (q *Queries) ListEvents(ctx context.Context, ownerID int64) ([]model.Event, error) {
	rows, err := q.query(ctx, eventSelect+` WHERE t.owner_id = ? ORDER BY e.start_time, e.id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// UpdateEvent rewrites the window of an event
func (q *Queries) UpdateEvent(ctx context.Context, id int64, start, end time.Time) (int64, error) {
	return q.affected(ctx, `UPDATE events SET start_time = ?, end_time = ? WHERE id = ?`,
		FormatTime(start), FormatTime(end), id)
}

// DeleteEvent removes an event by id
func (q *Queries) DeleteEvent(ctx context.Context, id int64) (int64, error) {
	return q.affected(ctx, `DELETE FROM events WHERE id = ?`, id)
}
