package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/existflow/planner/internal/db"
	"github.com/existflow/planner/internal/logger"
	"github.com/existflow/planner/internal/model"
)

// Comments

// AddComment posts a comment by userID on one of the user's tasks
func (s *Service) AddComment(ctx context.Context, userID, taskID int64, body string) (model.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return model.Comment{}, invalid("body", "This field is required.")
	}
	if _, err := s.GetTask(ctx, userID, taskID); err != nil {
		return model.Comment{}, err
	}

	id, err := s.db.CreateComment(ctx, db.CreateCommentParams{
		TaskID:   taskID,
		AuthorID: userID,
		Body:     body,
		Now:      s.now(),
	})
	if err != nil {
		return model.Comment{}, fmt.Errorf("failed to create comment: %w", err)
	}
	c, err := s.db.GetComment(ctx, userID, id)
	return c, notFound(err)
}

// Comments returns the comments on one of the user's tasks, newest first
func (s *Service) Comments(ctx context.Context, userID, taskID int64) ([]model.Comment, error) {
	if _, err := s.GetTask(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return s.db.ListComments(ctx, userID, taskID)
}

// DeleteComment deletes a comment on one of the user's tasks
func (s *Service) DeleteComment(ctx context.Context, userID, id int64) error {
	return s.db.WithTx(ctx, func(q *db.Queries) error {
		if _, err := q.GetComment(ctx, userID, id); err != nil {
			return notFound(err)
		}
		return mustAffect(q.DeleteComment(ctx, id))
	})
}

// Reminders

const maxReminderNote = 255

// ReminderInput holds the editable reminder fields
type ReminderInput struct {
	RemindAt time.Time `json:"remind_at"`
	Note     string    `json:"note"`
}

func (in ReminderInput) validate() (ReminderInput, error) {
	verr := &ValidationError{}
	if in.RemindAt.IsZero() {
		verr.Add("remind_at", "This field is required.")
	}
	in.Note = strings.TrimSpace(in.Note)
	if utf8.RuneCountInString(in.Note) > maxReminderNote {
		verr.Add("note", "Ensure this value has at most 255 characters.")
	}
	return in, verr.err()
}

// AddReminder schedules a reminder on one of the user's tasks
func (s *Service) AddReminder(ctx context.Context, userID, taskID int64, in ReminderInput) (model.Reminder, error) {
	in, err := in.validate()
	if err != nil {
		return model.Reminder{}, err
	}
	if _, err := s.GetTask(ctx, userID, taskID); err != nil {
		return model.Reminder{}, err
	}

	id, err := s.db.CreateReminder(ctx, db.CreateReminderParams{
		TaskID:   taskID,
		RemindAt: in.RemindAt,
		Note:     in.Note,
		OwnerID:  userID,
		Now:      s.now(),
	})
	if err != nil {
		return model.Reminder{}, fmt.Errorf("failed to create reminder: %w", err)
	}

	logger.Info("Reminder added", logger.F("user", userID), logger.F("task", taskID), logger.F("reminder", id))
	return s.GetReminder(ctx, userID, id)
}

// GetReminder returns a reminder on one of the user's tasks
func (s *Service) GetReminder(ctx context.Context, userID, id int64) (model.Reminder, error) {
	r, err := s.db.GetReminder(ctx, userID, id)
	return r, notFound(err)
}

// Reminders lists reminders on the user's tasks ordered by remind_at.
// A zero taskID lists across all tasks.
func (s *Service) Reminders(ctx context.Context, userID, taskID int64) ([]model.Reminder, error) {
	if taskID != 0 {
		if _, err := s.GetTask(ctx, userID, taskID); err != nil {
			return nil, err
		}
	}
	return s.db.ListReminders(ctx, userID, taskID)
}

// UpdateReminder rewrites a reminder on one of the user's tasks
func (s *Service) UpdateReminder(ctx context.Context, userID, id int64, in ReminderInput) (model.Reminder, error) {
	in, err := in.validate()
	if err != nil {
		return model.Reminder{}, err
	}

	var r model.Reminder
	err = s.db.WithTx(ctx, func(q *db.Queries) error {
		if _, err := q.GetReminder(ctx, userID, id); err != nil {
			return notFound(err)
		}
		if err := mustAffect(q.UpdateReminder(ctx, id, in.RemindAt, in.Note)); err != nil {
			return err
		}
		r, err = q.GetReminder(ctx, userID, id)
		return err
	})
	return r, err
}

// DeleteReminder deletes a reminder on one of the user's tasks
func (s *Service) DeleteReminder(ctx context.Context, userID, id int64) error {
	return s.db.WithTx(ctx, func(q *db.Queries) error {
		if _, err := q.GetReminder(ctx, userID, id); err != nil {
			return notFound(err)
		}
		return mustAffect(q.DeleteReminder(ctx, id))
	})
}

// Events

// EventInput holds the editable event window
type EventInput struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func (in EventInput) validate() error {
	verr := &ValidationError{}
	if in.StartTime.IsZero() {
		verr.Add("start_time", "This field is required.")
	}
	if in.EndTime.IsZero() {
		verr.Add("end_time", "This field is required.")
	}
	window := model.Event{StartTime: in.StartTime, EndTime: in.EndTime}
	if !verr.Has("start_time") && !verr.Has("end_time") && !window.Valid() {
		verr.Add("end_time", "Event end time cannot be earlier than start time.")
	}
	return verr.err()
}

// CreateEvent attaches an event to one of the user's tasks. A task that
// already has an event yields ErrConflict and keeps its event.
func (s *Service) CreateEvent(ctx context.Context, userID, taskID int64, in EventInput) (model.Event, error) {
	var ev model.Event
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		if _, err := q.GetTask(ctx, userID, taskID); err != nil {
			return notFound(err)
		}

		_, err := q.GetTaskEvent(ctx, userID, taskID)
		switch err = notFound(err); {
		case err == nil:
			return fmt.Errorf("%w: this task already has an event", ErrConflict)
		case !errors.Is(err, ErrNotFound):
			return err
		}

		if err := in.validate(); err != nil {
			return err
		}

		id, err := q.CreateEvent(ctx, taskID, in.StartTime, in.EndTime)
		if err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		ev, err = q.GetEvent(ctx, userID, id)
		return err
	})
	if err != nil {
		return model.Event{}, err
	}

	logger.Info("Event added", logger.F("user", userID), logger.F("task", taskID), logger.F("event", ev.ID))
	return ev, nil
}

// GetEvent returns an event on one of the user's tasks
func (s *Service) GetEvent(ctx context.Context, userID, id int64) (model.Event, error) {
	ev, err := s.db.GetEvent(ctx, userID, id)
	return ev, notFound(err)
}

// Events lists events on the user's tasks ordered by start time
func (s *Service) Events(ctx context.Context, userID int64) ([]model.Event, error) {
	return s.db.ListEvents(ctx, userID)
}

// UpdateEvent moves the window of an event on one of the user's tasks
func (s *Service) UpdateEvent(ctx context.Context, userID, id int64, in EventInput) (model.Event, error) {
	var ev model.Event
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		if _, err := q.GetEvent(ctx, userID, id); err != nil {
			return notFound(err)
		}
		if err := in.validate(); err != nil {
			return err
		}
		if err := mustAffect(q.UpdateEvent(ctx, id, in.StartTime, in.EndTime)); err != nil {
			return err
		}
		var err error
		ev, err = q.GetEvent(ctx, userID, id)
		return err
	})
	return ev, err
}

// DeleteEvent deletes an event on one of the user's tasks
func (s *Service) DeleteEvent(ctx context.Context, userID, id int64) error {
	return s.db.WithTx(ctx, func(q *db.Queries) error {
		if _, err := q.GetEvent(ctx, userID, id); err != nil {
			return notFound(err)
		}
		return mustAffect(q.DeleteEvent(ctx, id))
	})
}
