package planner

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/existflow/planner/internal/db"
	"github.com/existflow/planner/internal/logger"
	"github.com/existflow/planner/internal/model"
)

const maxListName = 100

func validateListName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "This field is required.")
	}
	if utf8.RuneCountInString(name) > maxListName {
		return "", invalid("name", "Ensure this value has at most 100 characters.")
	}
	return name, nil
}

// CreateList creates a list owned by userID. Duplicate names are allowed.
func (s *Service) CreateList(ctx context.Context, userID int64, name string) (model.List, error) {
	name, err := validateListName(name)
	if err != nil {
		return model.List{}, err
	}

	id, err := s.db.CreateList(ctx, userID, name)
	if err != nil {
		return model.List{}, err
	}

	logger.Info("List created", logger.F("user", userID), logger.F("list", id))
	return s.GetList(ctx, userID, id)
}

// GetList returns one of the user's lists
func (s *Service) GetList(ctx context.Context, userID, id int64) (model.List, error) {
	l, err := s.db.GetList(ctx, userID, id)
	return l, notFound(err)
}

// Lists returns the user's lists with task counts, ordered by name
func (s *Service) Lists(ctx context.Context, userID int64) ([]model.List, error) {
	return s.db.ListLists(ctx, userID)
}

// RenameList renames one of the user's lists
func (s *Service) RenameList(ctx context.Context, userID, id int64, name string) (model.List, error) {
	name, err := validateListName(name)
	if err != nil {
		return model.List{}, err
	}
	if err := mustAffect(s.db.RenameList(ctx, userID, id, name)); err != nil {
		return model.List{}, err
	}
	return s.GetList(ctx, userID, id)
}

// DeleteList deletes one of the user's lists together with its tasks
func (s *Service) DeleteList(ctx context.Context, userID, id int64) error {
	if err := mustAffect(s.db.DeleteList(ctx, userID, id)); err != nil {
		return err
	}
	logger.Info("List deleted", logger.F("user", userID), logger.F("list", id))
	return nil
}

// ListTasks returns the tasks of one of the user's lists in default order
func (s *Service) ListTasks(ctx context.Context, userID, listID int64) ([]model.Task, error) {
	if _, err := s.GetList(ctx, userID, listID); err != nil {
		return nil, err
	}
	return s.db.FilterTasks(ctx, userID, db.TaskFilter{ListID: listID})
}
