package planner

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/existflow/planner/internal/db"
	"github.com/existflow/planner/internal/logger"
	"github.com/existflow/planner/internal/model"
)

const msgTagExists = "Tag with this name already exists."

func validateTagName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "This field is required.")
	}
	if utf8.RuneCountInString(name) > maxTagName {
		return "", invalid("name", "Ensure this value has at most 255 characters.")
	}
	return name, nil
}

// GetOrCreateTag returns the user's tag with exactly this name, creating it
// on first use. Names are matched case-sensitively after trimming.
func (s *Service) GetOrCreateTag(ctx context.Context, userID int64, name string) (model.Tag, error) {
	name, err := validateTagName(name)
	if err != nil {
		return model.Tag{}, err
	}
	return s.db.GetOrCreateTag(ctx, userID, name, s.now())
}

// CreateTag creates a new tag; an existing name is a validation error
func (s *Service) CreateTag(ctx context.Context, userID int64, name string) (model.Tag, error) {
	name, err := validateTagName(name)
	if err != nil {
		return model.Tag{}, err
	}

	var tag model.Tag
	err = s.db.WithTx(ctx, func(q *db.Queries) error {
		if _, err := q.GetTagByName(ctx, userID, name); err == nil {
			return invalid("name", msgTagExists)
		} else if err := notFound(err); !errors.Is(err, ErrNotFound) {
			return err
		}
		id, err := q.CreateTag(ctx, userID, name, s.now())
		if err != nil {
			return err
		}
		tag, err = q.GetTag(ctx, userID, id)
		return err
	})
	return tag, err
}

// GetTag returns one of the user's tags
func (s *Service) GetTag(ctx context.Context, userID, id int64) (model.Tag, error) {
	t, err := s.db.GetTag(ctx, userID, id)
	return t, notFound(err)
}

// Tags returns the user's tags ordered by name
func (s *Service) Tags(ctx context.Context, userID int64) ([]model.Tag, error) {
	return s.db.ListTags(ctx, userID)
}

// RenameTag renames one of the user's tags
func (s *Service) RenameTag(ctx context.Context, userID, id int64, name string) (model.Tag, error) {
	name, err := validateTagName(name)
	if err != nil {
		return model.Tag{}, err
	}

	var tag model.Tag
	err = s.db.WithTx(ctx, func(q *db.Queries) error {
		if _, err := q.GetTag(ctx, userID, id); err != nil {
			return notFound(err)
		}
		if other, err := q.GetTagByName(ctx, userID, name); err == nil && other.ID != id {
			return invalid("name", msgTagExists)
		} else if err := notFound(err); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if err := mustAffect(q.RenameTag(ctx, userID, id, name)); err != nil {
			return err
		}
		tag, err = q.GetTag(ctx, userID, id)
		return err
	})
	return tag, err
}

// DeleteTag deletes one of the user's tags. Tasks keep existing.
func (s *Service) DeleteTag(ctx context.Context, userID, id int64) error {
	return mustAffect(s.db.DeleteTags(ctx, userID, []int64{id}))
}

// BulkDeleteTags deletes the user's tags among ids. Ids the user does not
// own are ignored. It returns how many tags were deleted.
func (s *Service) BulkDeleteTags(ctx context.Context, userID int64, ids []int64) (int64, error) {
	n, err := s.db.DeleteTags(ctx, userID, ids)
	if err != nil {
		return 0, err
	}
	logger.Info("Tags deleted", logger.F("user", userID), logger.F("requested", len(ids)), logger.F("deleted", n))
	return n, nil
}
