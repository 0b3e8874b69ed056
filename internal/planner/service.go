// Package planner holds the ownership-scoped operations over lists, tasks,
// tags, comments, reminders and events. Every operation takes the acting
// user's id and only ever sees that user's data.
package planner

import (
	"context"
	"time"

	"github.com/existflow/planner/internal/db"
	"github.com/existflow/planner/internal/model"
)

// Service applies planner mutations and queries against the store
type Service struct {
	db  *db.DB
	now func() time.Time

	// resolveTag backs get-or-create for inline tag names; tests replace it
	// to fail partway through a task save.
	resolveTag func(ctx context.Context, q *db.Queries, ownerID int64, name string, now time.Time) (model.Tag, error)
}

// New creates a service over an opened database
func New(database *db.DB) *Service {
	return &Service{
		db:  database,
		now: time.Now,
		resolveTag: func(ctx context.Context, q *db.Queries, ownerID int64, name string, now time.Time) (model.Tag, error) {
			return q.GetOrCreateTag(ctx, ownerID, name, now)
		},
	}
}

// DB exposes the underlying store
func (s *Service) DB() *db.DB {
	return s.db
}
