package planner

import (
	"context"

	"github.com/existflow/planner/internal/db"
	"github.com/existflow/planner/internal/model"
)

// Order selects the sort of a task query
type Order int

const (
	// OrderDefault sorts by priority, due date (nulls last), title, id
	OrderDefault Order = iota
	// OrderByList sorts by list name, title, id
	OrderByList
)

// Query is a filtered view over the user's tasks. Zero values leave a
// dimension unconstrained; all set dimensions must match.
type Query struct {
	Q        string
	ListID   int64
	Priority int
	Done     *bool
	// TagIDs must all be present on a task for it to match.
	TagIDs []int64
	Order  Order
}

// FilterTasks returns the user's tasks matching q
func (s *Service) FilterTasks(ctx context.Context, userID int64, q Query) ([]model.Task, error) {
	return s.db.FilterTasks(ctx, userID, db.TaskFilter{
		Search:   q.Q,
		ListID:   q.ListID,
		Priority: q.Priority,
		Done:     q.Done,
		TagIDs:   q.TagIDs,
		ByList:   q.Order == OrderByList,
	})
}
