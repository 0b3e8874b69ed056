package db

import (
	"context"

	"github.com/existflow/planner/internal/model"
)

// CreateList inserts a list owned by ownerID
func (q *Queries) CreateList(ctx context.Context, ownerID int64, name string) (int64, error) {
	return q.insert(ctx, `INSERT INTO lists (name, owner_id) VALUES (?, ?)`, name, ownerID)
}

const listSelect = `
	SELECT l.id, l.name, l.owner_id, u.username,
	       (SELECT COUNT(*) FROM tasks t WHERE t.list_id = l.id)
	FROM lists l
	JOIN users u ON u.id = l.owner_id`

func scanList(row interface{ Scan(...any) error }) (model.List, error) {
	var l model.List
	err := row.Scan(&l.ID, &l.Name, &l.OwnerID, &l.Owner, &l.TaskCount)
	return l, err
}

// GetList returns a list only if it belongs to ownerID
func (q *Queries) GetList(ctx context.Context, ownerID, id int64) (model.List, error) {
	return scanList(q.queryRow(ctx, listSelect+` WHERE l.id = ? AND l.owner_id = ?`, id, ownerID))
}

// ListLists returns the owner's lists ordered by name
func (q *Queries) ListLists(ctx context.Context, ownerID int64) ([]model.List, error) {
	rows, err := q.query(ctx, listSelect+` WHERE l.owner_id = ? ORDER BY l.name, l.id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []model.List{}
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// RenameList renames an owned list
func (q *Queries) RenameList(ctx context.Context, ownerID, id int64, name string) (int64, error) {
	return q.affected(ctx, `UPDATE lists SET name = ? WHERE id = ? AND owner_id = ?`, name, id, ownerID)
}

// DeleteList deletes an owned list; its tasks go with it
func (q *Queries) DeleteList(ctx context.Context, ownerID, id int64) (int64, error) {
	return q.affected(ctx, `DELETE FROM lists WHERE id = ? AND owner_id = ?`, id, ownerID)
}
