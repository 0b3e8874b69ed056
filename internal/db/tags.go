package db

import (
	"context"
	"time"

	"github.com/existflow/planner/internal/model"
)

const tagColumns = `id, name, owner_id, created_at`

func scanTag(row interface{ Scan(...any) error }) (model.Tag, error) {
	var t model.Tag
	var created string
	if err := row.Scan(&t.ID, &t.Name, &t.OwnerID, &created); err != nil {
		return model.Tag{}, err
	}
	ct, err := ParseTime(created)
	if err != nil {
		return model.Tag{}, err
	}
	t.CreatedAt = ct
	return t, nil
}

// CreateTag inserts a tag; a duplicate (owner, name) fails on the unique key
func (q *Queries) CreateTag(ctx context.Context, ownerID int64, name string, now time.Time) (int64, error) {
	return q.insert(ctx, `INSERT INTO tags (name, owner_id, created_at) VALUES (?, ?, ?)`,
		name, ownerID, FormatTime(now))
}

// GetOrCreateTag returns the owner's tag called name, creating it if missing
func (q *Queries) GetOrCreateTag(ctx context.Context, ownerID int64, name string, now time.Time) (model.Tag, error) {
	_, err := q.exec(ctx, `
		INSERT INTO tags (name, owner_id, created_at) VALUES (?, ?, ?)
		ON CONFLICT (owner_id, name) DO NOTHING`,
		name, ownerID, FormatTime(now))
	if err != nil {
		return model.Tag{}, err
	}
	return q.GetTagByName(ctx, ownerID, name)
}

// GetTag returns a tag only if it belongs to ownerID
func (q *Queries) GetTag(ctx context.Context, ownerID, id int64) (model.Tag, error) {
	return scanTag(q.queryRow(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ? AND owner_id = ?`, id, ownerID))
}

// GetTagByName looks a tag up by exact, case-sensitive name
func (q *Queries) GetTagByName(ctx context.Context, ownerID int64, name string) (model.Tag, error) {
	return scanTag(q.queryRow(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE owner_id = ? AND name = ?`, ownerID, name))
}

func (q *Queries) listTags(ctx context.Context, query string, args ...any) ([]model.Tag, error) {
	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// ListTags returns the owner's tags ordered by name
func (q *Queries) ListTags(ctx context.Context, ownerID int64) ([]model.Tag, error) {
	return q.listTags(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE owner_id = ? ORDER BY name, id`, ownerID)
}

// TagsByIDs returns the subset of ids that are tags owned by ownerID
func (q *Queries) TagsByIDs(ctx context.Context, ownerID int64, ids []int64) ([]model.Tag, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []model.Tag{}, nil
	}
	args := append([]any{ownerID}, int64Args(ids)...)
	return q.listTags(ctx, `
		SELECT `+tagColumns+` FROM tags
		WHERE owner_id = ? AND id IN (`+placeholders(len(ids))+`)
		ORDER BY name, id`, args...)
}

// RenameTag renames an owned tag
func (q *Queries) RenameTag(ctx context.Context, ownerID, id int64, name string) (int64, error) {
	return q.affected(ctx, `UPDATE tags SET name = ? WHERE id = ? AND owner_id = ?`, name, id, ownerID)
}

// DeleteTags deletes the owned subset of ids and reports how many went
func (q *Queries) DeleteTags(ctx context.Context, ownerID int64, ids []int64) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	args := append([]any{ownerID}, int64Args(ids)...)
	return q.affected(ctx, `
		DELETE FROM tags
		WHERE owner_id = ? AND id IN (`+placeholders(len(ids))+`)`, args...)
}
