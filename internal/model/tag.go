package model

import "time"

// Tag is a user-defined label, unique per (owner, name)
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OwnerID   int64     `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
}
