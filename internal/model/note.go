package model

import "time"

// Comment is a freeform note posted on a task
type Comment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task"`
	AuthorID  int64     `json:"author"`
	Author    string    `json:"author_name"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Reminder is a scheduled note attached to a task
type Reminder struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task"`
	RemindAt  time.Time `json:"remind_at"`
	Note      string    `json:"note"`
	OwnerID   int64     `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
}

// Event is a fixed time window bound to at most one task
type Event struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Valid reports whether the window does not end before it starts
func (e *Event) Valid() bool {
	return !e.EndTime.Before(e.StartTime)
}
