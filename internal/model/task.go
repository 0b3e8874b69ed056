package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Priority levels for tasks
const (
	PriorityUrgent = 1 // Red - Urgent
	PriorityHigh   = 2 // Orange - High
	PriorityMedium = 3 // Yellow - Medium
	PriorityLow    = 4 // Blue - Low (default)
)

// ValidPriority reports whether p is one of the four priority levels
func ValidPriority(p int) bool {
	return p >= PriorityUrgent && p <= PriorityLow
}

// DateLayout is the storage and wire format of due dates
const DateLayout = "2006-01-02"

// Date is a calendar day without a time component
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Task represents a single unit of work inside a list
type Task struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	DueDate       *Date   `json:"due_date"`
	IsCompleted   bool    `json:"is_completed"`
	Priority      int     `json:"priority"`
	ListID        int64   `json:"list"`
	ListName      string  `json:"list_name"`
	OwnerID       int64   `json:"-"`
	Owner         string  `json:"owner"`
	Collaborators []int64 `json:"users"`
	Tags          []Tag   `json:"tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOverdue returns true if the task is open and past its due date
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.IsCompleted {
		return false
	}
	return t.DueDate.Before(NewDate(now).Time)
}

// TaskDetail is a task together with its dependent entities
type TaskDetail struct {
	Task
	Reminders []Reminder `json:"reminders"`
	Event     *Event     `json:"event"`
	Comments  []Comment  `json:"comments"`
	BackURL   string     `json:"back_url,omitempty"`
}
