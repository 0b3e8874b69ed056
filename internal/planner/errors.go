package planner

import (
	"database/sql"
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound covers both missing entities and entities owned by
	// someone else; callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a mutation collides with existing state,
	// such as a second event for the same task.
	ErrConflict = errors.New("conflict")

	// ErrInvalidCredentials is returned by Authenticate
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries field-scoped messages for a rejected mutation
type ValidationError struct {
	Fields map[string][]string `json:"errors"`
}

// Add records msg against field
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Has reports whether field has at least one message
func (e *ValidationError) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// err returns e as an error, or nil when nothing was recorded
func (e *ValidationError) err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// invalid builds a single-field validation error
func invalid(field, msg string) error {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

// notFound maps sql.ErrNoRows onto ErrNotFound and passes other errors through
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// mustAffect turns a zero-row write into ErrNotFound
func mustAffect(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
