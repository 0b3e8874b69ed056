package model

// List is a named grouping of tasks owned by one user
type List struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	OwnerID   int64  `json:"-"`
	Owner     string `json:"owner"`
	TaskCount int    `json:"task_count"`
}
