package onboarding

import "time"

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	SortOrder   int       `json:"sortOrder"`
	IsRequired  bool      `json:"isRequired"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TaskProgress is a catalog task joined with the caller's completion marker.
type TaskProgress struct {
	Task
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

type Summary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Required  int `json:"required"`
}
