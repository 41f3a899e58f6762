package domain

import (
	"fmt"
	"time"
)

type Task struct {
	ID           string
	ProjectID    string
	ParentTaskID *string
	StatusID     string
	AssigneeID   *string
	Title        string
	Description  string
	Priority     Priority

	// Scheduling
	StartDate        *time.Time
	DueDate          *time.Time
	EstimatedMinutes int

	// RowVersion is the optimistic-concurrency token. It starts at 1 and
	// increases by exactly 1 on every successful mutation.
	RowVersion int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks field-level invariants that do not require storage access.
func (t *Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("task title is required")
	}
	if t.Priority < PriorityLow || t.Priority > PriorityUrgent {
		return fmt.Errorf("task priority %d out of range 0-3", t.Priority)
	}
	if t.StartDate != nil && t.DueDate != nil && t.DueDate.Before(*t.StartDate) {
		return fmt.Errorf("task due date %s precedes start date %s",
			t.DueDate.Format("2006-01-02"), t.StartDate.Format("2006-01-02"))
	}
	return nil
}

// DisplayID returns a short identifier for display, truncating ID to 8 characters.
func (t *Task) DisplayID() string {
	if len(t.ID) >= 8 {
		return t.ID[:8]
	}
	return t.ID
}
