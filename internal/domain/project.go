package domain

import "time"

type Project struct {
	ID          string
	TenantID    string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Status is a per-project lane a task sits in (e.g. Backlog, In Progress, Done).
type Status struct {
	ID         string
	ProjectID  string
	Name       string
	OrderIndex int
	IsTerminal bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
