package domain

import "time"

// Dependency is a directed edge between two tasks: the successor cannot
// start (or finish, depending on Type) until the predecessor does.
type Dependency struct {
	ID                string
	PredecessorTaskID string
	SuccessorTaskID   string
	Type              DependencyType
	CreatedAt         time.Time
}
