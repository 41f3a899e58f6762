// Package identity produces globally unique identifiers for new rows.
package identity

import "github.com/google/uuid"

type Generator interface {
	NewID() string
}

// UUID generates random (version 4) UUID strings.
type UUID struct{}

func (UUID) NewID() string { return uuid.New().String() }

// Sequence hands out pre-seeded ids in order, for deterministic tests.
type Sequence struct {
	IDs  []string
	next int
}

func (s *Sequence) NewID() string {
	if s.next >= len(s.IDs) {
		// Fall back to random ids once the seed list is exhausted.
		return uuid.New().String()
	}
	id := s.IDs[s.next]
	s.next++
	return id
}
