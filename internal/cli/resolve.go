package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/karlrobeck/SovereignTask/internal/domain"
)

// resolveTaskID maps user input to a task ID within a project: exact match
// first, then unique UUID prefix.
func resolveTaskID(ctx context.Context, app *App, projectID, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("task ID is required")
	}

	tasks, err := app.Tasks.ListByProject(ctx, projectID)
	if err != nil {
		return "", err
	}

	for _, t := range tasks {
		if t.ID == input {
			return t.ID, nil
		}
	}

	var matches []string
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, input) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("task not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("task ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func parsePriority(s string) (domain.Priority, error) {
	switch strings.ToLower(s) {
	case "low":
		return domain.PriorityLow, nil
	case "medium":
		return domain.PriorityMedium, nil
	case "high":
		return domain.PriorityHigh, nil
	case "urgent":
		return domain.PriorityUrgent, nil
	default:
		return 0, fmt.Errorf("invalid priority %q (expected low|medium|high|urgent)", s)
	}
}
