package formatter

import (
	"fmt"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/domain"
)

func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// FormatAuditList renders audit entries as a table, newest first as they
// arrive from storage.
func FormatAuditList(entries []*domain.AuditLog) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.Seq),
			e.CreatedAt.Format(time.RFC3339),
			ActionColor(string(e.Action)),
			e.TableName,
			shortID(e.RecordID),
			shortID(e.UserID),
		})
	}
	return RenderTable([]string{"Seq", "When", "Action", "Table", "Record", "Actor"}, rows)
}

// FormatAuditWithActors renders the actor-window join, showing who did what.
func FormatAuditWithActors(entries []*domain.AuditEntryWithActor) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.Seq),
			e.CreatedAt.Format(time.RFC3339),
			ActionColor(string(e.Action)),
			e.TableName,
			shortID(e.RecordID),
			fmt.Sprintf("%s <%s>", e.ActorDisplayName, e.ActorEmail),
		})
	}
	return RenderTable([]string{"Seq", "When", "Action", "Table", "Record", "Actor"}, rows)
}

// FormatActorCounts renders the per-actor activity summary.
func FormatActorCounts(counts []domain.ActorActionCount) string {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{
			shortID(c.UserID),
			ActionColor(string(c.Action)),
			fmt.Sprintf("%d", c.Count),
		})
	}
	return RenderTable([]string{"Actor", "Action", "Count"}, rows)
}
