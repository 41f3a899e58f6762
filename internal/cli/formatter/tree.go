package formatter

import (
	"fmt"
	"strings"
)

// TreeItem represents a single node in a task tree display.
type TreeItem struct {
	Title  string
	Level  int
	IsLast bool
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders TreeItems as an indented tree using box-drawing
// characters for connectors. Detail badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type line struct {
		content string
		badge   string
	}

	lines := make([]line, len(items))
	maxWidth := 0

	for idx, item := range items {
		var prefix string
		if item.Level > 0 {
			for i := 1; i < item.Level; i++ {
				prefix += treePipe
			}
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		lines[idx].content = Dim(prefix) + item.Title
		if item.Detail != "" {
			lines[idx].badge = Blue(fmt.Sprintf("[ %s ]", item.Detail))
		}
		if w := visibleWidth(lines[idx].content); w > maxWidth {
			maxWidth = w
		}
	}

	var b strings.Builder
	for _, li := range lines {
		if li.badge != "" {
			pad := maxWidth - visibleWidth(li.content)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
		} else {
			b.WriteString(li.content + "\n")
		}
	}

	return b.String()
}
