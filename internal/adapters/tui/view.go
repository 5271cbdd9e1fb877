package tui

import (
	"fmt"
	"strings"

	"go.trai.ch/offline/internal/ui/style"
)

// View renders the bucket list.
//
//nolint:gocritic // hugeParam ignored
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("CACHE BUCKETS") + "\n\n")

	if len(m.Buckets) == 0 {
		s.WriteString(staleBucketStyle.Render("  no buckets stored") + "\n")
	}

	rows := m.rows()
	visible := m.visibleRows(len(rows))
	end := min(m.Offset+visible, len(rows))
	for _, r := range rows[m.Offset:end] {
		s.WriteString(m.renderRow(r) + "\n")
	}

	s.WriteString("\n" + helpStyle.Render("j/k move · enter entries · q quit"))
	return s.String()
}

func (m Model) renderRow(r row) string {
	b := m.Buckets[r.bucket]

	if r.entry >= 0 {
		return entryStyle.Render("      " + b.Entries[r.entry])
	}

	bucketStyle := staleBucketStyle
	icon := style.Circle
	if b.Name == m.Current {
		bucketStyle = currentBucketStyle
		icon = style.Dot
	}

	line := fmt.Sprintf("%s %s (%d)", icon, b.Name, len(b.Entries))
	if r.bucket == m.Cursor {
		return selectedStyle.Render("> ") + bucketStyle.Render(line)
	}
	return "  " + bucketStyle.Render(line)
}
