package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

const (
	headerLines = 2
	footerLines = 2
)

// Bucket is one cache bucket in the list.
type Bucket struct {
	Name     string
	Entries  []string
	Expanded bool
}

// row is one rendered line: a bucket, or one of its entries when entry >= 0.
type row struct {
	bucket int
	entry  int
}

// Model represents the inspector state.
type Model struct {
	Buckets []Bucket
	Current string
	Cursor  int
	Offset  int
	Width   int
	Height  int
}

// Init initializes the model.
//
//nolint:gocritic // hugeParam ignored
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses and window resizes.
//
//nolint:gocritic // hugeParam ignored
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "j", "down":
			if m.Cursor < len(m.Buckets)-1 {
				m.Cursor++
			}
		case "k", "up":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "enter", " ":
			if m.Cursor < len(m.Buckets) {
				m.Buckets[m.Cursor].Expanded = !m.Buckets[m.Cursor].Expanded
			}
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
	}

	m.scroll()
	return m, nil
}

// Selected returns the bucket under the cursor.
func (m Model) Selected() (Bucket, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Buckets) {
		return Bucket{}, false
	}
	return m.Buckets[m.Cursor], true
}

func (m Model) rows() []row {
	var rows []row
	for i, b := range m.Buckets {
		rows = append(rows, row{bucket: i, entry: -1})
		if b.Expanded {
			for j := range b.Entries {
				rows = append(rows, row{bucket: i, entry: j})
			}
		}
	}
	return rows
}

// visibleRows is the number of list lines that fit on screen. Without a
// known height everything is shown.
func (m Model) visibleRows(total int) int {
	if m.Height <= 0 {
		return total
	}
	return max(m.Height-headerLines-footerLines, 1)
}

// scroll keeps the cursor bucket inside the window.
func (m *Model) scroll() {
	rows := m.rows()
	visible := m.visibleRows(len(rows))

	idx := 0
	for i, r := range rows {
		if r.bucket == m.Cursor && r.entry < 0 {
			idx = i
			break
		}
	}

	switch {
	case idx < m.Offset:
		m.Offset = idx
	case idx >= m.Offset+visible:
		m.Offset = idx - visible + 1
	}
	if m.Offset > max(len(rows)-visible, 0) {
		m.Offset = max(len(rows)-visible, 0)
	}
}
