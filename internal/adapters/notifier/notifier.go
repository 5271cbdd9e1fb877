// Package notifier shows worker notifications as boxes on a terminal.
package notifier

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/offline/internal/ui/output"
	"go.trai.ch/offline/internal/ui/style"
	"go.trai.ch/zerr"
)

var _ ports.Notifier = (*Notifier)(nil)

// Notifier renders notifications to a writer and remembers the ones that are
// still open. Showing a notification with the tag of an open one replaces it.
type Notifier struct {
	mu   sync.Mutex
	w    io.Writer
	box  lipgloss.Style
	text lipgloss.Style
	dim  lipgloss.Style
	head lipgloss.Style

	open  map[string]domain.Notification
	order []string
}

// New creates a Notifier writing to w. Colors are used only when w is a terminal.
func New(w io.Writer) *Notifier {
	profile := termenv.Ascii
	if output.IsTerminal(w) {
		profile = output.ColorProfile()
	}
	r := lipgloss.NewRenderer(w, termenv.WithProfile(profile))

	return &Notifier{
		w: w,
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(style.Iris).
			Padding(0, 1),
		head: r.NewStyle().Bold(true).Foreground(style.Iris),
		text: r.NewStyle(),
		dim:  r.NewStyle().Foreground(style.Slate),
		open: make(map[string]domain.Notification),
	}
}

// Show displays n.
func (n *Notifier) Show(_ context.Context, note domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.open[note.Tag]; !ok {
		n.order = append(n.order, note.Tag)
	}
	n.open[note.Tag] = note

	if _, err := fmt.Fprintln(n.w, n.render(note)); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to show notification"), "tag", note.Tag)
	}
	return nil
}

// Close dismisses the notification with the given tag. Closing an unknown
// tag does nothing.
func (n *Notifier) Close(_ context.Context, tag string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.open[tag]; !ok {
		return nil
	}
	delete(n.open, tag)
	n.order = slices.DeleteFunc(n.order, func(t string) bool { return t == tag })

	if _, err := fmt.Fprintln(n.w, n.dim.Render(style.Circle+" closed "+tag)); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close notification"), "tag", tag)
	}
	return nil
}

// Open returns the notifications that have not been closed, oldest first.
func (n *Notifier) Open() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]domain.Notification, 0, len(n.order))
	for _, tag := range n.order {
		out = append(out, n.open[tag])
	}
	return out
}

func (n *Notifier) render(note domain.Notification) string {
	lines := []string{
		n.head.Render(style.Bell + " " + note.Title),
		n.text.Render(note.Body),
	}

	if len(note.Actions) > 0 {
		buttons := make([]string, 0, len(note.Actions))
		for _, a := range note.Actions {
			buttons = append(buttons, "["+a.Title+"]")
		}
		lines = append(lines, "", n.text.Render(strings.Join(buttons, " ")))
	}

	var meta []string
	if note.Tag != "" {
		meta = append(meta, "tag "+note.Tag)
	}
	if note.Icon != "" {
		meta = append(meta, "icon "+note.Icon)
	}
	if !note.Data.DateOfArrival.IsZero() {
		meta = append(meta, note.Data.DateOfArrival.Format("15:04:05"))
	}
	if len(meta) > 0 {
		lines = append(lines, n.dim.Render(strings.Join(meta, " · ")))
	}

	return n.box.Render(strings.Join(lines, "\n"))
}
