package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/offline/internal/ui/style"
)

var (
	// Bucket Styles.
	currentBucketStyle = lipgloss.NewStyle().
				Foreground(style.Green).
				Bold(true)

	staleBucketStyle = lipgloss.NewStyle().
				Foreground(style.Slate)

	entryStyle = lipgloss.NewStyle().
			Foreground(style.Slate).
			Faint(true)

	// Selection Style.
	selectedStyle = lipgloss.NewStyle().
			Foreground(style.White).
			Bold(true)

	// Header Styles.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Iris).
			Foreground(style.White)

	helpStyle = lipgloss.NewStyle().
			Foreground(style.Slate)
)
