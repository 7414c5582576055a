package main

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	// Color palette
	primaryColor = lipgloss.Color("#7D56F4")
	successColor = lipgloss.Color("#04B575")
	warningColor = lipgloss.Color("#FFA500")
	mutedColor   = lipgloss.Color("#666666")
	borderColor  = lipgloss.Color("#383838")
)

// styles is the set of styles bound to one output.
type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	number lipgloss.Style
	border lipgloss.Style
	muted  lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
}

func newStyles(w io.Writer, plain bool) styles {
	r := lipgloss.NewRenderer(w)
	if plain {
		r.SetColorProfile(termenv.Ascii)
	}
	return styles{
		title: r.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1),
		header: r.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1),
		cell:   r.NewStyle().Padding(0, 1),
		number: r.NewStyle().Padding(0, 1).Align(lipgloss.Right),
		border: r.NewStyle().Foreground(borderColor),
		muted:  r.NewStyle().Foreground(mutedColor),
		ok:     r.NewStyle().Foreground(successColor).Bold(true),
		warn:   r.NewStyle().Foreground(warningColor).Bold(true),
	}
}
