// Package ui holds the small set of styled markers the CLI prints.
// Styles degrade to plain text automatically when stdout is not a
// terminal.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
)

// RenderPass styles s as a success marker.
func RenderPass(s string) string { return passStyle.Render(s) }

// RenderWarn styles s as a warning marker.
func RenderWarn(s string) string { return warnStyle.Render(s) }

// RenderFail styles s as a failure marker.
func RenderFail(s string) string { return failStyle.Render(s) }

// RenderAccent styles s as emphasized text.
func RenderAccent(s string) string { return accentStyle.Render(s) }
