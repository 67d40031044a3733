package utils

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// MessageType is a placeholder for the various message kinds printed by the CLI.
type MessageType int

// The message types used across the CLI application.
const (
	DefaultMessage MessageType = iota
	SuccessMessage
	ErrorMessage
	StatusMessage
)

var styles = map[MessageType]lipgloss.Style{
	DefaultMessage: lipgloss.NewStyle(),
	SuccessMessage: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	ErrorMessage:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	StatusMessage:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
}

// DecorateText renders the message in the color of its type.
// Colors are dropped when the output is not a terminal.
func DecorateText(s string, msgType MessageType) string {
	style, ok := styles[msgType]
	if !ok {
		return s
	}
	return style.Render(s)
}

// FormatTime formats a duration to a human readable value.
func FormatTime(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm %.2fs", int(d.Minutes()), (d % time.Minute).Seconds())
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh %dm %.2fs",
			int(d.Hours()), int((d%time.Hour)/time.Minute), (d % time.Minute).Seconds())
	}
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	return fmt.Sprintf("%dd %dh %dm %.2fs",
		int(days), int(d/time.Hour), int((d%time.Hour)/time.Minute), (d % time.Minute).Seconds())
}
