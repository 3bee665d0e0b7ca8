package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/inspiraview/internal/ipc"
)

var (
	statusKeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	statusWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	statusValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	statusBoxStyle   = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(0, 1)
)

// renderStatus formats daemon status as aligned key/value lines. styled adds
// colors and a border for interactive terminals.
func renderStatus(status *ipc.StatusData, styled bool) string {
	type row struct {
		key   string
		value string
		style lipgloss.Style
	}
	backendStyle := statusValueStyle
	if strings.HasPrefix(status.Backend, "unsupported") {
		backendStyle = statusWarnStyle
	}
	rows := []row{
		{"daemon_running", fmt.Sprintf("%v", status.DaemonRunning), statusOKStyle},
		{"backend", status.Backend, backendStyle},
		{"image_info", status.ImageInfoMode, statusValueStyle},
	}
	if status.WebSocketAddr != "" {
		rows = append(rows, row{"websocket", "ws://" + status.WebSocketAddr + ipc.WebSocketPath, statusValueStyle})
	}
	rows = append(rows, row{"uptime_seconds", fmt.Sprintf("%d", status.UptimeSeconds), statusValueStyle})

	var lines []string
	for _, r := range rows {
		key := fmt.Sprintf("%-16s", r.key+":")
		if styled {
			lines = append(lines, statusKeyStyle.Render(key)+r.style.Render(r.value))
		} else {
			lines = append(lines, key+r.value)
		}
	}
	out := strings.Join(lines, "\n")
	if styled {
		return statusBoxStyle.Render(out)
	}
	return out
}
