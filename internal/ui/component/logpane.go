package component

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap/zapcore"

	"github.com/rovshanmuradov/pump-sdk/internal/logger"
	"github.com/rovshanmuradov/pump-sdk/internal/ui/style"
)

// LogPane renders the tail of a logger.Ring
type LogPane struct {
	ring     *logger.Ring
	viewport viewport.Model
	styles   style.Styles
	minLevel zapcore.Level
	limit    int
	visible  bool
}

// NewLogPane creates a pane showing up to limit recent entries at or above minLevel
func NewLogPane(ring *logger.Ring, styles style.Styles, minLevel zapcore.Level, limit int) *LogPane {
	return &LogPane{
		ring:     ring,
		viewport: viewport.New(60, 6),
		styles:   styles,
		minLevel: minLevel,
		limit:    limit,
		visible:  true,
	}
}

// SetSize sets the component dimensions
func (p *LogPane) SetSize(width, height int) {
	if height < 2 {
		height = 2
	}
	p.viewport.Width = width
	p.viewport.Height = height
}

// Toggle flips visibility
func (p *LogPane) Toggle() {
	p.visible = !p.visible
}

// Visible reports whether the pane is shown
func (p *LogPane) Visible() bool {
	return p.visible
}

// View renders the pane
func (p *LogPane) View() string {
	if !p.visible {
		return ""
	}
	p.refresh()
	title := p.styles.Muted.Render(fmt.Sprintf("Logs (%d)", p.total()))
	return lipgloss.JoinVertical(lipgloss.Left, title, p.viewport.View())
}

func (p *LogPane) total() uint64 {
	if p.ring == nil {
		return 0
	}
	return p.ring.Total()
}

func (p *LogPane) refresh() {
	if p.ring == nil {
		p.viewport.SetContent("No log buffer available")
		return
	}

	var lines []string
	for _, entry := range p.ring.Recent(p.limit) {
		if entry.Level < p.minLevel {
			continue
		}
		lines = append(lines, p.format(entry))
	}
	if len(lines) == 0 {
		p.viewport.SetContent(p.styles.Muted.Render("No logs yet"))
		return
	}
	p.viewport.SetContent(strings.Join(lines, "\n"))
	p.viewport.GotoBottom()
}

func (p *LogPane) format(entry logger.Entry) string {
	ts := p.styles.Muted.Render(entry.Timestamp.Format("15:04:05"))

	var msg string
	switch {
	case entry.Level >= zapcore.ErrorLevel:
		msg = p.styles.LogError.Render(entry.Message)
	case entry.Level == zapcore.WarnLevel:
		msg = p.styles.LogWarn.Render(entry.Message)
	case entry.Level == zapcore.InfoLevel:
		msg = p.styles.LogInfo.Render(entry.Message)
	default:
		msg = p.styles.LogDebug.Render(entry.Message)
	}
	return fmt.Sprintf("%s %s", ts, msg)
}
