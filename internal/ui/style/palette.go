package style

import "github.com/charmbracelet/lipgloss"

var (
	Cyan    = lipgloss.Color("#00E5FF") // Primary highlight
	Magenta = lipgloss.Color("#FF1B6B") // Accent
	Yellow  = lipgloss.Color("#FFB500") // Warnings
	Green   = lipgloss.Color("#2AFFAA") // Buy / success
	Red     = lipgloss.Color("#FF5555") // Sell / errors
	Blue    = lipgloss.Color("#3B82F6") // Info

	Base03 = lipgloss.Color("#1B1D23") // Background
	Base01 = lipgloss.Color("#6C7280") // Muted text
	Base2  = lipgloss.Color("#ECEFF4") // Primary text
	Base1  = lipgloss.Color("#B4BCC8") // Secondary text
)

// Palette provides a centralized color management
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	Info      lipgloss.Color

	Background    lipgloss.Color
	Text          lipgloss.Color
	TextMuted     lipgloss.Color
	TextSecondary lipgloss.Color

	Buy  lipgloss.Color
	Sell lipgloss.Color
}

// DefaultPalette returns the default color palette
func DefaultPalette() Palette {
	return Palette{
		Primary:   Cyan,
		Secondary: Magenta,
		Success:   Green,
		Error:     Red,
		Warning:   Yellow,
		Info:      Blue,

		Background:    Base03,
		Text:          Base2,
		TextMuted:     Base01,
		TextSecondary: Base1,

		Buy:  Green,
		Sell: Red,
	}
}

// Styles used by the quote explorer
type Styles struct {
	Title    lipgloss.Style
	Panel    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Buy      lipgloss.Style
	Sell     lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
	LogWarn  lipgloss.Style
	LogError lipgloss.Style
	LogInfo  lipgloss.Style
	LogDebug lipgloss.Style
}

// NewStyles creates explorer styles with the given palette
func NewStyles(palette Palette) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			MarginBottom(1),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Secondary).
			Padding(0, 2).
			MarginRight(1),

		Label: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Width(16),

		Value: lipgloss.NewStyle().
			Foreground(palette.Text).
			Bold(true),

		Buy: lipgloss.NewStyle().
			Foreground(palette.Buy).
			Bold(true),

		Sell: lipgloss.NewStyle().
			Foreground(palette.Sell).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(palette.Error),

		Muted: lipgloss.NewStyle().
			Foreground(palette.TextMuted),

		LogWarn:  lipgloss.NewStyle().Foreground(palette.Warning),
		LogError: lipgloss.NewStyle().Foreground(palette.Error).Bold(true),
		LogInfo:  lipgloss.NewStyle().Foreground(palette.Info),
		LogDebug: lipgloss.NewStyle().Foreground(palette.TextMuted),
	}
}
