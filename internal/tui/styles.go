package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	// Status colors
	Completed = lipgloss.Color("#95E1A3") // Green
	Warning   = lipgloss.Color("#FFE66D") // Yellow
	Danger    = lipgloss.Color("#FF6B6B") // Red
	Neutral   = lipgloss.Color("#6C757D") // Gray
	Info      = lipgloss.Color("#74B9FF") // Blue

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Secondary = lipgloss.Color("#6C757D")
	Surface   = lipgloss.Color("#16213e")
	Text      = lipgloss.Color("#FFFFFF")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	Highlight = lipgloss.Color("#4ECDC4")
	Trophy    = lipgloss.Color("#FFB347")
)

// avatarColors maps the color names used in team data to terminal colors.
var avatarColors = map[string]lipgloss.Color{
	"cyan":   lipgloss.Color("#4ECDC4"),
	"green":  lipgloss.Color("#95E1A3"),
	"purple": lipgloss.Color("#B39DDB"),
	"orange": lipgloss.Color("#FFB347"),
	"pink":   lipgloss.Color("#F48FB1"),
	"blue":   lipgloss.Color("#74B9FF"),
	"red":    lipgloss.Color("#FF6B6B"),
	"yellow": lipgloss.Color("#FFE66D"),
}

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	// Tab bar
	TabStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(Surface).
			Bold(true).
			Padding(0, 1)

	// Page body
	PageStyle = lipgloss.NewStyle().
			Padding(1, 2)

	// Cards
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)

	CardSelectedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Highlight).
				Padding(0, 1)

	// Rows
	RowStyle = lipgloss.NewStyle().
			Padding(0, 1)

	RowSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	TaskDoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Input modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Banners
	BannerSuccessStyle = lipgloss.NewStyle().
				Foreground(Completed).
				Border(lipgloss.NormalBorder()).
				BorderForeground(Completed).
				Padding(0, 1)

	BannerErrorStyle = lipgloss.NewStyle().
				Foreground(Danger).
				Border(lipgloss.NormalBorder()).
				BorderForeground(Danger).
				Padding(0, 1)

	ErrorTextStyle   = lipgloss.NewStyle().Foreground(Danger)
	SuccessTextStyle = lipgloss.NewStyle().Foreground(Completed)
	WarningTextStyle = lipgloss.NewStyle().Foreground(Warning).Bold(true)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// avatarStyle colors a member's initial.
func avatarStyle(color string) lipgloss.Style {
	c, ok := avatarColors[color]
	if !ok {
		c = Primary
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#000000")).Background(c).Padding(0, 1)
}
