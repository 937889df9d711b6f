package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gubarz/cheater/internal/config"
)

// StyleManager encapsulates all TUI styles. Each model holds its own and
// passes it to the render functions.
type StyleManager struct {
	// List view styles
	Header   lipgloss.Style
	Desc     lipgloss.Style
	Command  lipgloss.Style
	Tags     lipgloss.Style
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Dim      lipgloss.Style

	// Preview styles
	PreviewHeader lipgloss.Style
	PreviewDesc   lipgloss.Style
	PreviewCmd    lipgloss.Style

	// Argument popup styles
	Arg       lipgloss.Style // active argument in the preview
	ArgOther  lipgloss.Style // other arguments in the preview
	ArgName   lipgloss.Style
	TextCaret lipgloss.Style
	Error     lipgloss.Style

	// Chrome styles
	Border  lipgloss.Style
	Divider lipgloss.Style

	// Colors for direct access
	SelectedBg lipgloss.Color
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	return &StyleManager{
		Header:        lipgloss.NewStyle().Bold(true),
		Desc:          lipgloss.NewStyle(),
		Command:       lipgloss.NewStyle(),
		Tags:          lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Selected:      lipgloss.NewStyle().Background(lipgloss.Color("236")),
		Cursor:        lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Dim:           lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		PreviewHeader: lipgloss.NewStyle().Bold(true),
		PreviewDesc:   lipgloss.NewStyle(),
		PreviewCmd:    lipgloss.NewStyle(),
		Arg:           lipgloss.NewStyle().Bold(true).Underline(true),
		ArgOther:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		ArgName:       lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		TextCaret:     lipgloss.NewStyle().Reverse(true),
		Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Border:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		Divider:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		SelectedBg:    lipgloss.Color("236"),
	}
}

// NewStyles returns the default styles with configured colors applied
func NewStyles() *StyleManager {
	s := DefaultStyles()
	s.LoadFromConfig()
	return s
}

// LoadFromConfig updates styles based on configuration
func (s *StyleManager) LoadFromConfig() {
	headerColor := parseANSIColor(config.GetColorHeader())
	descColor := parseANSIColor(config.GetColorDesc())
	cmdColor := parseANSIColor(config.GetColorCommand())
	argColor := parseANSIColor(config.GetColorArg())

	s.Header = lipgloss.NewStyle().Foreground(headerColor)
	s.Desc = lipgloss.NewStyle().Foreground(descColor)
	s.Command = lipgloss.NewStyle().Foreground(cmdColor)

	// Preview styles (same colors, header is bold)
	s.PreviewHeader = lipgloss.NewStyle().Bold(true).Foreground(headerColor)
	s.PreviewDesc = lipgloss.NewStyle().Foreground(descColor)
	s.PreviewCmd = lipgloss.NewStyle().Foreground(cmdColor)

	s.Arg = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(argColor)
	s.ArgOther = lipgloss.NewStyle().Foreground(argColor)
}

// WithSelection returns a copy of the given style with the selected background applied
func (s *StyleManager) WithSelection(style lipgloss.Style) lipgloss.Style {
	return style.Background(s.SelectedBg)
}

// parseANSIColor converts ANSI color codes to lipgloss colors
func parseANSIColor(code string) lipgloss.Color {
	ansiToLipgloss := map[string]string{
		"30": "0", "31": "1", "32": "2", "33": "3",
		"34": "4", "35": "5", "36": "6", "37": "7",
		"90": "8", "91": "9", "92": "10", "93": "11",
		"94": "12", "95": "13", "96": "14", "97": "15",
	}
	if mapped, ok := ansiToLipgloss[code]; ok {
		return lipgloss.Color(mapped)
	}
	return lipgloss.Color(code)
}
