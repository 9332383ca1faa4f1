// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#303030", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"}

	// Borders
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#C0C0C0", Dark: "#696969"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#54A0FF"}

	// Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	StatusInfoColor    = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#54A0FF"}

	// XML highlighting (Catppuccin)
	TagBracketColor   = lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#6C7086"} // overlay0
	TagNameColor      = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"} // mauve
	TagUnmatchedColor = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"} // red
	TagPartnerColor   = lipgloss.AdaptiveColor{Light: "#179299", Dark: "#94E2D5"} // teal

	// Editor chrome
	LineNumberColor    = lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#4A4A4A"}
	CursorLineColor    = lipgloss.AdaptiveColor{Light: "#F2F2F2", Dark: "#262626"}
	SelectionBgColor   = lipgloss.AdaptiveColor{Light: "#CCE0FF", Dark: "#3A4A6B"}
	CaretColor         = lipgloss.AdaptiveColor{Light: "#303030", Dark: "#FFFFFF"}
	SidebarActiveColor = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}

	// Buttons
	ButtonTextColor           = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	ButtonPrimaryBgColor      = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#1A5276"}
	ButtonPrimaryFocusColor   = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#3498DB"}
	ButtonDangerBgColor       = lipgloss.AdaptiveColor{Light: "#922B21", Dark: "#922B21"}
	ButtonDangerFocusColor    = lipgloss.AdaptiveColor{Light: "#E74C3C", Dark: "#E74C3C"}
	ButtonSecondaryBgColor    = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#2D3436"}
	ButtonSecondaryFocusColor = lipgloss.AdaptiveColor{Light: "#636E72", Dark: "#636E72"}

	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SidebarActiveColor)

	TagBracketStyle   = lipgloss.NewStyle().Foreground(TagBracketColor)
	TagNameStyle      = lipgloss.NewStyle().Foreground(TagNameColor)
	TagUnmatchedStyle = lipgloss.NewStyle().Foreground(TagUnmatchedColor).Underline(true)
	TagPartnerStyle   = lipgloss.NewStyle().Foreground(TagPartnerColor).Bold(true)

	LineNumberStyle        = lipgloss.NewStyle().Foreground(LineNumberColor)
	CurrentLineNumberStyle = lipgloss.NewStyle().Foreground(CaretColor).Background(CursorLineColor)
	SelectionStyle         = lipgloss.NewStyle().Background(SelectionBgColor)
	CaretStyle             = lipgloss.NewStyle().Foreground(CaretColor).Reverse(true)

	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	TitleStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor).Bold(true)

	baseButtonStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(ButtonTextColor)

	PrimaryButtonStyle          = baseButtonStyle.Background(ButtonPrimaryBgColor)
	PrimaryButtonFocusedStyle   = baseButtonStyle.Background(ButtonPrimaryFocusColor).Underline(true)
	DangerButtonStyle           = baseButtonStyle.Background(ButtonDangerBgColor)
	DangerButtonFocusedStyle    = baseButtonStyle.Background(ButtonDangerFocusColor).Underline(true)
	SecondaryButtonStyle        = baseButtonStyle.Background(ButtonSecondaryBgColor)
	SecondaryButtonFocusedStyle = baseButtonStyle.Background(ButtonSecondaryFocusColor).Underline(true)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)
	StatusValidStyle   = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	StatusInvalidStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)
)

// ButtonStyle returns the style for a primary or danger button.
func ButtonStyle(danger, focused bool) lipgloss.Style {
	switch {
	case danger && focused:
		return DangerButtonFocusedStyle
	case danger:
		return DangerButtonStyle
	case focused:
		return PrimaryButtonFocusedStyle
	}
	return PrimaryButtonStyle
}
