package theme

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// CreateHeaderStyle creates a consistent header style
func CreateHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorBrightGreen)).
		MarginLeft(1)
}

// CreateLabelStyle styles the label part of a "Label: value" line
func CreateLabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorBrightCyan))
}

// CreateInfoTextStyle creates a consistent info text style
func CreateInfoTextStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWhite))
}

// CreateSecondaryTextStyle creates a consistent secondary text style
func CreateSecondaryTextStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightBlack)).
		Italic(true)
}

// CreateFooterStyle creates a consistent footer style
func CreateFooterStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightBlack)).
		MarginTop(1).
		MarginLeft(1) // Align with panel border
}

// CreateLoadingStyle creates a consistent loading state style
func CreateLoadingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBrightYellow))
}

// CreateErrorStyle creates a consistent error style
func CreateErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightRed)).
		Bold(true)
}

// CreateEmptyStyle renders the placeholder of an empty listing
func CreateEmptyStyle(width, height int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightBlack)).
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center)
}

// CreateCardStyle creates the bordered card used by the file view
func CreateCardStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBrightBlue)).
		Padding(1, 2).
		Foreground(lipgloss.Color(ColorWhite))
}

// CreateDialogStyle creates a consistent dialog style
func CreateDialogStyle(width int, borderColor string) lipgloss.Style {
	if borderColor == "" {
		borderColor = ColorBrightBlue
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Padding(1, 2).
		Width(width).
		Foreground(lipgloss.Color(ColorWhite))
}

// CreatePromptStyle creates a style for prompt text in dialogs
func CreatePromptStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightYellow)).
		Bold(true)
}

// CreateSelectedItemStyle styles the highlighted row of a plain list
func CreateSelectedItemStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWhite)).
		Background(lipgloss.Color(ColorSelection)).
		Bold(true).
		Padding(0, 1)
}

// CreateItemStyle styles a plain list row
func CreateItemStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWhite)).
		Padding(0, 1)
}

// TableStyles returns the styles of the listing table
func TableStyles() table.Styles {
	return table.Styles{
		Header: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(ColorBrightCyan)).
			BorderBottom(true).
			Bold(true).
			Foreground(lipgloss.Color(ColorBrightCyan)).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWhite)).
			Background(lipgloss.Color(ColorSelection)).
			Bold(true),
		Cell: lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWhite)).
			Padding(0, 1),
	}
}
