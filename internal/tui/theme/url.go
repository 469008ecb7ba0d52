package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// URLColorCode is the ANSI 256 color used for links
const URLColorCode = "51"

// CreateURLSectionStyle creates a style for URL section headers
func CreateURLSectionStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightGreen)).
		Bold(true)
}

// CreateURLBoxStyle frames a link inside the file card
func CreateURLBoxStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00BFFF")).
		Background(lipgloss.Color("#333333")).
		Padding(0, 1)
}

// FormatClickableURL formats a URL as a clickable hyperlink with terminal-compatible colors
func FormatClickableURL(displayText, url string) string {
	// OSC 8 escape sequence for hyperlinks: \033]8;;url\033\\text\033]8;;\033\\
	hyperlink := fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, displayText)
	return fmt.Sprintf("\033[38;5;%sm\033[4m%s\033[0m", URLColorCode, hyperlink)
}

// WrapURL splits a long URL into chunks of at most width runes.
func WrapURL(url string, width int) []string {
	runes := []rune(url)
	if width <= 0 || len(runes) <= width {
		return []string{url}
	}
	var parts []string
	for i := 0; i < len(runes); i += width {
		end := min(i+width, len(runes))
		parts = append(parts, string(runes[i:end]))
	}
	return parts
}

// CreateHintStyle creates a style for URL hints and tips
func CreateHintStyle() lipgloss.Style {
	return CreateSecondaryTextStyle()
}
