package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// wrapText wraps text to fit within a given width. Words longer than
// the width are hyphen-split.
func wrapText(text string, width int) string {
	if width <= 1 {
		return text
	}

	var result strings.Builder
	lineLength := 0

	for _, word := range strings.Fields(text) {
		runes := []rune(word)

		// Break very long words across lines
		for lipgloss.Width(string(runes)) > width {
			if lineLength > 0 {
				result.WriteString("\n")
				lineLength = 0
			}
			result.WriteString(string(runes[:width-1]) + "-\n")
			runes = runes[width-1:]
		}
		word = string(runes)
		w := lipgloss.Width(word)
		if w == 0 {
			continue
		}

		switch {
		case lineLength == 0:
		case lineLength+1+w > width:
			result.WriteString("\n")
			lineLength = 0
		default:
			result.WriteString(" ")
			lineLength++
		}

		result.WriteString(word)
		lineLength += w
	}

	return result.String()
}
