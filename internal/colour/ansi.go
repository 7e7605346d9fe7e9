package colour

import (
	"fmt"
	"strings"
)

// ANSI escape codes for terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiFgPrefix = "\033[38;2;"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 8
)

func ansiBackground(c uint32) string {
	return fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, Red(c), Green(c), Blue(c), ansiSuffix)
}

func ansiForeground(c uint32) string {
	return fmt.Sprintf("%s%d;%d;%d%s", ansiFgPrefix, Red(c), Green(c), Blue(c), ansiSuffix)
}

// Preview returns an ANSI-coloured block for a colour.
// Width specifies how many characters wide the colour block should be.
func Preview(c uint32, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	return ansiBackground(c) + strings.Repeat(" ", width) + ansiReset
}

// PreviewWithText renders text in fg over a bg block. A translucent fg is
// composited over bg first, since terminals have no alpha.
func PreviewWithText(bg, fg uint32, text string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	bg = Opaque(bg)
	fg = Composite(fg, bg)

	// Pad or truncate text to fit width.
	displayText := text
	if len(text) > width {
		displayText = text[:width]
	} else if len(text) < width {
		padding := (width - len(text)) / 2
		displayText = strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-len(text)-padding)
	}

	return ansiBackground(bg) + ansiForeground(fg) + displayText + ansiReset
}
