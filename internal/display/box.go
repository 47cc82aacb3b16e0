package display

import (
	"fmt"
	"strings"
)

// Section is one bordered block of a box.
type Section struct {
	Header string
	Lines  []Line
}

type Line struct {
	Value  string
	Center bool
}

// Box draws sections inside an ASCII frame width runes wide. Lines longer
// than the frame are truncated.
func Box(sections []Section, width int) string {
	var lines []string
	lines = append(lines, boxBorder(width))
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, boxBorder(width))
		}
		if section.Header != "" {
			lines = append(lines, boxLineCenter(section.Header, width))
		}
		for _, line := range section.Lines {
			if line.Center {
				lines = append(lines, boxLineCenter(line.Value, width))
			} else {
				lines = append(lines, boxLine(line.Value, width))
			}
		}
	}
	lines = append(lines, boxBorder(width))
	return strings.Join(lines, "\n")
}

func boxBorder(width int) string {
	return "+" + strings.Repeat("-", width-2) + "+"
}

func boxLine(text string, width int) string {
	text, n := fit(text, width-4)
	return fmt.Sprintf("| %s%s |", text, strings.Repeat(" ", width-4-n))
}

func boxLineCenter(text string, width int) string {
	inner := width - 4
	text, n := fit(text, inner)
	pad := (inner - n) / 2
	return fmt.Sprintf("| %s%s%s |", strings.Repeat(" ", pad), text, strings.Repeat(" ", inner-pad-n))
}

// fit truncates text to at most n runes and reports its rune length.
func fit(text string, n int) (string, int) {
	r := []rune(text)
	if len(r) > n {
		r = r[:n]
	}
	return string(r), len(r)
}
