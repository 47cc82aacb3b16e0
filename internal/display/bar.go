package display

import (
	"fmt"
	"math"
	"strings"
)

const (
	FullBarLength  = 20
	ShortBarLength = 5
)

// Bar renders value out of limit as a full-length gauge followed by the
// numbers, e.g. "[||||||||||          ] 50/100".
func Bar(value, limit float64) string {
	return fmt.Sprintf("[%s] %.0f/%.0f", gauge(value, limit, FullBarLength), value, limit)
}

// ShortBar renders a compact gauge without numbers, for inline progress.
func ShortBar(value, limit float64) string {
	return "[" + gauge(value, limit, ShortBarLength) + "]"
}

func gauge(value, limit float64, length int) string {
	filled := 0
	if limit > 0 {
		filled = int(math.Round(float64(length) * value / limit))
	}
	filled = min(max(filled, 0), length)
	return strings.Repeat("|", filled) + strings.Repeat(" ", length-filled)
}
