package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// Display values.
const (
	MissingValue = "<none>"
	NAValue      = "n/a"
	UnknownValue = "<unknown>"
	Blank        = ""
)

// ToAge converts time to a human readable age.
func ToAge(t time.Time) string {
	if t.IsZero() {
		return UnknownValue
	}
	return HumanDuration(time.Since(t))
}

// HumanDuration converts a duration to a short form (e.g. "5d", "3h", "2m").
func HumanDuration(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}

	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 365:
		return fmt.Sprintf("%dy", days/365)
	case days > 0:
		return fmt.Sprintf("%dd", days)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%ds", seconds)
}

// Missing returns MissingValue if s is empty.
func Missing(s string) string {
	if s == "" {
		return MissingValue
	}
	return s
}

// NA returns NAValue if s is empty.
func NA(s string) string {
	if s == "" {
		return NAValue
	}
	return s
}

// Truncate shortens s to at most width terminal cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// Pad right pads s to width terminal cells, truncating if needed.
func Pad(s string, width int) string {
	s = Truncate(s, width)
	return runewidth.FillRight(s, width)
}

// JoinStrings joins strings with sep, skipping empty ones.
func JoinStrings(sep string, ss ...string) string {
	parts := make([]string, 0, len(ss))
	for _, s := range ss {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}
