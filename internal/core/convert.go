package core

// convert.go turns raw file text into lines, cells and typed values.
//
// The file format is deliberately plain: one record per line, cells split on
// every comma, no quoting. A comma inside a value therefore shifts the
// remaining cells of that line.

import (
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// emailRegex accepts anything shaped like local@domain.tld without whitespace.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// currencySymbols are stripped before numeric parsing.
var currencySymbols = []string{"₪", "$", "€", "£"}

// SplitLines splits text on \n or \r\n, trims each line and drops blank ones.
func SplitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// SplitCells splits one line on commas and trims every cell.
func SplitCells(line string) []string {
	cells := strings.Split(line, ",")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

// NormalizeHeader prepares a header cell for matching. Surrounding
// whitespace and a leading byte order mark are dropped; case and quotes are
// kept, so column names match exactly.
func NormalizeHeader(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "\ufeff"))
}

// ParseNumber parses a numeric cell. Currency symbols and the accounting
// negative form "(123.45)" are accepted.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.TrimSpace(s)

	if !numericRegex.MatchString(s) {
		return 0, false
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		n = -n
	}
	return n, true
}

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// JoinRow renders cells as one line of the import format.
func JoinRow(cells []string) string {
	return strings.Join(cells, ",")
}

// FormatNumber renders n so that ParseNumber reads it back unchanged.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
