package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	refNoPattern  = regexp.MustCompile(`^\d{10,13}\b`)
)

// ParseAmount normalizes an amount cell to a plain decimal string.
// "-" and blank cells mean "no amount"; thousands separators are removed;
// anything that still fails to parse as a number degrades to "" rather
// than erroring, so a stray cell never aborts the row.
func ParseAmount(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return ""
	}
	cleaned := strings.ReplaceAll(s, ",", "")
	if _, err := decimal.NewFromString(cleaned); err != nil {
		return ""
	}
	return cleaned
}

// CleanDescription flattens a multi-line description cell: embedded line
// breaks become " | ", whitespace runs collapse to one space. All text
// content is preserved, only layout is normalized.
func CleanDescription(s string) string {
	if s == "" {
		return ""
	}
	flat := strings.ReplaceAll(s, "\n", " | ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(flat, " "))
}

// ExtractRefNo scans the raw (uncleaned) description top to bottom and
// returns the 10-13 digit reference leading the first line that has one.
// Only the first match wins; no match yields "".
func ExtractRefNo(desc string) string {
	for _, line := range strings.Split(desc, "\n") {
		if m := refNoPattern.FindString(strings.TrimSpace(line)); m != "" {
			return m
		}
	}
	return ""
}
