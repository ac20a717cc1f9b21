package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1,234.56", "1234.56"},
		{"25.99", "25.99"},
		{"3,54,101.27", "354101.27"}, // Indian comma grouping
		{"-", ""},
		{"", ""},
		{"  ", ""},
		{"abc", ""},
		{" 1,234.56 ", "1234.56"},
		{"0.00", "0.00"},
		{"1,234.56CR", ""}, // suffixed amounts only appear in the summary block
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseAmount(tt.input))
		})
	}
}

func TestCleanDescription(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"single line", "UPI/DR/123/PAYMENT", "UPI/DR/123/PAYMENT"},
		{"embedded newlines", "TRANSFER TO\nJOHN DOE", "TRANSFER TO | JOHN DOE"},
		{"whitespace runs", "NEFT   TRANSFER\t\tIN", "NEFT TRANSFER IN"},
		{"leading and trailing", "  PAYMENT  ", "PAYMENT"},
		{"newline plus runs", "A \n B", "A | B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanDescription(tt.input))
		})
	}
}

func TestExtractRefNo(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"leading 13 digits", "1234567890123 NEFT TRANSFER", "1234567890123"},
		{"leading 10 digits", "1234567890 IMPS", "1234567890"},
		{"no leading numeric line", "NEFT TRANSFER 1234567890123", ""},
		{"second line wins", "TRANSFER TO JOHN\n1234567890 UPI", "1234567890"},
		{"first match wins", "1111111111 A\n2222222222 B", "1111111111"},
		{"nine digits too short", "123456789 REF", ""},
		{"fourteen digits too long", "12345678901234 REF", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractRefNo(tt.input))
		})
	}
}
