package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/statementworks/sbi-statement-parser/internal/models"
)

func candidateCells() []string {
	return []string{
		"15/01/2024", "15/01/2024", "UPI/DR/1234567890/PAYMENT", "-",
		"100.00", "", "1,900.00",
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		cells    []string
		expected models.RowKind
	}{
		{"no cells", nil, models.RowEmpty},
		{"all blank", []string{"", "  ", "", "", "", "", ""}, models.RowEmpty},
		{"statement summary", []string{"Statement Summary ::", "", "", "", "", ""}, models.RowSummary},
		{"brought forward", []string{"Brought Forward", "Dr Count", "Cr Count", "Debits", "Credits", "Balance"}, models.RowSummary},
		{"candidate", candidateCells(), models.RowCandidate},
		{"header row", []string{"Txn Date", "Value Date", "Description", "Ref No./Cheque No.", "Debit", "Credit", "Balance"}, models.RowNoise},
		{"too few columns", []string{"15/01/2024", "15/01/2024", "PAYMENT", "-", "100.00", "1,900.00"}, models.RowNoise},
		{"date without any amount", []string{"15/01/2024", "15/01/2024", "PAYMENT", "-", "-", "-", "n/a"}, models.RowNoise},
		{"free text", []string{"This is a computer generated statement"}, models.RowNoise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := models.RawRow{Cells: tt.cells}
			assert.Equal(t, tt.expected, Classify(row))
		})
	}
}

func TestClassifyCandidateWithOnlyBalance(t *testing.T) {
	// A balance-only row (e.g. interest posting rendered oddly) still
	// qualifies: only rows where all three amount cells fail are demoted.
	cells := candidateCells()
	cells[models.ColDebit] = "-"
	cells[models.ColCredit] = ""

	assert.Equal(t, models.RowCandidate, Classify(models.RawRow{Cells: cells}))
}
