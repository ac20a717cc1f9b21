package verify

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/statementworks/sbi-statement-parser/internal/models"
)

// StatementSummary is the issuer-printed reconciliation block parsed from
// the final page: opening balance, debit/credit counts, totals and closing
// balance. It exists only for one reconciliation pass. Fields beyond the
// two the locator heuristic guarantees are pointers: nil means the cell
// was present but unreadable.
type StatementSummary struct {
	Row          models.RawRow
	Opening      decimal.Decimal
	DebitCount   int
	CreditCount  *int
	TotalDebits  *decimal.Decimal
	TotalCredits *decimal.Decimal
	Closing      *decimal.Decimal
}

// findSummary locates the summary values row on the final page: the first
// row with at least six cells whose second cell parses as an integer (the
// debit count) and whose first parses as an amount (the opening balance).
// This is a best-effort heuristic; nil means no such row exists.
//
// Typical shape: ["66,300.56CR", "106", "31", "3,54,101.27", "4,41,297.27", "1,53,496.56CR"]
func findSummary(raw []models.RawRow, pageCount int) *StatementSummary {
	for _, row := range raw {
		if row.Page != pageCount || len(row.Cells) < 6 {
			continue
		}
		if strings.TrimSpace(row.Cell(0)) == "" {
			continue
		}
		debitCount, err := summaryInt(row.Cell(1))
		if err != nil {
			continue
		}
		opening, err := summaryAmount(row.Cell(0))
		if err != nil {
			continue
		}

		s := &StatementSummary{Row: row, Opening: opening, DebitCount: debitCount}
		if v, err := summaryInt(row.Cell(2)); err == nil {
			s.CreditCount = &v
		}
		if v, err := summaryAmount(row.Cell(3)); err == nil {
			s.TotalDebits = &v
		}
		if v, err := summaryAmount(row.Cell(4)); err == nil {
			s.TotalCredits = &v
		}
		if v, err := summaryAmount(row.Cell(5)); err == nil {
			s.Closing = &v
		}
		return s
	}
	return nil
}

func summaryInt(s string) (int, error) {
	return strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
}

// summaryAmount parses a summary cell, tolerating the "CR" suffix and
// Indian-style comma grouping the statement prints.
func summaryAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "CR", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	return decimal.NewFromString(strings.TrimSpace(cleaned))
}
