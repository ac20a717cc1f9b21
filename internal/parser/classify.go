package parser

import (
	"strings"

	"github.com/statementworks/sbi-statement-parser/internal/models"
)

// Classify tags a raw row. Precedence: blank rows are Empty, summary-block
// rows are Summary (routed to summary extraction, never emitted), date-led
// rows with a full column set are Candidates, everything else (headers,
// continuation artifacts) is Noise.
//
// A date-led row whose debit, credit and balance cells all fail amount
// parsing is demoted to Noise: date-like text outside the transaction
// table must not produce a record.
func Classify(row models.RawRow) models.RowKind {
	if len(row.Cells) == 0 || row.IsBlank() {
		return models.RowEmpty
	}

	first := row.Cell(0)
	if strings.Contains(first, "Statement Summary") || strings.Contains(first, "Brought Forward") {
		return models.RowSummary
	}

	if len(row.Cells) >= models.MinCols && models.IsDate(row.Cell(models.ColTxnDate)) {
		if ParseAmount(row.Cell(models.ColDebit)) == "" &&
			ParseAmount(row.Cell(models.ColCredit)) == "" &&
			ParseAmount(row.Cell(models.ColBalance)) == "" {
			return models.RowNoise
		}
		return models.RowCandidate
	}

	return models.RowNoise
}
