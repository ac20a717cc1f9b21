package parser

import (
	"strings"

	"github.com/statementworks/sbi-statement-parser/internal/models"
)

// Normalize converts an accepted candidate row into a transaction record.
// seq is the 0-based emission ordinal. Field-level parse failures degrade
// to empty fields; Normalize never rejects a row.
func Normalize(row models.RawRow, seq int) models.Transaction {
	rawDesc := row.Cell(models.ColDescription)
	debit := ParseAmount(row.Cell(models.ColDebit))
	credit := ParseAmount(row.Cell(models.ColCredit))

	txnType := ""
	switch {
	case debit != "":
		txnType = "debit"
	case credit != "":
		txnType = "credit"
	}

	return models.Transaction{
		ValueDate:     strings.TrimSpace(row.Cell(models.ColValueDate)),
		PostDate:      strings.TrimSpace(row.Cell(models.ColTxnDate)),
		Details:       CleanDescription(rawDesc),
		RefNo:         ExtractRefNo(rawDesc),
		Debit:         debit,
		Credit:        credit,
		Balance:       ParseAmount(row.Cell(models.ColBalance)),
		TxnType:       txnType,
		AccountSource: models.AccountSource,
		ParseSeq:      seq,
	}
}
