// Package parser turns an SBI statement PDF into an ordered sequence of
// normalized transaction records: extraction, row classification and field
// normalization.
package parser

import (
	"github.com/statementworks/sbi-statement-parser/internal/extractor"
	"github.com/statementworks/sbi-statement-parser/internal/models"
)

// Result is the outcome of parsing one statement document.
type Result struct {
	Transactions  []models.Transaction
	StatementFrom string // DD-MM-YYYY, "" when absent
	StatementTo   string
	PageCount     int
}

// Parse converts a password-protected SBI statement into ordered
// transaction records. It is referentially pure given its inputs: equal
// bytes and password always yield equal output. Failures are
// extractor.ErrAuthentication, extractor.ErrEmptyDocument,
// extractor.ErrFormatMismatch, or an opaque internal error.
func Parse(data []byte, password string) (*Result, error) {
	return ParseWithBatchSize(data, password, extractor.DefaultBatchSize)
}

// ParseWithBatchSize is Parse with an explicit page batch size. The batch
// size only bounds peak memory; records and their order do not depend on it.
func ParseWithBatchSize(data []byte, password string, batchSize int) (*Result, error) {
	doc, err := extractor.Open(data, password)
	if err != nil {
		return nil, err
	}
	doc.BatchSize = batchSize

	res := &Result{
		Transactions:  []models.Transaction{},
		StatementFrom: doc.StatementFrom,
		StatementTo:   doc.StatementTo,
		PageCount:     doc.PageCount,
	}
	err = doc.EachBatch(func(rows []models.RawRow) error {
		for _, row := range rows {
			if Classify(row) != models.RowCandidate {
				continue
			}
			res.Transactions = append(res.Transactions, Normalize(row, len(res.Transactions)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
