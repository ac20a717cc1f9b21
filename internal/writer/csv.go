package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/statementworks/sbi-statement-parser/internal/dedup"
	"github.com/statementworks/sbi-statement-parser/internal/parser"
)

// CSVWriter writes parsed transactions to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes transactions to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, res *parser.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, res)
}

// Write writes transactions in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, res *parser.Result) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	// Statement metadata as comment rows
	if w.IncludeHeader {
		if res.StatementFrom != "" {
			writer.Write([]string{"# Statement From", res.StatementFrom})
		}
		if res.StatementTo != "" {
			writer.Write([]string{"# Statement To", res.StatementTo})
		}
		writer.Write([]string{"# Pages", fmt.Sprintf("%d", res.PageCount)})
	}

	header := []string{
		"Txn ID", "Post Date", "Value Date", "Details", "Ref No",
		"Debit", "Credit", "Balance", "Type", "Hash",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range res.Transactions {
		key := dedup.Key(txn)
		row := []string{
			dedup.ShortID(key),
			txn.PostDate,
			txn.ValueDate,
			txn.Details,
			txn.RefNo,
			txn.Debit,
			txn.Credit,
			txn.Balance,
			txn.TxnType,
			key,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return writer.Error()
}
