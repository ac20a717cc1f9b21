package extractor

import (
	"fmt"

	"github.com/statementworks/sbi-statement-parser/internal/models"
)

// EachBatch decodes the document in fixed-size page batches and hands each
// batch's raw rows to fn in page order. All batch-local decoded state goes
// out of scope before the next batch starts; only the column anchors (a
// handful of floats) carry across, so peak memory stays proportional to
// the batch size while output is identical for any batch size >= 1.
func (d *Document) EachBatch(fn func(rows []models.RawRow) error) error {
	batch := d.BatchSize
	if batch < 1 {
		batch = DefaultBatchSize
	}

	var anchors []float64
	for first := 1; first <= d.PageCount; first += batch {
		last := first + batch - 1
		if last > d.PageCount {
			last = d.PageCount
		}

		rows, next, err := d.batchRows(first, last, anchors)
		if err != nil {
			return err
		}
		anchors = next
		if err := fn(rows); err != nil {
			return err
		}
	}
	return nil
}

// Rows collects every reconstructed table row of the document.
func (d *Document) Rows() ([]models.RawRow, error) {
	var all []models.RawRow
	err := d.EachBatch(func(rows []models.RawRow) error {
		all = append(all, rows...)
		return nil
	})
	return all, err
}

func (d *Document) batchRows(first, last int, anchors []float64) (rows []models.RawRow, _ []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("pdf library crashed on pages %d-%d: %v", first, last, r)
		}
	}()

	for pageNum := first; pageNum <= last; pageNum++ {
		page := d.reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		extracted, next := pageRows(page.Content().Text, pageNum, anchors)
		anchors = next
		rows = append(rows, extracted...)
	}
	return rows, anchors, nil
}
