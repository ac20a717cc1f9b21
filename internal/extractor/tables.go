package extractor

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/statementworks/sbi-statement-parser/internal/models"
)

// Layout thresholds, in PDF points. The statement family uses a fixed
// template, so these do not need to adapt per document.
const (
	// wordGap is the horizontal gap beyond which adjacent spans get a
	// space between them. Spans often arrive per glyph run, so anything
	// tighter than this is the same word.
	wordGap = 1.2
	// cellGap separates two columns when clustering a fully-populated line
	// (a table header) into cells.
	cellGap = 10.0
	// anchorSlack tolerates small X jitter when matching a span to a
	// column anchor.
	anchorSlack = 2.5
)

// span is one positioned text item from the PDF content stream.
type span struct {
	x, w float64
	s    string
}

// textLine is a visual row of spans sharing a Y coordinate, sorted by X.
type textLine struct {
	y     int
	spans []span
}

// linesFromTexts groups positioned text into visual lines: spans with the
// same rounded Y form a line, lines run top to bottom (PDF Y origin is the
// bottom-left corner), spans within a line run left to right.
func linesFromTexts(texts []pdf.Text) []textLine {
	rows := make(map[int][]span)
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		y := int(math.Round(t.Y))
		rows[y] = append(rows[y], span{x: t.X, w: t.W, s: t.S})
	}

	ys := make([]int, 0, len(rows))
	for y := range rows {
		ys = append(ys, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ys)))

	lines := make([]textLine, 0, len(ys))
	for _, y := range ys {
		spans := rows[y]
		sort.Slice(spans, func(a, b int) bool { return spans[a].x < spans[b].x })
		lines = append(lines, textLine{y: y, spans: spans})
	}
	return lines
}

// joinSpans concatenates spans left to right, inserting a single space at
// word boundaries.
func joinSpans(spans []span) string {
	var b strings.Builder
	var prevEnd float64
	for i, sp := range spans {
		if i > 0 && sp.x-prevEnd > wordGap {
			b.WriteByte(' ')
		}
		b.WriteString(sp.s)
		prevEnd = sp.x + sp.w
	}
	return strings.TrimSpace(b.String())
}

// clusterSpans splits a line into groups wherever the horizontal gap
// exceeds cellGap. Only reliable for lines with every cell populated,
// which is true for the header lines it is used on.
func clusterSpans(spans []span) [][]span {
	var groups [][]span
	var cur []span
	var prevEnd float64
	for i, sp := range spans {
		if i > 0 && sp.x-prevEnd > cellGap {
			groups = append(groups, cur)
			cur = nil
		}
		cur = append(cur, sp)
		prevEnd = sp.x + sp.w
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups
}

// isTxnHeader recognizes the transaction table's header line.
func isTxnHeader(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "date") &&
		strings.Contains(lower, "balance") &&
		(strings.Contains(lower, "debit") || strings.Contains(lower, "credit"))
}

// isSummaryHeader recognizes the statement-summary block's header line on
// the final page.
func isSummaryHeader(text string) bool {
	return strings.Contains(strings.ToLower(text), "brought forward")
}

// assignToAnchors distributes a line's spans over the anchored columns.
// Columns with no span stay empty, which is how a credit row keeps its
// blank debit cell.
func assignToAnchors(spans []span, anchors []float64) []string {
	groups := make([][]span, len(anchors))
	for _, sp := range spans {
		col := 0
		for j := len(anchors) - 1; j >= 0; j-- {
			if sp.x+anchorSlack >= anchors[j] {
				col = j
				break
			}
		}
		groups[col] = append(groups[col], sp)
	}
	cells := make([]string, len(anchors))
	for i, g := range groups {
		cells[i] = joinSpans(g)
	}
	return cells
}

// descriptionOnly reports whether a cell slice carries text solely in the
// description column, i.e. a wrapped continuation of the row above.
func descriptionOnly(cells []string) bool {
	if len(cells) < models.MinCols || strings.TrimSpace(cells[models.ColDescription]) == "" {
		return false
	}
	for i, c := range cells {
		if i != models.ColDescription && strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// pageRows reconstructs the table rows of one page. Column anchors from a
// previous page carry over so continuation pages that repeat no header
// still align; the (possibly updated) anchors are returned for the next
// page. Open rows never survive a page, which keeps output independent of
// how pages are grouped into batches.
func pageRows(texts []pdf.Text, pageNum int, anchors []float64) ([]models.RawRow, []float64) {
	var (
		rows     []models.RawRow
		open     *models.RawRow
		tableIdx int
		rowIdx   int
	)

	flush := func() {
		if open != nil {
			rows = append(rows, *open)
			open = nil
		}
	}
	emit := func(cells []string) {
		rows = append(rows, models.RawRow{Page: pageNum, Table: tableIdx, Row: rowIdx, Cells: cells})
		rowIdx++
	}

	for _, ln := range linesFromTexts(texts) {
		text := joinSpans(ln.spans)

		if isTxnHeader(text) || isSummaryHeader(text) {
			flush()
			if anchors != nil {
				tableIdx++
			}
			rowIdx = 0

			groups := clusterSpans(ln.spans)
			anchors = make([]float64, len(groups))
			cells := make([]string, len(groups))
			for i, g := range groups {
				anchors[i] = g[0].x
				cells[i] = joinSpans(g)
			}
			emit(cells)
			continue
		}

		if anchors == nil {
			continue // outside any table region
		}

		cells := assignToAnchors(ln.spans, anchors)
		switch {
		case len(cells) >= models.MinCols && models.IsDate(cells[models.ColTxnDate]):
			flush()
			row := models.RawRow{Page: pageNum, Table: tableIdx, Row: rowIdx, Cells: cells}
			rowIdx++
			open = &row
		case open != nil && descriptionOnly(cells):
			open.Cells[models.ColDescription] += "\n" + cells[models.ColDescription]
		default:
			flush()
			emit(cells)
		}
	}
	flush()
	return rows, anchors
}
