// Package verify is the pipeline's correctness oracle. It re-extracts the
// raw statement independently of the production path and reconciles the
// pipeline's output against it across seven check classes: row-count
// parity, summary location, cell-level equivalence, balance-chain
// continuity, aggregate reconciliation, date validity and order, and
// identity/completeness.
package verify

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/statementworks/sbi-statement-parser/internal/dedup"
	"github.com/statementworks/sbi-statement-parser/internal/extractor"
	"github.com/statementworks/sbi-statement-parser/internal/models"
	"github.com/statementworks/sbi-statement-parser/internal/parser"
)

// tolerance is the allowed absolute drift for money comparisons.
var tolerance = decimal.RequireFromString("0.01")

// Check is the outcome of one verification category.
type Check struct {
	Name    string
	Passed  bool
	Skipped bool // prerequisite (the statement summary) was unavailable
	Details []string
}

// Report aggregates all checks for one document.
type Report struct {
	Checks         []Check
	RawRowCount    int
	CandidateCount int
	RecordCount    int
	Summary        *StatementSummary
}

// Passed reports whether every non-skipped check passed.
func (r *Report) Passed() bool {
	for _, c := range r.Checks {
		if !c.Skipped && !c.Passed {
			return false
		}
	}
	return true
}

func (r *Report) add(c Check) {
	r.Checks = append(r.Checks, c)
}

// Statement runs the full verification on a document: it parses through
// the production pipeline, re-extracts the raw rows in an independent
// pass, and reconciles the two.
func Statement(data []byte, password string) (*Report, error) {
	res, err := parser.Parse(data, password)
	if err != nil {
		return nil, err
	}

	doc, err := extractor.Open(data, password)
	if err != nil {
		return nil, err
	}
	raw, err := doc.Rows()
	if err != nil {
		return nil, err
	}

	return Run(raw, res), nil
}

// Run reconciles pipeline output against independently extracted raw rows.
// Exposed separately from Statement so the checks can be exercised on
// synthetic data.
func Run(raw []models.RawRow, res *parser.Result) *Report {
	var candidates []models.RawRow
	for _, row := range raw {
		if parser.Classify(row) == models.RowCandidate {
			candidates = append(candidates, row)
		}
	}

	rep := &Report{
		RawRowCount:    len(raw),
		CandidateCount: len(candidates),
		RecordCount:    len(res.Transactions),
		Summary:        findSummary(raw, res.PageCount),
	}

	rep.add(checkRowCount(candidates, res.Transactions))
	rep.add(checkSummary(rep.Summary, res.PageCount))
	rep.add(checkCells(candidates, res.Transactions))
	rep.add(checkBalanceChain(res.Transactions, rep.Summary))
	rep.add(checkAggregates(res.Transactions, rep.Summary))
	rep.add(checkDates(res.Transactions))
	rep.add(checkIdentity(res.Transactions))
	return rep
}

// checkRowCount: every structurally-qualifying candidate row must have
// produced exactly one record. Mismatches are localized by matching
// (post_date, balance) keys between the raw and emitted sets.
func checkRowCount(candidates []models.RawRow, recs []models.Transaction) Check {
	c := Check{Name: "row-count"}
	if len(candidates) == len(recs) {
		c.Passed = true
		c.Details = append(c.Details, fmt.Sprintf("%d candidate rows == %d records", len(candidates), len(recs)))
		return c
	}
	c.Details = append(c.Details, fmt.Sprintf("%d candidate rows != %d records", len(candidates), len(recs)))

	recKeys := make(map[[2]string]struct{}, len(recs))
	for _, t := range recs {
		recKeys[[2]string{t.PostDate, t.Balance}] = struct{}{}
	}
	for _, row := range candidates {
		key := [2]string{
			strings.TrimSpace(row.Cell(models.ColTxnDate)),
			parser.ParseAmount(row.Cell(models.ColBalance)),
		}
		if _, ok := recKeys[key]; !ok {
			c.Details = append(c.Details, fmt.Sprintf(
				"dropped: page=%d table=%d row=%d post_date=%s balance=%s",
				row.Page, row.Table, row.Row, key[0], key[1]))
		}
	}
	if len(recs) > len(candidates) {
		candKeys := make(map[[2]string]struct{}, len(candidates))
		for _, row := range candidates {
			candKeys[[2]string{
				strings.TrimSpace(row.Cell(models.ColTxnDate)),
				parser.ParseAmount(row.Cell(models.ColBalance)),
			}] = struct{}{}
		}
		for _, t := range recs {
			if _, ok := candKeys[[2]string{t.PostDate, t.Balance}]; !ok {
				c.Details = append(c.Details, fmt.Sprintf(
					"unmatched record: seq=%d post_date=%s balance=%s", t.ParseSeq, t.PostDate, t.Balance))
			}
		}
	}
	return c
}

func checkSummary(s *StatementSummary, pageCount int) Check {
	c := Check{Name: "summary"}
	if s == nil {
		c.Details = append(c.Details, fmt.Sprintf("no summary row located on page %d", pageCount))
		return c
	}
	c.Passed = true
	c.Details = append(c.Details, fmt.Sprintf(
		"page=%d opening=%s debit_count=%d cells=%v",
		s.Row.Page, s.Opening, s.DebitCount, s.Row.Cells))
	return c
}

// checkCells re-derives every field from the raw row with the same
// cleaning rules and compares it to the pipeline's output. The cleaned
// description must retain every non-blank raw line as a substring, and
// txn_type must match whichever of debit/credit is populated (never both).
func checkCells(candidates []models.RawRow, recs []models.Transaction) Check {
	c := Check{Name: "cells"}
	n := len(candidates)
	if len(recs) < n {
		n = len(recs)
	}
	for i := 0; i < n; i++ {
		raw, rec := candidates[i], recs[i]
		var errs []string

		if v := strings.TrimSpace(raw.Cell(models.ColTxnDate)); v != rec.PostDate {
			errs = append(errs, fmt.Sprintf("post_date: raw=%q parsed=%q", v, rec.PostDate))
		}
		if v := strings.TrimSpace(raw.Cell(models.ColValueDate)); v != rec.ValueDate {
			errs = append(errs, fmt.Sprintf("value_date: raw=%q parsed=%q", v, rec.ValueDate))
		}
		if v := parser.ParseAmount(raw.Cell(models.ColDebit)); v != rec.Debit {
			errs = append(errs, fmt.Sprintf("debit: re-derived=%q parsed=%q", v, rec.Debit))
		}
		if v := parser.ParseAmount(raw.Cell(models.ColCredit)); v != rec.Credit {
			errs = append(errs, fmt.Sprintf("credit: re-derived=%q parsed=%q", v, rec.Credit))
		}
		if v := parser.ParseAmount(raw.Cell(models.ColBalance)); v != rec.Balance {
			errs = append(errs, fmt.Sprintf("balance: re-derived=%q parsed=%q", v, rec.Balance))
		}

		rawDesc := raw.Cell(models.ColDescription)
		if v := parser.CleanDescription(rawDesc); v != rec.Details {
			errs = append(errs, fmt.Sprintf("details: re-derived=%q parsed=%q", v, rec.Details))
		}
		if v := parser.ExtractRefNo(rawDesc); v != rec.RefNo {
			errs = append(errs, fmt.Sprintf("ref_no: re-derived=%q parsed=%q", v, rec.RefNo))
		}
		for _, line := range strings.Split(rawDesc, "\n") {
			line = strings.TrimSpace(line)
			if line != "" && !strings.Contains(rec.Details, line) {
				errs = append(errs, fmt.Sprintf("description content lost: %q", line))
			}
		}

		if rec.Debit != "" && rec.Credit != "" {
			errs = append(errs, "both debit and credit set")
		}
		if rec.Debit != "" && rec.TxnType != "debit" {
			errs = append(errs, fmt.Sprintf("txn_type should be debit, got %q", rec.TxnType))
		}
		if rec.Credit != "" && rec.TxnType != "credit" {
			errs = append(errs, fmt.Sprintf("txn_type should be credit, got %q", rec.TxnType))
		}

		if len(errs) > 0 {
			c.Details = append(c.Details, fmt.Sprintf("row %d (page %d): %s", i, raw.Page, strings.Join(errs, "; ")))
		}
	}
	c.Passed = len(c.Details) == 0
	return c
}

// checkBalanceChain: balance(i) == round(balance(i-1) - debit(i) +
// credit(i), 2) within tolerance, seeded from the declared opening balance.
func checkBalanceChain(recs []models.Transaction, s *StatementSummary) Check {
	c := Check{Name: "balance-chain"}
	if s == nil {
		c.Skipped = true
		c.Details = append(c.Details, "no statement summary; chain has no opening balance to seed from")
		return c
	}

	running := s.Opening
	for i, t := range recs {
		d, cr, b := dec(t.Debit), dec(t.Credit), dec(t.Balance)
		expected := running.Sub(d).Add(cr).Round(2)
		if diff := expected.Sub(b).Abs(); diff.GreaterThan(tolerance) {
			c.Details = append(c.Details, fmt.Sprintf(
				"row %d: prev=%s - %s + %s = %s, but got %s (diff=%s)",
				i, running, d, cr, expected, b, diff))
		}
		running = b
	}
	c.Passed = len(c.Details) == 0
	if c.Passed {
		c.Details = append(c.Details, fmt.Sprintf("%d sequential balances verified; opening=%s closing=%s",
			len(recs), s.Opening, running))
	}
	return c
}

// checkAggregates: counts and sums of debit/credit-typed records must
// match the summary's declared counts and totals, and the final balance
// must match the declared closing balance, all within tolerance.
func checkAggregates(recs []models.Transaction, s *StatementSummary) Check {
	c := Check{Name: "aggregates"}
	if s == nil {
		c.Skipped = true
		c.Details = append(c.Details, "no statement summary to reconcile against")
		return c
	}

	var (
		debitCount, creditCount int
		totalDebits             = decimal.Zero
		totalCredits            = decimal.Zero
		closing                 = s.Opening
	)
	for _, t := range recs {
		switch t.TxnType {
		case "debit":
			debitCount++
			totalDebits = totalDebits.Add(dec(t.Debit))
		case "credit":
			creditCount++
			totalCredits = totalCredits.Add(dec(t.Credit))
		}
	}
	if len(recs) > 0 {
		closing = dec(recs[len(recs)-1].Balance)
	}

	if debitCount != s.DebitCount {
		c.Details = append(c.Details, fmt.Sprintf("debit count: got %d, declared %d", debitCount, s.DebitCount))
	}
	if s.CreditCount == nil {
		c.Details = append(c.Details, "summary credit count unreadable; comparison skipped")
	} else if creditCount != *s.CreditCount {
		c.Details = append(c.Details, fmt.Sprintf("credit count: got %d, declared %d", creditCount, *s.CreditCount))
	}
	compareAmount := func(label string, got decimal.Decimal, declared *decimal.Decimal) {
		if declared == nil {
			c.Details = append(c.Details, fmt.Sprintf("summary %s unreadable; comparison skipped", label))
			return
		}
		if got.Sub(*declared).Abs().GreaterThan(tolerance) {
			c.Details = append(c.Details, fmt.Sprintf("%s: got %s, declared %s", label, got, declared))
		}
	}
	compareAmount("total debits", totalDebits, s.TotalDebits)
	compareAmount("total credits", totalCredits, s.TotalCredits)
	compareAmount("closing balance", closing, s.Closing)

	failed := false
	for _, d := range c.Details {
		if !strings.Contains(d, "comparison skipped") {
			failed = true
		}
	}
	c.Passed = !failed
	return c
}

// checkDates: every date parses as a valid DD/MM/YYYY date and post_date
// is non-decreasing across the full sequence.
func checkDates(recs []models.Transaction) Check {
	c := Check{Name: "dates"}
	for i, t := range recs {
		if !models.IsDate(t.PostDate) {
			c.Details = append(c.Details, fmt.Sprintf("row %d: invalid post_date %q", i, t.PostDate))
		}
		if !models.IsDate(t.ValueDate) {
			c.Details = append(c.Details, fmt.Sprintf("row %d: invalid value_date %q", i, t.ValueDate))
		}
	}

	var prev time.Time
	havePrev := false
	for i, t := range recs {
		dt, err := time.Parse(models.DateLayout, t.PostDate)
		if err != nil {
			continue
		}
		if havePrev && dt.Before(prev) {
			c.Details = append(c.Details, fmt.Sprintf(
				"row %d: post_date %s precedes previous %s", i, t.PostDate, prev.Format(models.DateLayout)))
		}
		prev, havePrev = dt, true
	}
	c.Passed = len(c.Details) == 0
	return c
}

// checkIdentity: dedup hashes and short ids are pairwise distinct, every
// required field is populated, and each record carries at least one of
// debit/credit.
func checkIdentity(recs []models.Transaction) Check {
	c := Check{Name: "identity"}
	seenKey := make(map[string]int, len(recs))
	seenID := make(map[string]int, len(recs))
	for i, t := range recs {
		key := dedup.Key(t)
		if j, ok := seenKey[key]; ok {
			c.Details = append(c.Details, fmt.Sprintf("duplicate hash %s: rows %d and %d", key, j, i))
		} else {
			seenKey[key] = i
		}
		id := dedup.ShortID(key)
		if j, ok := seenID[id]; ok {
			c.Details = append(c.Details, fmt.Sprintf("duplicate txn_id %s: rows %d and %d", id, j, i))
		} else {
			seenID[id] = i
		}

		for _, field := range []struct{ name, value string }{
			{"post_date", t.PostDate},
			{"value_date", t.ValueDate},
			{"details", t.Details},
			{"balance", t.Balance},
			{"txn_type", t.TxnType},
			{"account_source", t.AccountSource},
		} {
			if field.value == "" {
				c.Details = append(c.Details, fmt.Sprintf("row %d: missing %s", i, field.name))
			}
		}
		if t.Debit == "" && t.Credit == "" {
			c.Details = append(c.Details, fmt.Sprintf("row %d: neither debit nor credit populated", i))
		}
	}
	c.Passed = len(c.Details) == 0
	return c
}

// dec parses a pipeline amount string, treating "" as zero. Pipeline
// amounts are already validated, so a parse failure here also counts as
// zero rather than panicking inside a diagnostic pass.
func dec(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
