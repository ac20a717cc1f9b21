package models

import (
	"strings"
	"time"
)

// Column positions in the SBI transaction table.
const (
	ColTxnDate     = 0
	ColValueDate   = 1
	ColDescription = 2
	ColChequeNo    = 3
	ColDebit       = 4
	ColCredit      = 5
	ColBalance     = 6

	// MinCols is the minimum column count for a row to qualify as a
	// transaction candidate.
	MinCols = 7
)

// AccountSource tags every record emitted by this parser.
const AccountSource = "sbi_email"

// DateLayout is the DD/MM/YYYY textual form all statement dates use.
const DateLayout = "02/01/2006"

// IsDate reports whether s is a valid DD/MM/YYYY calendar date.
func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, strings.TrimSpace(s))
	return err == nil
}

// Transaction is a single normalized statement row, immutable once emitted.
// Amounts are decimal strings exactly as printed in the statement with
// thousands separators removed; an empty string means the column was blank.
type Transaction struct {
	ValueDate     string `json:"value_date"`
	PostDate      string `json:"post_date"`
	Details       string `json:"details"`
	RefNo         string `json:"ref_no"`
	Debit         string `json:"debit"`
	Credit        string `json:"credit"`
	Balance       string `json:"balance"`
	TxnType       string `json:"txn_type"` // "debit", "credit" or ""
	AccountSource string `json:"account_source"`
	ParseSeq      int    `json:"-"` // emission ordinal, internal tie-break only
}

// RawRow is one reconstructed table row, identified by its position in the
// document. Rows are transient: produced per batch and consumed immediately.
type RawRow struct {
	Page  int // 1-based page number
	Table int // table region within the page; rows continuing a previous page's table are region 0, each further header starts a new region
	Row   int // row index within the table region
	Cells []string
}

// Cell returns the i-th cell, or "" when the row is shorter than that.
func (r RawRow) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// IsBlank reports whether every cell is empty or whitespace.
func (r RawRow) IsBlank() bool {
	for _, c := range r.Cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// RowKind is the classifier's verdict for a raw row, decided once and never
// re-inspected downstream.
type RowKind int

const (
	RowEmpty RowKind = iota
	RowSummary
	RowCandidate
	RowNoise
)

func (k RowKind) String() string {
	switch k {
	case RowEmpty:
		return "empty"
	case RowSummary:
		return "summary"
	case RowCandidate:
		return "candidate"
	default:
		return "noise"
	}
}
