package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statementworks/sbi-statement-parser/internal/models"
)

// testdata/statement.pdf is a two-page encrypted statement holding three
// transactions; fixturePassword is its user password.
const fixturePassword = "secret123"

func fixturePDF(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "statement.pdf"))
	require.NoError(t, err)
	return data
}

func TestOpenRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a pdf", []byte("hello world")},
		{"truncated header", []byte("%PDF-1.7\nthis goes nowhere")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Open(tt.data, "")

			require.Error(t, err)
			assert.Nil(t, doc)
		})
	}
}

func TestOpenWrongPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"wrong password", "hunter2"},
		{"empty password", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Open(fixturePDF(t), tt.password)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrAuthentication)
			assert.Nil(t, doc)
		})
	}
}

func TestOpenFixture(t *testing.T) {
	doc, err := Open(fixturePDF(t), fixturePassword)

	require.NoError(t, err)
	assert.Equal(t, 2, doc.PageCount)
	assert.Equal(t, "01-01-2024", doc.StatementFrom)
	assert.Equal(t, "31-01-2024", doc.StatementTo)
	assert.Equal(t, DefaultBatchSize, doc.BatchSize)
}

func TestRowsFixture(t *testing.T) {
	doc, err := Open(fixturePDF(t), fixturePassword)
	require.NoError(t, err)

	rows, err := doc.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "Txn Date", rows[0].Cell(models.ColTxnDate))
	assert.Equal(t, "Balance", rows[0].Cell(models.ColBalance))

	debit := rows[1]
	assert.Equal(t, 1, debit.Page)
	assert.Equal(t, "15/01/2024", debit.Cell(models.ColTxnDate))
	assert.Equal(t, "1234567890 NEFT", debit.Cell(models.ColDescription))
	assert.Equal(t, "100.00", debit.Cell(models.ColDebit))
	assert.Equal(t, "", debit.Cell(models.ColCredit))
	assert.Equal(t, "900.00", debit.Cell(models.ColBalance))

	credit := rows[2]
	assert.Equal(t, "", credit.Cell(models.ColDebit))
	assert.Equal(t, "50.00", credit.Cell(models.ColCredit))

	// Page two repeats no header; its row aligns through carried anchors.
	carried := rows[3]
	assert.Equal(t, 2, carried.Page)
	assert.Equal(t, "17/01/2024", carried.Cell(models.ColTxnDate))
	assert.Equal(t, "200.00", carried.Cell(models.ColDebit))
	assert.Equal(t, "750.00", carried.Cell(models.ColBalance))
}

func TestRowsBatchInvariance(t *testing.T) {
	open := func(batch int) []models.RawRow {
		doc, err := Open(fixturePDF(t), fixturePassword)
		require.NoError(t, err)
		doc.BatchSize = batch
		rows, err := doc.Rows()
		require.NoError(t, err)
		return rows
	}

	base := open(DefaultBatchSize)
	assert.Equal(t, base, open(1))
	assert.Equal(t, base, open(2))
}

func TestIssuerPattern(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"State Bank of India", true},
		{"STATE  BANK OF INDIA", true},
		{"SBI Savings Account", true},
		{"Account Number : 000012345678", true},
		{"Some Other Bank Ltd", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, issuerPattern.MatchString(tt.input))
		})
	}
}

func TestPeriodPattern(t *testing.T) {
	m := periodPattern.FindStringSubmatch("Statement From : 01-01-2024 to 31-01-2024")
	require.NotNil(t, m)
	assert.Equal(t, "01-01-2024", m[1])
	assert.Equal(t, "31-01-2024", m[2])

	m = periodPattern.FindStringSubmatch("statement from: 01-01-2024 TO 31-01-2024")
	require.NotNil(t, m, "case and spacing are flexible")

	assert.Nil(t, periodPattern.FindStringSubmatch("Statement From : January to March"))
}

func TestDefaultBatchSize(t *testing.T) {
	assert.Equal(t, 15, DefaultBatchSize)
}
