// Package api exposes the parser over HTTP: statement upload, liveness
// probe and Prometheus metrics.
package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	recoverer "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/statementworks/sbi-statement-parser/internal/dedup"
	"github.com/statementworks/sbi-statement-parser/internal/extractor"
	"github.com/statementworks/sbi-statement-parser/internal/metrics"
	"github.com/statementworks/sbi-statement-parser/internal/parser"
)

var pdfMagic = []byte("%PDF-")

// importedAtLayout is the UTC generation timestamp attached to every
// record: millisecond-precision ISO-8601.
const importedAtLayout = "2006-01-02T15:04:05.000Z"

// TransactionResponse is one record in the /parse response array.
type TransactionResponse struct {
	TxnID         string `json:"txn_id"`
	ValueDate     string `json:"value_date"`
	PostDate      string `json:"post_date"`
	Details       string `json:"details"`
	RefNo         string `json:"ref_no"`
	Debit         string `json:"debit"`
	Credit        string `json:"credit"`
	Balance       string `json:"balance"`
	TxnType       string `json:"txn_type"`
	AccountSource string `json:"account_source"`
	ImportedAt    string `json:"imported_at"`
	Hash          string `json:"hash"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Password      string
	MaxUploadSize int64
	BatchSize     int
	Log           zerolog.Logger
	Metrics       *metrics.Metrics
}

// NewApp builds the fiber application with all routes and middleware.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		// Leave headroom above the upload cap so oversize files reach
		// the handler's own size check instead of a bare 413.
		BodyLimit:             int(h.MaxUploadSize) + (1 << 20),
		DisableStartupMessage: true,
	})
	app.Use(recoverer.New())
	app.Use(h.observe())
	app.Get("/health", h.HandleHealth)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Post("/parse", h.HandleParse)
	return app
}

// HandleHealth is the liveness probe.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleParse accepts a statement PDF upload and returns the parsed
// transactions as a JSON array. The upload stays in memory for the
// duration of the request; nothing request-local survives any exit path.
func (h *Handler) HandleParse(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return clientError(c, fiber.StatusBadRequest, "no file uploaded; use form field 'file'")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return clientError(c, fiber.StatusBadRequest, "file must be a PDF")
	}
	if fileHeader.Size > h.MaxUploadSize {
		return clientError(c, fiber.StatusBadRequest,
			fmt.Sprintf("file too large; maximum size is %d MB", h.MaxUploadSize/(1024*1024)))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return serverError(c, h, err, fileHeader.Filename)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return serverError(c, h, err, fileHeader.Filename)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return clientError(c, fiber.StatusBadRequest, "file does not appear to be a valid PDF")
	}

	start := time.Now()
	res, err := parser.ParseWithBatchSize(data, h.Password, h.BatchSize)
	if err != nil {
		switch {
		case errors.Is(err, extractor.ErrAuthentication):
			h.Metrics.ParseFailures.WithLabelValues("authentication").Inc()
			return clientError(c, fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, extractor.ErrEmptyDocument):
			h.Metrics.ParseFailures.WithLabelValues("empty_document").Inc()
			return clientError(c, fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, extractor.ErrFormatMismatch):
			h.Metrics.ParseFailures.WithLabelValues("format_mismatch").Inc()
			return clientError(c, fiber.StatusUnprocessableEntity, err.Error())
		default:
			return serverError(c, h, err, fileHeader.Filename)
		}
	}

	h.Metrics.StatementsParsed.Inc()
	h.Metrics.ParseDuration.Observe(time.Since(start).Seconds())
	h.Metrics.TransactionsExtracted.Add(float64(len(res.Transactions)))

	importedAt := time.Now().UTC().Format(importedAtLayout)
	out := make([]TransactionResponse, 0, len(res.Transactions))
	for _, t := range res.Transactions {
		key := dedup.Key(t)
		out = append(out, TransactionResponse{
			TxnID:         dedup.ShortID(key),
			ValueDate:     t.ValueDate,
			PostDate:      t.PostDate,
			Details:       t.Details,
			RefNo:         t.RefNo,
			Debit:         t.Debit,
			Credit:        t.Credit,
			Balance:       t.Balance,
			TxnType:       t.TxnType,
			AccountSource: t.AccountSource,
			ImportedAt:    importedAt,
			Hash:          key,
		})
	}
	return c.JSON(out)
}

func clientError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(errorResponse{Error: msg})
}

// serverError logs the cause and returns a generic failure so internals
// never leak to the client.
func serverError(c *fiber.Ctx, h *Handler, err error, filename string) error {
	h.Metrics.ParseFailures.WithLabelValues("internal").Inc()
	h.Log.Error().Err(err).Str("filename", filename).Msg("unexpected parse failure")
	return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "internal server error during parsing"})
}
