package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/statementworks/sbi-statement-parser/internal/api"
	"github.com/statementworks/sbi-statement-parser/internal/config"
	"github.com/statementworks/sbi-statement-parser/internal/extractor"
	"github.com/statementworks/sbi-statement-parser/internal/logging"
	"github.com/statementworks/sbi-statement-parser/internal/metrics"
	"github.com/statementworks/sbi-statement-parser/internal/parser"
	"github.com/statementworks/sbi-statement-parser/internal/verify"
	"github.com/statementworks/sbi-statement-parser/internal/writer"
)

const version = "1.0.0"

// maxDetailLines caps per-check diagnostics in verify output.
const maxDetailLines = 20

func main() {
	var (
		password  string
		batchSize int
	)

	root := &cobra.Command{
		Use:     "sbi-statement-parser",
		Short:   "Parse and verify password-protected SBI statement PDFs",
		Version: version,
	}
	root.PersistentFlags().StringVar(&password, "password", "", "PDF password (defaults to PDF_PASSWORD)")
	root.PersistentFlags().IntVar(&batchSize, "batch-size", extractor.DefaultBatchSize, "pages decoded per batch")

	var (
		outputPath    string
		includeHeader bool
	)
	parseCmd := &cobra.Command{
		Use:   "parse <statement.pdf> [statement2.pdf ...]",
		Short: "Convert statements to CSV",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := resolvePassword(password)
			if err != nil {
				return err
			}
			for _, path := range args {
				if err := parseFile(path, pw, batchSize, outputPath, includeHeader); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			return nil
		},
	}
	parseCmd.Flags().StringVar(&outputPath, "output", "", "output CSV path (defaults to input name with .csv)")
	parseCmd.Flags().BoolVar(&includeHeader, "header", true, "include statement metadata header rows")

	verifyCmd := &cobra.Command{
		Use:   "verify <statement.pdf> [statement2.pdf ...]",
		Short: "Reconcile parser output against an independent extraction",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := resolvePassword(password)
			if err != nil {
				return err
			}
			failed := 0
			for _, path := range args {
				ok, err := verifyFile(path, pw)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if !ok {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d statements failed verification", failed, len(args))
			}
			return nil
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	root.AddCommand(parseCmd, verifyCmd, serveCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func resolvePassword(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if pw := os.Getenv("PDF_PASSWORD"); pw != "" {
		return pw, nil
	}
	return "", fmt.Errorf("no password given; use --password or set PDF_PASSWORD")
}

func parseFile(path, password string, batchSize int, outputPath string, includeHeader bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	res, err := parser.ParseWithBatchSize(data, password, batchSize)
	if err != nil {
		return err
	}

	fmt.Printf("Processing: %s\n", path)
	fmt.Printf("  Pages: %d\n", res.PageCount)
	if res.StatementFrom != "" {
		fmt.Printf("  Period: %s to %s\n", res.StatementFrom, res.StatementTo)
	}
	fmt.Printf("  Found %d transaction(s)\n", len(res.Transactions))

	outPath := outputPath
	if outPath == "" {
		outPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".csv"
	}
	w := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := w.WriteToFile(outPath, res); err != nil {
		return err
	}
	fmt.Printf("  Output: %s\n", outPath)
	return nil
}

func verifyFile(path, password string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	rep, err := verify.Statement(data, password)
	if err != nil {
		return false, err
	}

	fmt.Printf("%s: %d raw rows, %d candidates, %d records\n",
		path, rep.RawRowCount, rep.CandidateCount, rep.RecordCount)
	for _, check := range rep.Checks {
		status := "PASS"
		switch {
		case check.Skipped:
			status = "SKIP"
		case !check.Passed:
			status = "FAIL"
		}
		fmt.Printf("  %-4s %s\n", status, check.Name)
		for i, d := range check.Details {
			if i == maxDetailLines {
				fmt.Printf("       ... and %d more\n", len(check.Details)-maxDetailLines)
				break
			}
			fmt.Printf("       %s\n", d)
		}
	}
	if rep.Passed() {
		fmt.Println("  VERDICT: ALL CHECKS PASSED")
	} else {
		fmt.Println("  VERDICT: FAILED")
	}
	return rep.Passed(), nil
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.PDFPassword == "" {
		return fmt.Errorf("PDF_PASSWORD is not set")
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	h := &api.Handler{
		Password:      cfg.PDFPassword,
		MaxUploadSize: cfg.MaxUploadSize,
		BatchSize:     cfg.BatchSize,
		Log:           log,
		Metrics:       metrics.New(),
	}
	app := api.NewApp(h)

	log.Info().Str("port", cfg.HTTPPort).Str("version", version).Msg("starting server")
	return app.Listen(":" + cfg.HTTPPort)
}
