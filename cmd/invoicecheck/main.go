// Command invoicecheck extracts and validates a single invoice PDF and
// writes the results next to each other in an output directory.
//
// Usage: invoicecheck <invoice.pdf> [--out dir] [--profile file] [--xlsx]
//
// Exit status is 0 when every check passed, 2 when validation recorded
// errors and 1 on any other failure.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"invoicecheck/internal/config"
	"invoicecheck/internal/domain"
	"invoicecheck/internal/logging"
	"invoicecheck/internal/parser"
	_ "invoicecheck/internal/parser/claude"
	_ "invoicecheck/internal/parser/gemini"
	_ "invoicecheck/internal/parser/openai"
	_ "invoicecheck/internal/parser/rules"
	"invoicecheck/internal/report"
	"invoicecheck/internal/service"
)

const (
	exitOK               = 0
	exitFailure          = 1
	exitValidationErrors = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	pdfPath     string
	outDir      string
	profilePath string
	extractor   string
	xlsx        bool
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := pflag.NewFlagSet("invoicecheck", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := &options{}
	fs.StringVarP(&opts.outDir, "out", "o", "output", "directory for the result files")
	fs.StringVarP(&opts.profilePath, "profile", "p", "", "billing profile YAML (default: built-in profile)")
	fs.StringVarP(&opts.extractor, "extractor", "e", "", "primary extractor provider (default: from config)")
	fs.BoolVar(&opts.xlsx, "xlsx", false, "also write a spreadsheet report")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: invoicecheck <invoice.pdf> [flags]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("exactly one PDF path is required")
	}
	opts.pdfPath = fs.Arg(0)
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	_ = godotenv.Load()

	pr, err := process(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	paths, err := writeOutputs(opts, pr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	printSummary(stdout, pr, paths)
	if pr.Result.HasErrors() {
		return exitValidationErrors
	}
	return exitOK
}

func process(opts *options) (*service.ProcessResult, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.profilePath != "" {
		cfg.Profile.Path = opts.profilePath
	}
	if opts.extractor != "" {
		cfg.Extractor.Primary.Provider = opts.extractor
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	profile, err := config.LoadProfile(cfg.Profile.Path)
	if err != nil {
		return nil, err
	}
	extractor, err := parser.NewChain(&cfg.Extractor, parser.Options{Profile: profile, Logger: logger})
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(opts.pdfPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", opts.pdfPath, err)
	}

	svc := service.NewInvoiceService(service.InvoiceServiceDeps{
		Parser:  extractor,
		Profile: profile,
		Logger:  logger,
	})
	return svc.Process(context.Background(), service.DocumentInput{
		FileName: filepath.Base(opts.pdfPath),
		Data:     data,
		Source:   domain.RunSourceCLI,
	})
}

type outputFile struct {
	label string
	path  string
}

func writeOutputs(opts *options, pr *service.ProcessResult) ([]outputFile, error) {
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	stem := strings.TrimSuffix(filepath.Base(opts.pdfPath), filepath.Ext(opts.pdfPath))
	out := func(suffix string) string { return filepath.Join(opts.outDir, stem+suffix) }

	paths := []outputFile{
		{"extracted_data", out("_extracted_data.json")},
		{"validation_results", out("_validation_results.json")},
		{"validation_summary", out("_validation_summary.txt")},
	}
	if err := writeJSON(paths[0].path, pr.Invoice); err != nil {
		return nil, err
	}
	if err := writeJSON(paths[1].path, pr.Result); err != nil {
		return nil, err
	}
	if err := writeWith(paths[2].path, func(w io.Writer) error { return report.WriteText(w, pr.Result) }); err != nil {
		return nil, err
	}
	if opts.xlsx {
		p := outputFile{"validation_report", out("_validation.xlsx")}
		if err := writeWith(p.path, func(w io.Writer) error { return report.WriteXLSX(w, pr.FileName, pr.Result) }); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func writeJSON(path string, v any) error {
	return writeWith(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	})
}

func writeWith(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func printSummary(w io.Writer, pr *service.ProcessResult, paths []outputFile) {
	banner := strings.Repeat("=", 70)
	fmt.Fprintln(w)
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "PROCESSING COMPLETE")
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "  Extractor : %s\n", pr.Extractor)
	fmt.Fprintf(w, "  Passed    : %d\n", pr.Summary.Passed)
	fmt.Fprintf(w, "  Failed    : %d\n", pr.Summary.Failed)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output files:")
	for _, p := range paths {
		fmt.Fprintf(w, "  %-22s -> %s\n", p.label, p.path)
	}
	fmt.Fprintln(w, banner)
}
