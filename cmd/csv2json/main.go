// Command csv2json converts delimited tabular text (CSV and friends) into
// JSON. It auto-detects the delimiter, recovers from structurally broken
// input with a lenient fallback parser, detects and coerces value types per
// column, applies per-column transform directives, and can additionally load
// the converted records into a SQLite or Postgres table.
//
// Settings come from flags, optionally layered over a JSON profile
// (-config); explicit flags always win.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"csv2json/internal/config"
	"csv2json/internal/convert"
	"csv2json/internal/emit"
	"csv2json/internal/metrics"
	"csv2json/internal/metrics/prompush"
	"csv2json/internal/records"
	"csv2json/internal/sniff"
	"csv2json/internal/storage"
	"csv2json/internal/transform"
	"csv2json/internal/typeconv"

	// register all backends with the storage factory.
	_ "csv2json/internal/storage/all"
)

// run bundles the merged flag/profile settings for one invocation.
type run struct {
	job       string
	convOpt   convert.Options
	emitOpt   emit.Options
	loadDSN   string
	table     string
	batchSize int
}

func main() {
	var (
		configPath        string
		validateOnly      bool
		delimiterFlg      string
		quoteFlg          string
		removeEmpty       bool
		prettySpaces      int
		sortKeys          bool
		customHeadersFlg  string
		missingHeader     bool
		skipRows          int
		idField           string
		noTypeDetection   bool
		columnsFlg        string
		ignoreMismatch    bool
		normalizeHeaders  bool
		dedupFlg          bool
		loadDSN           string
		tableFlg          string
		outDir            string
		metricsBackendFlg string
		pushGatewayURLFlg string
	)

	flag.StringVar(&configPath, "config", "", "JSON conversion profile; flags override profile values")
	flag.BoolVar(&validateOnly, "validate", false, "validate the profile and exit")
	flag.StringVar(&delimiterFlg, "delimiter", "", "delimiter override; empty means auto-detect (escapes: \\t \\n \\r \\f \\v)")
	flag.StringVar(&delimiterFlg, "d", "", "shorthand for -delimiter")
	flag.StringVar(&quoteFlg, "quotechar", "\"", "quote character")
	flag.StringVar(&quoteFlg, "q", "\"", "shorthand for -quotechar")
	flag.BoolVar(&removeEmpty, "remove-empty", false, "drop null-valued fields from keyed records")
	flag.IntVar(&prettySpaces, "pretty-spaces", 4, "JSON indent width")
	flag.IntVar(&prettySpaces, "p", 4, "shorthand for -pretty-spaces")
	flag.BoolVar(&sortKeys, "sort-keys", false, "sort JSON object keys alphabetically")
	flag.StringVar(&customHeadersFlg, "custom-headers", "", "comma-separated header list replacing the header row")
	flag.BoolVar(&missingHeader, "missing-header", false, "input has no header row; emit arrays instead of objects")
	flag.IntVar(&skipRows, "skip-rows", 0, "number of leading non-comment rows to skip")
	flag.StringVar(&idField, "id", "", "field to key the output object by")
	flag.BoolVar(&noTypeDetection, "no-type-detection", false, "disable type detection and coercion")
	flag.StringVar(&columnsFlg, "columns", "", "per-column directives, e.g. name:str/upper,age:int")
	flag.BoolVar(&ignoreMismatch, "ignore-mismatch", false, "silence custom-header/column-count warnings")
	flag.BoolVar(&normalizeHeaders, "normalize-headers", false, "normalize header names to ascii identifiers")
	flag.BoolVar(&dedupFlg, "dedup", false, "drop duplicate records, keep-first")
	flag.StringVar(&loadDSN, "load", "", "additionally load records into this database (sqlite path or postgres:// DSN)")
	flag.StringVar(&tableFlg, "table", "", "destination table name for -load (default \"data\")")
	flag.StringVar(&outDir, "out-dir", "", "output directory; enables multi-input mode")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (pushgateway, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	log.SetOutput(os.Stderr)

	// Load and lint the profile, if any.
	var prof config.Profile
	if configPath != "" {
		var err error
		if prof, err = config.Load(configPath); err != nil {
			fatalf("%v", err)
		}
		hasError := false
		for _, iss := range config.Validate(prof) {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
			if iss.Severity == config.SeverityError {
				hasError = true
			}
		}
		if hasError {
			fatalf("profile is invalid: %s", configPath)
		}
		if validateOnly {
			log.Printf("profile is valid: %s", configPath)
			return
		}
	} else if validateOnly {
		fatalf("-validate requires -config")
	}

	// Flags explicitly set on the command line override profile values.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	delimiterStr := prof.Input.Delimiter
	if set["delimiter"] || set["d"] {
		delimiterStr = delimiterFlg
	}
	delim, err := sniff.DecodeDelimiter(delimiterStr)
	if err != nil {
		fatalf("invalid delimiter: %v", err)
	}

	quoteStr := quoteFlg
	if !set["quotechar"] && !set["q"] && prof.Input.Quote != "" {
		quoteStr = prof.Input.Quote
	}
	quote := '"'
	if quoteStr != "" {
		if r, _ := utf8.DecodeRuneInString(quoteStr); r != utf8.RuneError {
			quote = r
		}
	}

	customHeaders := prof.Input.CustomHeaders
	if set["custom-headers"] {
		customHeaders = nil
		for _, h := range strings.Split(customHeadersFlg, ",") {
			customHeaders = append(customHeaders, strings.TrimSpace(h))
		}
	}

	columns := prof.Convert.Columns
	if set["columns"] {
		columns = columnsFlg
	}
	indent := 4
	if prof.Output.Indent != nil {
		indent = *prof.Output.Indent
	}
	if set["pretty-spaces"] || set["p"] {
		indent = prettySpaces
	}
	if indent < 0 {
		fatalf("indent width must not be negative: %d", indent)
	}
	table := prof.Storage.Table
	if set["table"] {
		table = tableFlg
	}
	if table == "" {
		table = "data"
	}
	job := prof.Job
	if job == "" {
		job = "csv2json"
	}

	r := run{
		job: job,
		convOpt: convert.Options{
			Delimiter:        delim,
			Quote:            quote,
			CustomHeaders:    customHeaders,
			MissingHeader:    pickBool(set, "missing-header", missingHeader, prof.Input.MissingHeader),
			SkipRows:         pickInt(set, "skip-rows", skipRows, prof.Input.SkipRows),
			RemoveEmpty:      pickBool(set, "remove-empty", removeEmpty, prof.Convert.RemoveEmpty),
			IgnoreMismatch:   pickBool(set, "ignore-mismatch", ignoreMismatch, prof.Convert.IgnoreMismatch),
			DetectTypes:      !pickBool(set, "no-type-detection", noTypeDetection, prof.Convert.DisableTypeDetection),
			Directives:       transform.ParseDirectives(columns),
			NormalizeHeaders: pickBool(set, "normalize-headers", normalizeHeaders, prof.Convert.NormalizeHeaders),
			Dedup:            pickBool(set, "dedup", dedupFlg, prof.Convert.Dedup),
			Verbose:          *verbose,
		},
		emitOpt: emit.Options{
			Indent:   indent,
			SortKeys: sortKeys || prof.Output.SortKeys,
			IDField:  pickString(set, "id", idField, prof.Output.ID),
		},
		loadDSN:   pickString(set, "load", loadDSN, prof.Storage.DSN),
		table:     table,
		batchSize: prof.Storage.BatchSize,
	}

	initMetrics(
		pickString(set, "metrics-backend", metricsBackendFlg, prof.Metrics.Backend),
		pickString(set, "pushgateway-url", pushGatewayURLFlg, prof.Metrics.PushgatewayURL),
		*verbose,
	)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	ctx := context.Background()
	args := flag.Args()

	if outDir != "" {
		if len(args) == 0 {
			fatalf("multi-input mode: at least one input file is required")
		}
		if err := convertMany(ctx, r, args, outDir); err != nil {
			fatalf("%v", err)
		}
		return
	}

	if len(args) > 2 {
		fatalf("too many arguments; use -out-dir for multi-input mode")
	}
	input, output := "-", "-"
	if len(args) >= 1 {
		input = args[0]
	}
	if len(args) == 2 {
		output = args[1]
	}
	if err := convertOne(ctx, r, input, output); err != nil {
		fatalf("%v", err)
	}
}

func pickBool(set map[string]bool, name string, flagVal, profVal bool) bool {
	if set[name] {
		return flagVal
	}
	return flagVal || profVal
}

func pickInt(set map[string]bool, name string, flagVal, profVal int) int {
	if set[name] || profVal == 0 {
		return flagVal
	}
	return profVal
}

func pickString(set map[string]bool, name string, flagVal, profVal string) string {
	if set[name] || profVal == "" {
		return flagVal
	}
	return profVal
}

// convertOne runs the full pipeline for a single input. "-" means stdin or
// stdout. The document is marshalled fully in memory before any output is
// written, so a failed run never leaves partial primary output behind.
func convertOne(ctx context.Context, r run, input, output string) error {
	data, err := readInput(input)
	if err != nil {
		return err
	}

	start := time.Now()
	doc := convert.Run(data, r.convOpt)
	metrics.RecordStage(r.job, "convert", nil, time.Since(start))
	metrics.RecordRecords(r.job, "parsed", int64(len(doc.Records)+len(doc.Rows)))

	start = time.Now()
	out, err := emit.Marshal(doc, r.emitOpt)
	metrics.RecordStage(r.job, "emit", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	out = append(out, '\n')

	if output == "-" {
		if _, err := os.Stdout.Write(out); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
	} else if err := os.WriteFile(output, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	metrics.RecordRecords(r.job, "emitted", int64(len(doc.Records)+len(doc.Rows)))
	metrics.RecordFiles(r.job, 1)

	if r.loadDSN != "" {
		if err := loadDocument(ctx, r, doc); err != nil {
			return err
		}
	}
	return nil
}

// convertMany converts every input concurrently, writing <out-dir>/<base>.json
// for each. Each file runs its own single-threaded pipeline; concurrency is
// across files only.
func convertMany(ctx context.Context, r run, inputs []string, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, input := range inputs {
		input := input
		g.Go(func() error {
			output := filepath.Join(outDir, jsonName(input))
			if err := convertOne(ctx, r, input, output); err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			if r.convOpt.Verbose {
				log.Printf("converted %s -> %s", input, output)
			}
			return nil
		})
	}
	return g.Wait()
}

// loadDocument writes the converted document into the configured database,
// creating the destination table when it does not exist yet.
func loadDocument(ctx context.Context, r run, doc records.Document) error {
	cfg := storage.Config{
		DSN:     r.loadDSN,
		Table:   r.table,
		Columns: storage.LoadColumns(doc),
		Types:   typeconv.InferColumnTypes(doc.Records, doc.Columns),
	}

	start := time.Now()
	repo, err := storage.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()

	if err := storage.EnsureTable(ctx, repo, cfg); err != nil {
		return fmt.Errorf("ensure table: %w", err)
	}
	n, err := storage.LoadDocument(ctx, repo, doc, r.batchSize)
	metrics.RecordStage(r.job, "load", err, time.Since(start))
	metrics.RecordRecords(r.job, "loaded", n)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	log.Printf("loaded %d records into %s", n, r.table)
	return nil
}

// initMetrics decides the metrics backend: flag -> profile -> env -> default none.
func initMetrics(backendName, gwURL string, verbose bool) {
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "pushgateway":
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend("csv2json", gwURL)
		if err != nil {
			log.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
			return
		}
		if verbose {
			log.Printf("metrics: backend=%s url=%s", backendName, gwURL)
		}
		metrics.SetBackend(b)

	case "", "none":
		// metrics disabled; nop backend remains

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}

// readInput reads a whole input file; "-" reads stdin.
func readInput(name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// jsonName maps an input path to its output file name: base name with the
// extension replaced by .json.
func jsonName(input string) string {
	base := filepath.Base(input)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".json"
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
