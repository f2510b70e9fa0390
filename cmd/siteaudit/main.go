package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/audit"
	"github.com/fwojciec/siteaudit/classify"
	"github.com/fwojciec/siteaudit/crawl"
	saexcel "github.com/fwojciec/siteaudit/excelize"
	"github.com/fwojciec/siteaudit/fs"
	"github.com/fwojciec/siteaudit/gocache"
	"github.com/fwojciec/siteaudit/goquery"
	"github.com/fwojciec/siteaudit/htmltomarkdown"
	sahttp "github.com/fwojciec/siteaudit/http"
	"github.com/fwojciec/siteaudit/pipeline"
	saprom "github.com/fwojciec/siteaudit/prometheus"
	"github.com/fwojciec/siteaudit/readability"
	"github.com/fwojciec/siteaudit/rod"
	saslog "github.com/fwojciec/siteaudit/slog"
	"github.com/fwojciec/siteaudit/sqlite"
	"github.com/fwojciec/siteaudit/trafilatura"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Overrides the configured path when set.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing. Audits is wired from configuration
	// when nil.
	Audits    siteaudit.AuditService
	Overrides siteaudit.OverrideService

	closers []func() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i]())
	}
	m.closers = nil
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
		m.DB = nil
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("siteaudit"),
		kong.Description("Crawl a local business website and audit its local SEO."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'siteaudit --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := LoadConfig(cli.Config)
	if err != nil {
		return err
	}
	isAudit := strings.HasPrefix(kongCtx.Command(), "audit")
	if isAudit {
		cli.Audit.apply(cfg)
	}
	deps.Config = cfg
	deps.Logger = newLogger(stderr, cli.Verbose)

	dbPath := m.dbPath(cfg)
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set %s_DB to use a different database path\n", EnvPrefix)
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	deps.Overrides = m.Overrides
	if deps.Overrides == nil {
		deps.Overrides = sqlite.NewOverrideService(m.DB)
	}

	if isAudit {
		deps.Audits = m.Audits
		if deps.Audits == nil {
			deps.Audits = m.wireAudits(cfg, deps.Logger)
		}
		deps.Writers = reportWriters(cli.Audit.Output)
	}

	return kongCtx.Run(deps)
}

// wireAudits builds the crawl, classify and analyze pipeline from cfg.
func (m *Main) wireAudits(cfg *Config, logger *slog.Logger) siteaudit.AuditService {
	client := sahttp.NewClient(cfg.Timeout, sahttp.DefaultMaxRedirects)
	prober := sahttp.NewProber(client, sahttp.WithProbeUserAgent(cfg.UserAgent))

	opts := []sahttp.Option{
		sahttp.WithClient(client),
		sahttp.WithTimeout(cfg.Timeout),
		sahttp.WithUserAgent(cfg.UserAgent),
		sahttp.WithLinkVerifier(prober),
	}
	if cfg.Render {
		renderer := rod.NewRenderer(rod.WithPoolSize(cfg.RenderPool), rod.WithTimeout(cfg.Timeout))
		m.closers = append(m.closers, renderer.Close)
		opts = append(opts, sahttp.WithRenderer(saslog.NewLoggingRenderer(renderer, logger), goquery.NewJSDetector()))
	}

	var fetcher siteaudit.PageFetcher = saslog.NewLoggingPageFetcher(
		sahttp.NewFetcher(goquery.NewExtractor(), opts...), logger)

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		fetcher = saprom.NewPageFetcher(fetcher, reg)
		m.serveMetrics(cfg.MetricsAddr, reg, logger)
	}

	sitemaps := saslog.NewLoggingSitemapService(
		sahttp.NewSitemapService(client, sahttp.WithSitemapLogger(logger)), logger)

	crawler := &crawl.Crawler{
		Fetcher:    fetcher,
		Sitemaps:   sitemaps,
		Prober:     prober,
		Limiter:    crawl.NewDomainLimiter(cfg.RateLimit),
		NewCache:   func() siteaudit.SessionCache { return gocache.NewSessionCache(0) },
		MaxPages:   cfg.MaxPages,
		BatchSize:  cfg.BatchSize,
		BatchDelay: cfg.BatchDelay,
	}

	fp := &audit.Fingerprinter{
		Extractor: trafilatura.NewExtractor(),
		Fallback:  readability.NewExtractor(),
		Converter: htmltomarkdown.NewConverter(),
	}

	svc := &pipeline.Service{
		Crawler:    crawler,
		Classifier: classify.NewClassifier(),
		Baseline:   audit.NewBaseline(),
		Enhanced:   audit.NewEnhanced(fp),
	}
	return saslog.NewLoggingAuditService(svc, logger)
}

// serveMetrics exposes reg on addr until Close is called.
func (m *Main) serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "addr", addr, "err", err)
		}
	}()

	m.closers = append(m.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	})
}

func (m *Main) dbPath(cfg *Config) string {
	if m.DBPath != "" {
		return m.DBPath
	}
	if cfg.DB != "" {
		return cfg.DB
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "siteaudit.db"
	}
	dir := filepath.Join(home, ".siteaudit")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "siteaudit.db")
}

// newLogger logs to stderr. Per-page logs are shown only when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// reportWriters picks a writer per output path by extension. Directories
// and anything other than .xlsx get JSON.
func reportWriters(paths []string) []siteaudit.ReportWriter {
	var writers []siteaudit.ReportWriter
	for _, p := range paths {
		if strings.EqualFold(filepath.Ext(p), ".xlsx") {
			writers = append(writers, saexcel.NewReportWriter(p))
			continue
		}
		writers = append(writers, fs.NewReportWriter(p))
	}
	return writers
}

// apply overrides cfg with the flags that were set.
func (c *AuditCmd) apply(cfg *Config) {
	if c.MaxPages > 0 {
		cfg.MaxPages = c.MaxPages
	}
	if c.BatchSize > 0 {
		cfg.BatchSize = c.BatchSize
	}
	if c.Timeout > 0 {
		cfg.Timeout = c.Timeout
	}
	if c.Render {
		cfg.Render = true
	}
	if c.MetricsAddr != "" {
		cfg.MetricsAddr = c.MetricsAddr
	}
}
