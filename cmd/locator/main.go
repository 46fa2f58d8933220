package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/locator"
	"github.com/fwojciec/locator/crawl"
	"github.com/fwojciec/locator/fs"
	"github.com/fwojciec/locator/goquery"
	lochttp "github.com/fwojciec/locator/http"
	"github.com/fwojciec/locator/rod"
	locslog "github.com/fwojciec/locator/slog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stdin is read for the "-" source.
	Stdin io.Reader
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Stdin: os.Stdin}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("locator"),
		kong.Description("List candidate element locators found in HTML pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no sources provided")
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	if cli.Format == "sqlite" && cli.Output == "" {
		return fmt.Errorf("--output is required for the sqlite format")
	}
	if cli.MaxPages < 0 {
		return fmt.Errorf("--max-pages must not be negative")
	}
	if cli.RenderDelay < 0 {
		return fmt.Errorf("--render-delay must not be negative")
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	sources := &SourceFetcher{Files: locslog.NewLoggingFetcher(&fs.Fetcher{Stdin: m.Stdin}, logger)}
	if hasWebSource(cli.Sources) {
		web, err := newWebFetcher(cli)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		sources.Web = locslog.NewLoggingFetcher(web, logger)
	}
	defer sources.Close()

	deps.Scraper = &crawl.Scraper{
		Fetcher:     sources,
		Parser:      locslog.NewLoggingParser(goquery.NewParser(), logger),
		RateLimiter: crawl.NewDomainLimiter(cli.Rate),
		Concurrency: cli.Concurrency,
		RetryDelays: retryDelays(cli.Retries),
		Logger: func(format string, args ...any) {
			logger.Info(fmt.Sprintf(format, args...))
		},
	}

	return cli.Run(deps)
}

func newWebFetcher(cli *CLI) (locator.Fetcher, error) {
	if cli.Render {
		return rod.NewFetcher(rodOptions(cli)...)
	}
	return lochttp.NewFetcher(lochttp.WithTimeout(cli.Timeout)), nil
}

// rodOptions maps the rendering flags onto browser fetcher options.
func rodOptions(cli *CLI) []rod.Option {
	return []rod.Option{
		rod.WithFetchTimeout(cli.Timeout),
		rod.WithRenderDelay(cli.RenderDelay),
		rod.WithBrowserMaxPages(cli.MaxPages),
		rod.WithStealth(cli.Stealth),
	}
}

// retryDelays returns n backoff delays doubling from one second.
func retryDelays(n int) []time.Duration {
	delays := make([]time.Duration, 0, max(n, 0))
	d := time.Second
	for range n {
		delays = append(delays, d)
		d *= 2
	}
	return delays
}
