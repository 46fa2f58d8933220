package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/locator"
	"github.com/fwojciec/locator/crawl"
	"github.com/fwojciec/locator/etree"
	"github.com/fwojciec/locator/fs"
	"github.com/fwojciec/locator/sqlite"
	"github.com/fwojciec/locator/yaml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Scraper *crawl.Scraper
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Sources     []string      `arg:"" help:"Pages to scan: http(s) URLs, HTML file paths, or - for stdin"`
	Format      string        `short:"f" default:"table" enum:"table,json,csv,xml,yaml,sqlite" help:"Output format (table, json, csv, xml, yaml, sqlite)"`
	Output      string        `short:"o" type:"path" help:"Write to this file instead of stdout (required for sqlite)"`
	Render      bool          `short:"r" help:"Render pages in headless Chrome before scanning"`
	Stealth     bool          `help:"Hide headless browser fingerprints when rendering"`
	RenderDelay time.Duration `name:"render-delay" help:"Extra wait after page load when rendering, for late scripts"`
	MaxPages    int64         `name:"max-pages" default:"75" help:"Pages one browser serves before it is restarted (0 never restarts)"`
	Timeout     time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	Concurrency int           `short:"c" default:"3" help:"Pages scanned at once"`
	Retries     int           `default:"3" help:"Fetch retry attempts"`
	Rate        float64       `default:"1.0" help:"Requests per second per domain"`
	Quiet       bool          `short:"q" help:"Hide the progress bar"`
	Verbose     bool          `short:"v" help:"Log fetches and parses to stderr"`
}

// formats maps output format names to their writers.
var formats = map[string]locator.FormatFunc{
	"table": locator.FormatTable,
	"json":  locator.FormatJSON,
	"csv":   locator.FormatCSV,
	"xml":   etree.FormatXML,
	"yaml":  yaml.FormatYAML,
}

// Run scans every source and writes the locators found.
func (c *CLI) Run(deps *Dependencies) error {
	var progress crawl.ProgressFunc
	var bar *ProgressBar
	if !c.Quiet {
		bar = NewProgressBar(deps.Stderr)
		progress = bar.Update
	}

	results, err := deps.Scraper.ScrapeAll(deps.Ctx, c.Sources, progress)
	if bar != nil {
		bar.Clear()
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", r.Source, locator.ErrorMessage(r.Err))
			continue
		}
		if err := r.Locators.Err(); err != nil {
			fmt.Fprintf(deps.Stderr, "warning: %s: %s\n", r.Source, locator.ErrorMessage(err))
		}
		for _, skipped := range r.Locators.Skipped {
			deps.Logger.Debug("skipped element", "source", r.Source, "err", skipped)
		}
	}
	if failed == len(results) {
		if failed == 1 {
			return results[0].Err
		}
		return fmt.Errorf("all %d sources failed", failed)
	}

	if c.Format == "sqlite" {
		return c.save(deps, results)
	}
	return c.write(deps, results)
}

// write formats results to stdout or, atomically, to the output file.
func (c *CLI) write(deps *Dependencies, results []*locator.Result) error {
	format := formats[c.Format]
	if c.Output == "" {
		return format(deps.Stdout, results)
	}

	f, err := fs.CreateAtomic(c.Output)
	if err != nil {
		return err
	}
	if err := format(f, results); err != nil {
		_ = f.Abort()
		return err
	}
	return f.Commit()
}

// save stores each successful result as a run in the output database and
// prints the run IDs.
func (c *CLI) save(deps *Dependencies, results []*locator.Result) error {
	db := sqlite.NewDB(c.Output)
	if err := db.Open(); err != nil {
		return err
	}
	defer db.Close()

	runs := sqlite.NewRunService(db)
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		run, err := runs.Save(deps.Ctx, r.Source, r.Locators)
		if err != nil {
			return fmt.Errorf("saving %s: %w", r.Source, err)
		}
		fmt.Fprintf(deps.Stdout, "%s\t%s\t%d\n", run.ID, run.Source, run.Records)
	}
	return nil
}
