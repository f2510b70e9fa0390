package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/siteaudit"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Config    *Config
	Audits    siteaudit.AuditService
	Writers   []siteaudit.ReportWriter
	Overrides siteaudit.OverrideService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" type:"path" help:"Configuration file (YAML, TOML or JSON)"`
	Verbose bool   `short:"v" help:"Log every fetch and render"`

	Audit    AuditCmd    `cmd:"" help:"Crawl a site and audit its local SEO"`
	Override OverrideCmd `cmd:"" help:"Manage page priority overrides"`
}

// AuditCmd is the "audit" subcommand.
type AuditCmd struct {
	URL         string        `arg:"" help:"Site URL, e.g. example.com"`
	Enhanced    bool          `short:"e" help:"Run the full factor library"`
	Output      []string      `short:"o" type:"path" help:"Write the report to a .json or .xlsx file, or a directory (repeatable)"`
	ID          string        `name:"id" help:"Audit ID that page overrides refer to (default: new UUID)"`
	MaxPages    int           `help:"Maximum pages to crawl (default 250)"`
	BatchSize   int           `help:"Concurrent fetches per batch (default 5)"`
	Timeout     time.Duration `help:"Per-request timeout (default 45s)"`
	Render      bool          `help:"Render JavaScript-heavy pages in headless Chrome"`
	MetricsAddr string        `help:"Serve Prometheus metrics on this address while the audit runs"`
	Continue    int           `help:"Resume the crawl up to this many times while the page limit is reached (baseline findings)"`
}

// OverrideCmd groups the override subcommands.
type OverrideCmd struct {
	Set    OverrideSetCmd    `cmd:"" help:"Set the priority tier of a page"`
	List   OverrideListCmd   `cmd:"" help:"List the overrides of an audit or a user"`
	Delete OverrideDeleteCmd `cmd:"" help:"Delete an override, or every override of an audit"`
}

// OverrideSetCmd is the "override set" subcommand.
type OverrideSetCmd struct {
	AuditID  string `arg:"" help:"Audit ID"`
	PageURL  string `arg:"" help:"Page URL"`
	Priority string `arg:"" enum:"Tier1,Tier2,Tier3" help:"Priority tier (Tier1, Tier2, Tier3)"`
	User     string `short:"u" help:"User ID (default from config)"`
	Reason   string `short:"r" help:"Reason for the override"`
}

// OverrideListCmd is the "override list" subcommand.
type OverrideListCmd struct {
	Audit string `short:"a" help:"List overrides of this audit"`
	User  string `short:"u" help:"List overrides created by this user"`
}

// OverrideDeleteCmd is the "override delete" subcommand.
type OverrideDeleteCmd struct {
	ID    string `arg:"" optional:"" help:"Override ID"`
	Audit string `short:"a" help:"Delete every override of this audit"`
	Force bool   `help:"Confirm deleting every override of an audit"`
}
