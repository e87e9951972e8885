package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/subcommands"

	"trading-experiment/internal/app"
	"trading-experiment/internal/config"
	"trading-experiment/internal/data"
	"trading-experiment/internal/logging"
	"trading-experiment/internal/model"
	"trading-experiment/internal/report"
	"trading-experiment/internal/valuation"
)

var commands = []subcommands.Command{
	&valueCmd{},
	&quotesCmd{},
	&tradesCmd{},
	&exportCmd{},
	&migrateCmd{},
}

// loadApp builds the components for one command. Logs go to stderr so
// command output stays clean.
func loadApp(ctx context.Context, static bool) (*app.App, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	if static {
		cfg.Backend.Endpoint = ""
	}
	logger := logging.New(os.Stderr, cfg.Log.Level)
	return app.Build(ctx, cfg, logger)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}

// snapshot returns a freshly collected, evaluated state. With offline set
// the quote endpoint is not called either.
func snapshot(ctx context.Context, a *app.App, offline bool) (*model.Snapshot, valuation.Report) {
	var snap *model.Snapshot
	if offline {
		snap = data.NewCollector(nil, a.Static, slog.New(slog.NewTextHandler(io.Discard, nil))).Collect(ctx)
	} else {
		snap = a.Collector.Collect(ctx)
	}
	return snap, valuation.EvaluateSnapshot(snap, a.Dashboard.Baseline())
}

type valueCmd struct {
	offline bool
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "print both portfolios, their returns and the gap" }
func (*valueCmd) Usage() string {
	return `cli value [-offline]

  Collects a snapshot (backend, quotes, fallback) and prints totals,
  returns and ranked positions for every trader.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.offline, "offline", false, "Use only the fallback snapshot; no backend or quote requests.")
}

func (c *valueCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadApp(ctx, c.offline)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	snap, r := snapshot(ctx, a, c.offline)
	updated := snap.FetchedAt
	if c.offline {
		updated = a.Static.UpdatedAt()
	}
	report.WriteDashboard(os.Stdout, r, snap.Status, updated.Local())
	return subcommands.ExitSuccess
}

type quotesCmd struct{}

func (*quotesCmd) Name() string     { return "quotes" }
func (*quotesCmd) Synopsis() string { return "fetch current prices and print them as JSON" }
func (*quotesCmd) Usage() string {
	return `cli quotes

  Fetches every configured ticker from the quote endpoint and prints the
  result, manual prices included.
`
}

func (*quotesCmd) SetFlags(*flag.FlagSet) {}

func (*quotesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadApp(ctx, true)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	res, err := a.Quotes.FetchPrices(ctx)
	if err != nil {
		return fail(err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type tradesCmd struct {
	trader  string
	offline bool
}

func (*tradesCmd) Name() string     { return "trades" }
func (*tradesCmd) Synopsis() string { return "print the trade log, newest first" }
func (*tradesCmd) Usage() string {
	return `cli trades [-trader <name>] [-offline]

  Prints every trade with its value, commission, net amount and rationale,
  followed by the number of trades per trader.
`
}

func (c *tradesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.trader, "trader", "", "Only show trades of this trader ("+traderNames()+").")
	f.BoolVar(&c.offline, "offline", false, "Use only the fallback snapshot.")
}

func (c *tradesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	trader := model.Trader(strings.ToLower(c.trader))
	if trader != "" && !model.KnownTrader(trader) {
		return fail(fmt.Errorf("unknown trader %q, want one of %s", c.trader, traderNames()))
	}

	a, err := loadApp(ctx, c.offline)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	trades, err := a.Static.Trades(ctx)
	if err != nil {
		return fail(err)
	}
	if a.Store != nil {
		live, err := a.Store.LoadTrades(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "warning: using fallback trades:", err)
		} else {
			trades = live
		}
	}
	report.WriteTradeLog(os.Stdout, trades, trader)
	return subcommands.ExitSuccess
}

type exportCmd struct {
	out      string
	snapshot string
	offline  bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write ranked positions as CSV" }
func (*exportCmd) Usage() string {
	return `cli export [-out <file.csv>] [-snapshot <file.json>] [-offline]

  Writes every trader's ranked positions to a CSV file. With -snapshot the
  collected snapshot is also saved in the fallback file format.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "out", "results/positions.csv", "Output CSV path.")
	f.StringVar(&c.snapshot, "snapshot", "", "Also save the snapshot as JSON to this path.")
	f.BoolVar(&c.offline, "offline", false, "Use only the fallback snapshot.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadApp(ctx, c.offline)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	snap, r := snapshot(ctx, a, c.offline)
	if err := report.WritePositionsCSV(c.out, r); err != nil {
		return fail(err)
	}
	rows := 0
	for _, tr := range r.Traders {
		rows += len(tr.Positions)
	}
	fmt.Printf("Wrote %d rows to %s\n", rows, c.out)

	if c.snapshot != "" {
		if err := data.SaveSnapshot(snap, c.snapshot); err != nil {
			return fail(err)
		}
		fmt.Printf("Saved snapshot to %s\n", c.snapshot)
	}
	return subcommands.ExitSuccess
}

type migrateCmd struct {
	timeout time.Duration
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "create the backend tables" }
func (*migrateCmd) Usage() string {
	return `cli migrate [-timeout 30s]

  Creates the positions, trades and price_history tables in the configured
  backend if they do not exist.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.timeout, "timeout", 30*time.Second, "Time allowed for the migration.")
}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadApp(ctx, false)
	if err != nil {
		return fail(err)
	}
	defer a.Close()
	if a.Store == nil {
		return fail(errors.New("no reachable backend; set BACKEND_ENDPOINT"))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := a.Store.Migrate(ctx); err != nil {
		return fail(err)
	}
	fmt.Println("Schema applied")
	return subcommands.ExitSuccess
}

func traderNames() string {
	names := make([]string, 0, len(model.Traders))
	for _, t := range model.Traders {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
