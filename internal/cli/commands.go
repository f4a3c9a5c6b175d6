package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/ndewijer/portfolio-tracker/internal/accounting"
	"github.com/ndewijer/portfolio-tracker/internal/chart"
	"github.com/ndewijer/portfolio-tracker/internal/logging"
	"github.com/ndewijer/portfolio-tracker/internal/model"
)

// Env carries what every subcommand shares.
type Env struct {
	Currency string // default reporting currency, overridable with -c
	Out      io.Writer
	Logger   *logging.Logger
	Now      func() time.Time
}

// Register adds the portfolioctl subcommands to c.
func Register(c *subcommands.Commander, env *Env) {
	c.Register(&summaryCmd{env: env}, "reports")
	c.Register(&evolutionCmd{env: env}, "reports")
	c.Register(&chartCmd{env: env}, "reports")
}

// source holds the flags shared by commands that read a contributions file.
type source struct {
	file     string
	currency string
}

func (s *source) setFlags(f *flag.FlagSet, env *Env) {
	f.StringVar(&s.file, "f", "-", "Contributions CSV file, - for stdin")
	f.StringVar(&s.currency, "c", env.Currency, "Reporting currency (ISO 4217) used to format amounts")
}

func (s *source) load() ([]model.Contribution, error) {
	if s.file == "-" {
		return ReadContributions(os.Stdin)
	}
	f, err := os.Open(s.file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadContributions(f)
}

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	env    *Env
	src    source
	pretty bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display open holdings and portfolio totals" }
func (*summaryCmd) Usage() string {
	return `portfolioctl summary [-f <file>] [-c <currency>] [-pretty]

  Matches sells against buys in FIFO order and prints the open holdings,
  realized and unrealized profit and the portfolio totals.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	c.src.setFlags(f, c.env)
	f.BoolVar(&c.pretty, "pretty", false, "Render the markdown output for the terminal")
}

func (c *summaryCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	contributions, err := c.src.load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading contributions: %v\n", err)
		return subcommands.ExitFailure
	}

	summary, err := accounting.SummarizePortfolio(contributions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, w := range summary.Warnings {
		c.env.Logger.Warn().
			Str("asset", w.AssetKey.String()).
			Time("date", w.Date).
			Str("unmatched_quantity", w.UnmatchedQuantity.String()).
			Msg("sell exceeds open lots")
	}

	if err := printMarkdown(c.env.Out, SummaryMarkdown(summary, c.src.currency), c.pretty); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering output: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// rangeFlags holds the date range flags of the evolution and chart subcommands.
type rangeFlags struct {
	start string
	end   string
	asOf  string
}

func (r *rangeFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&r.start, "start", "", "Start of the range (YYYY-MM-DD or RFC3339), defaults to the first contribution")
	f.StringVar(&r.end, "end", "", "End of the range (YYYY-MM-DD or RFC3339), defaults to now")
	f.StringVar(&r.asOf, "as-of", "", "Instant treated as now (YYYY-MM-DD or RFC3339), defaults to the current time")
}

// build parses the range and reconstructs the evolution series.
func (r *rangeFlags) build(contributions []model.Contribution, now func() time.Time) (*accounting.EvolutionSeries, error) {
	start, err := parseDate(r.start)
	if err != nil {
		return nil, fmt.Errorf("-start: %w", err)
	}
	end, err := parseDate(r.end)
	if err != nil {
		return nil, fmt.Errorf("-end: %w", err)
	}
	asOf, err := parseDate(r.asOf)
	if err != nil {
		return nil, fmt.Errorf("-as-of: %w", err)
	}
	if asOf.IsZero() {
		asOf = now().UTC()
	}
	return accounting.BuildEvolutionSeries(contributions, start, end, asOf)
}

// evolutionCmd holds the flags for the 'evolution' subcommand.
type evolutionCmd struct {
	env    *Env
	src    source
	rng    rangeFlags
	pretty bool
}

func (*evolutionCmd) Name() string     { return "evolution" }
func (*evolutionCmd) Synopsis() string { return "display invested cost and market value over time" }
func (*evolutionCmd) Usage() string {
	return `portfolioctl evolution [-f <file>] [-start <date>] [-end <date>] [-as-of <date>] [-pretty]

  Reconstructs the portfolio on a time grid: every 2 hours for ranges of
  a day or less, daily otherwise.
`
}

func (c *evolutionCmd) SetFlags(f *flag.FlagSet) {
	c.src.setFlags(f, c.env)
	c.rng.setFlags(f)
	f.BoolVar(&c.pretty, "pretty", false, "Render the markdown output for the terminal")
}

func (c *evolutionCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	contributions, err := c.src.load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading contributions: %v\n", err)
		return subcommands.ExitFailure
	}

	series, err := c.rng.build(contributions, c.env.Now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := printMarkdown(c.env.Out, EvolutionMarkdown(series, c.src.currency), c.pretty); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering output: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// chartCmd holds the flags for the 'chart' subcommand.
type chartCmd struct {
	env    *Env
	src    source
	rng    rangeFlags
	output string
	title  string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "render the evolution series as a PNG chart" }
func (*chartCmd) Usage() string {
	return `portfolioctl chart [-f <file>] [-start <date>] [-end <date>] [-o <file.png>]

  Writes a line chart of market value and invested cost.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	c.src.setFlags(f, c.env)
	c.rng.setFlags(f)
	f.StringVar(&c.output, "o", "evolution.png", "Output PNG file")
	f.StringVar(&c.title, "title", "Portfolio Evolution", "Chart title")
}

func (c *chartCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	contributions, err := c.src.load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading contributions: %v\n", err)
		return subcommands.ExitFailure
	}

	series, err := c.rng.build(contributions, c.env.Now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	opts := chart.DefaultOptions(c.src.currency)
	opts.Title = c.title
	png, err := chart.RenderEvolution(series, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering chart: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := os.WriteFile(c.output, png, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(c.env.Out, "Wrote %s (%d points)\n", c.output, len(series.Points))
	return subcommands.ExitSuccess
}

// printMarkdown writes md to w, rendered for the terminal when pretty is set.
func printMarkdown(w io.Writer, md string, pretty bool) error {
	if !pretty {
		_, err := io.WriteString(w, md)
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
