// Command ls-nightplan plans telescope observation nights: twilight
// windows, target rise/set/transit, trajectories and lunar separation
// for a chosen observatory.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-nightplan/internal/config"
	"github.com/litescript/ls-nightplan/internal/ephem"
	"github.com/litescript/ls-nightplan/internal/logging"
	"github.com/litescript/ls-nightplan/internal/night"
	"github.com/litescript/ls-nightplan/internal/report"
	"github.com/litescript/ls-nightplan/internal/ui"
	"github.com/litescript/ls-nightplan/internal/version"
)

// CLI flags for headless mode
var (
	summaryMode bool
	jsonPath    string
	whenMode    bool
	whenNights  int
	listSites   bool
	targetSpecs multiFlag
)

// multiFlag collects repeated -target flags.
type multiFlag []string

func (f *multiFlag) String() string { return strings.Join(*f, ", ") }
func (f *multiFlag) Set(v string) error {
	*f = append(*f, v)
	return nil
}

func main() {
	siteID := flag.String("site", "", "Observatory id (overrides config)")
	date := flag.String("date", "", "UT date of the night (YYYY-MM-DD, default tonight)")
	configPath := flag.String("config", "", "Config file path")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.BoolVar(&summaryMode, "summary", false, "Print text night summary instead of TUI")
	flag.StringVar(&jsonPath, "json", "", "Export night as JSON to file (use - for stdout)")
	flag.BoolVar(&whenMode, "when", false, "Print observability buckets over the coming nights")
	flag.IntVar(&whenNights, "when-nights", 30, "Number of nights for -when")
	flag.BoolVar(&listSites, "list-sites", false, "List known observatory ids and exit")
	flag.Var(&targetSpecs, "target", "Target as 'name,ra,dec' (repeatable; ra hh:mm:ss or degrees)")
	flag.Parse()

	if *showVersion {
		fmt.Println("ls-nightplan " + version.Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if *logLevel == "" {
		*logLevel = cfg.Log.Level
	}
	logger := logging.New(*logLevel, cfg.Log.Format, os.Stderr)

	catalog, err := cfg.Catalog()
	if err != nil {
		fatal(err)
	}
	if listSites {
		for _, id := range catalog.IDs() {
			s, _ := catalog.Lookup(id)
			fmt.Printf("%-12s %s\n", id, s.Name)
		}
		return
	}

	if *siteID == "" {
		*siteID = cfg.Site
	}
	site, err := catalog.Lookup(*siteID)
	if err != nil {
		fatal(err)
	}

	obs, err := night.NewObserver(site, night.Options{
		Logger:        &logger,
		HorizonObsDeg: cfg.HorizonObs,
	})
	if err != nil {
		fatal(err)
	}

	grid := night.GridConfig{
		Pts:      cfg.Pts,
		Margin:   time.Duration(cfg.MarginMin) * time.Minute,
		FullHour: cfg.FullHour,
	}
	dateOpt := night.DateOptions{Grid: grid}
	if *date != "" {
		dateOpt.UT = *date
	}
	if _, err := obs.UpdateDate(dateOpt); err != nil {
		fatal(err)
	}
	logger.Debug().
		Str("site", site.ID).
		Time("localnight", obs.LocalNight).
		Msg("night computed")

	bodies, err := parseTargets(targetSpecs)
	if err != nil {
		fatal(err)
	}
	targets := make([]*night.Trajectory, 0, len(bodies))
	for _, b := range bodies {
		tr, err := obs.Sample(b)
		if err != nil {
			fatal(fmt.Errorf("target %s: %w", b.Name, err))
		}
		targets = append(targets, tr)
	}

	headless := summaryMode || jsonPath != "" || whenMode
	if headless || !term.IsTerminal(int(os.Stdout.Fd())) {
		if err := runHeadless(obs, bodies, targets); err != nil {
			fatal(err)
		}
		return
	}

	p := tea.NewProgram(ui.New(obs, bodies, targets), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fatal(fmt.Errorf("run TUI: %w", err))
	}
}

// runHeadless prints the requested reports without starting the TUI.
func runHeadless(obs *night.Observer, bodies []ephem.Body, targets []*night.Trajectory) error {
	if jsonPath != "" {
		export := report.ExportNight(obs, targets)
		if jsonPath == "-" {
			if err := export.WriteJSON(os.Stdout); err != nil {
				return fmt.Errorf("write JSON to stdout: %w", err)
			}
		} else {
			f, err := os.Create(jsonPath)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			defer f.Close()
			if err := export.WriteJSON(f); err != nil {
				return fmt.Errorf("write JSON to file: %w", err)
			}
		}
	}

	if summaryMode || (jsonPath == "" && !whenMode) {
		report.WriteNightSummary(os.Stdout, obs)
		for _, tr := range targets {
			fmt.Println()
			report.WriteTargetTable(os.Stdout, obs, tr, 24)
		}
	}

	if whenMode {
		if len(bodies) == 0 {
			return fmt.Errorf("-when needs at least one -target")
		}
		from := obs.Date.Truncate(24 * time.Hour)
		for _, b := range bodies {
			stats, err := obs.WhenObs(b, from, from.AddDate(0, 0, whenNights), 1, obs.Grid)
			if err != nil {
				return fmt.Errorf("observability of %s: %w", b.Name, err)
			}
			fmt.Println()
			report.WriteWhenObs(os.Stdout, b.Name, stats)
		}
	}
	return nil
}

// parseTargets maps "name,ra,dec" specs to fixed bodies.
func parseTargets(specs []string) ([]ephem.Body, error) {
	var bodies []ephem.Body
	for _, spec := range specs {
		parts := strings.SplitN(spec, ",", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("target %q: want 'name,ra,dec'", spec)
		}
		b, err := night.NewFixedBody(strings.TrimSpace(parts[0]), parts[1], parts[2])
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
