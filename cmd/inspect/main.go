// Command inspect fetches the datasets, prints the reshaped frames the charts
// are drawn from, and checks them. No images are rendered.
//
// Usage:
//
//	go run ./cmd/inspect -week 2023-37
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/couchcryptid/tidyviz/internal/adapter/fetch"
	"github.com/couchcryptid/tidyviz/internal/config"
	"github.com/couchcryptid/tidyviz/internal/dataset"
	"github.com/couchcryptid/tidyviz/internal/domain"
	"github.com/couchcryptid/tidyviz/internal/observability"
	"github.com/couchcryptid/tidyviz/internal/pipeline"
)

func main() {
	week := flag.String("week", "all", "week to inspect: 2023-33, 2023-37 or all")
	flag.Parse()

	switch *week {
	case "all", pipeline.SpamWeek, pipeline.SleepWeek:
	default:
		fmt.Fprintf(os.Stderr, "unknown week %q\n", *week)
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*week))
}

func run(week string) int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := fetch.NewClient(cfg.HTTPTimeout, observability.NewMetricsForTesting(), logger)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
	defer cancel()

	var phases []*phase
	if week == "all" || week == pipeline.SpamWeek {
		p, err := inspectSpam(ctx, fetcher, cfg.SpamDataURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %s: %v\n", pipeline.SpamWeek, err)
			return 1
		}
		phases = append(phases, p...)
	}
	if week == "all" || week == pipeline.SleepWeek {
		p, err := inspectSleep(ctx, fetcher, cfg.SleepDataURL, cfg.RegionsDataURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %s: %v\n", pipeline.SleepWeek, err)
			return 1
		}
		phases = append(phases, p...)
	}

	return report(phases)
}

func inspectSpam(ctx context.Context, f fetch.Fetcher, url string) ([]*phase, error) {
	body, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	df, err := dataset.LoadSpam(body)
	if err != nil {
		return nil, err
	}
	presence, err := dataset.SymbolPresence(df)
	if err != nil {
		return nil, err
	}

	color.Yellow("\nPresence of symbols/words (percent of e-mails)")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Feature", "Spam", "Not spam"})
	for i, label := range presence.Labels {
		table.Append([]string{label, pct(presence.Spam[i]), pct(presence.Ham[i])})
	}
	table.Render()

	color.Yellow("\nNumber of characters (below %d)", domain.CharacterLimit)
	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Class", "N", "Min", "Q1", "Median", "Q3", "Max", "Outliers"})
	for _, c := range []struct{ name, class string }{
		{"Not spam", domain.ClassHam},
		{"Spam", domain.ClassSpam},
	} {
		counts, err := dataset.CharacterCounts(df, c.class)
		if err != nil {
			return nil, err
		}
		s, err := domain.Summarize(counts)
		if err != nil {
			return nil, err
		}
		table.Append([]string{
			c.name, strconv.Itoa(s.N), num(s.Min), num(s.Q1), num(s.Median),
			num(s.Q3), num(s.Max), strconv.Itoa(len(s.Outliers)),
		})
	}
	table.Render()

	return []*phase{checkPresence(presence)}, nil
}

func inspectSleep(ctx context.Context, f fetch.Fetcher, countriesURL, regionsURL string) ([]*phase, error) {
	countriesCSV, err := f.Fetch(ctx, countriesURL)
	if err != nil {
		return nil, err
	}
	regionsCSV, err := f.Fetch(ctx, regionsURL)
	if err != nil {
		return nil, err
	}
	countries, err := dataset.LoadCountries(countriesCSV)
	if err != nil {
		return nil, err
	}
	regions, err := dataset.LoadRegions(regionsCSV)
	if err != nil {
		return nil, err
	}
	rows, err := dataset.SleepByCountry(countries, regions)
	if err != nil {
		return nil, err
	}

	color.Yellow("\nSleep and bed rest per country")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ISO3", "Flag", "Country", "Region", "Hours"})
	for _, r := range rows {
		table.Append([]string{r.ISO3, r.ISO2, r.Name, r.Region, domain.FormatHours(r.Hours)})
	}
	table.Render()

	return []*phase{checkSleep(rows)}, nil
}

func report(phases []*phase) int {
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := color.GreenString("PASS")
		if !p.passed() {
			status = color.RedString("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		color.Green("\nAll checks passed.")
		return 0
	}
	color.Red("\nChecks FAILED.")
	return 1
}

func pct(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func num(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }
