package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/anrid/vaccination-stats/pkg/config"
	"github.com/anrid/vaccination-stats/pkg/report"
	"github.com/anrid/vaccination-stats/pkg/stats"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	entity := flag.String("entity", "Global,", "entity to select, as 'Country,CODE' or 'Global,'")
	export := flag.String("xlsx", "", "also export the report to this .xlsx file")
	dump := flag.Bool("dump", false, "dump the selection and its headline stats with spew")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(cfg.NewLogger())

	db, found, err := stats.LoadIfExists(cfg.Database)
	if err != nil {
		log.Panic(err)
	}
	if !found {
		log.Panic("No database found, run the create command in `cmd/create` first.")
	}

	db.Info()

	records, err := db.Records()
	if err != nil {
		log.Panic(err)
	}
	population, err := db.PopulationTable()
	if err != nil {
		log.Panic(err)
	}

	opts := report.DefaultOptions()
	opts.Rank.PinLabel = cfg.PinLabel
	opts.Rank.TopN = cfg.TopN
	opts.Rank.Threshold = cfg.HerdImmunity
	opts.Rank.Workers = cfg.Workers
	opts.GlobalPopulation = cfg.GlobalPopulation
	opts.Excluded = cfg.ExcludedCountries
	opts.PopulationTimeout = cfg.PopulationTimeout

	ctx := context.Background()
	engine := report.New(stats.NewDataset(records), population, opts)

	session, err := engine.NewSession(ctx)
	if err != nil {
		log.Panic(err)
	}
	if err := session.Select(ctx, report.ParseEntity(*entity)); err != nil {
		log.Panic(err)
	}

	// New locale number printer.
	p := message.NewPrinter(language.English)

	rankings := []struct {
		title string
		rank  func(context.Context) ([]stats.RankedEntry, []stats.ColorTag, error)
	}{
		{"Percentage of Population Vaccinated", engine.PercentRankings},
		{"Total number of Vaccinations", engine.TotalRankings},
		{"Total number of Vaccinations (Past Week)", engine.PastWeekRankings},
	}

	for _, r := range rankings {
		entries, colors, err := r.rank(ctx)
		if err != nil {
			log.Panic(err)
		}

		p.Printf("\n\n%s:\n\n", r.title)

		// Highest first, the way the bars stack up.
		for i := len(entries) - 1; i >= 0; i-- {
			p.Printf("%-25s  --  %15.f  (%s)\n", entries[i].Label, entries[i].Value, colors[i])
		}
	}

	headline, err := session.HeadlineStats()
	if err != nil {
		log.Panic(err)
	}

	p.Printf("\n\n%s:\n\n", session.Current().Country)
	p.Printf("Latest Update           : %s\n", headline.LatestDate)
	p.Printf("Vaccinated              : %s\n", headline.Vaccinated)
	p.Printf("Herd Immunity Threshold : %s\n", headline.Threshold)
	p.Printf("Vaccinated Today        : %s\n", headline.Today)

	p.Println("\nDaily Vaccinations Past 7 Days:")
	for _, v := range session.SparklineWindow() {
		if math.IsNaN(v) {
			p.Println("  -")
			continue
		}
		p.Printf("  %.f\n", v)
	}

	p.Println("\nVaccination Progress:")
	percents, dates := session.CumulativePercentSeries()
	for i := range percents {
		p.Printf("  %s  %6.2f%%\n", dates[i].Format(stats.DateLayout), percents[i])
	}

	if *dump {
		spew.Dump(session.Current(), session.Population(), headline)
	}

	if *export != "" {
		f, err := os.Create(*export)
		if err != nil {
			log.Panic(err)
		}
		defer f.Close()

		if err := report.ExportWorkbook(ctx, engine, session, f); err != nil {
			log.Panic(err)
		}
		p.Printf("\nExported report to %s\n", *export)
	}
}
