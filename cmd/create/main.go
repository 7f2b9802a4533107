package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"strings"

	"github.com/anrid/vaccination-stats/pkg/config"
	"github.com/anrid/vaccination-stats/pkg/stats"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	force := flag.Bool("force", false, "download again even if a database exists")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	db, found, err := stats.LoadIfExists(cfg.Database)
	if err != nil {
		log.Panic(err)
	}

	if !found || *force {
		var store *stats.ObjectStore
		if strings.HasPrefix(cfg.Dataset, "s3://") || strings.HasPrefix(cfg.Population, "s3://") {
			store, err = stats.NewObjectStore(stats.ObjectStoreConfig{
				Endpoint:  cfg.S3.Endpoint,
				AccessKey: cfg.S3.AccessKey,
				SecretKey: cfg.S3.SecretKey,
				Secure:    cfg.S3.Secure,
			})
			if err != nil {
				log.Panic(err)
			}
		}

		db = stats.NewDatabase(cfg.Dataset, cfg.Population)
		if err := db.Download(context.Background(), stats.NewFetcher(store, logger)); err != nil {
			log.Panic(err)
		}

		// Fail early on a snapshot the show command could not read.
		records, err := db.Records()
		if err != nil {
			log.Panic(err)
		}
		if _, err := db.PopulationTable(); err != nil {
			log.Panic(err)
		}
		logger.Info("dataset parsed", "records", len(records))

		if err := db.Save(cfg.Database); err != nil {
			log.Panic(err)
		}
	}

	db.Info()
}
