package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Database is a local snapshot of the downloaded sources, so the dataset
// only has to be fetched once.
type Database struct {
	Dataset    *File
	Population *File
	Downloaded time.Time
}

func NewDatabase(datasetURL, populationURL string) *Database {
	return &Database{
		Dataset:    &File{URL: datasetURL, Title: "Vaccinations"},
		Population: &File{URL: populationURL, Title: "Population"},
	}
}

func LoadIfExists(dbFile string) (db *Database, found bool, err error) {
	data, err := os.ReadFile(dbFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}

	db = new(Database)
	if err := json.Unmarshal(data, db); err != nil {
		return nil, false, fmt.Errorf("database '%s': %w", dbFile, err)
	}
	if db.Dataset == nil || db.Population == nil {
		return nil, false, fmt.Errorf("database '%s' is missing sources", dbFile)
	}

	return db, true, nil
}

func (db *Database) Info() {
	fmt.Printf(`
	Downloaded      : %s
	Dataset         : %s (%d bytes)
	Population      : %s (%d bytes)
	`, db.Downloaded.Format(time.RFC3339),
		db.Dataset.URL, len(db.Dataset.ContentBase64),
		db.Population.URL, len(db.Population.ContentBase64))
	fmt.Println("")
}

func (db *Database) Save(dbFile string) error {
	js, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(dbFile, js, 0o644)
}

// Download fetches the content of both sources.
func (db *Database) Download(ctx context.Context, fe *Fetcher) error {
	for _, f := range []*File{db.Dataset, db.Population} {
		if err := f.DownloadContent(ctx, fe); err != nil {
			return err
		}
	}
	db.Downloaded = time.Now()
	return nil
}

// Records parses the snapshot's vaccination dataset.
func (db *Database) Records() ([]Record, error) {
	return LoadRecords(db.Dataset)
}

// PopulationTable parses the snapshot's population table.
func (db *Database) PopulationTable() (StaticPopulation, error) {
	return LoadPopulation(db.Population)
}
