package stats

import (
	"encoding/base64"
	"testing"
	"time"

	xlsx "github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vaccinationsCSV = []byte(`country,iso_code,date,total_vaccinations,daily_vaccinations,people_fully_vaccinated
Canada,CAN,2021-01-02,1000,,
Canada,CAN,2021-01-01,500,100,10
Canada,CAN,2021-01-03,1300,300,40
Scotland,,2021-01-02,200,50,
Japan,JPN,2021-01-03,20,20,
`)

func csvFile(data []byte) *File {
	return &File{
		URL:           "vaccinations.csv",
		Title:         "Vaccinations",
		ContentBase64: base64.StdEncoding.EncodeToString(data),
	}
}

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(country, code, date string, daily *float64) Record {
	return Record{Country: country, RegionCode: code, Date: day(date), DailyVaccinations: daily}
}

func TestLoadRecordsCSV(t *testing.T) {
	records, err := LoadRecords(csvFile(vaccinationsCSV))
	require.NoError(t, err)
	require.Len(t, records, 5)

	first := records[0]
	assert.Equal(t, "Canada", first.Country)
	assert.Equal(t, "CAN", first.RegionCode)
	assert.Equal(t, day("2021-01-02"), first.Date)
	assert.Nil(t, first.DailyVaccinations, "empty cell is absent, not zero")
	assert.Nil(t, first.PeopleFullyVaccinated)

	second := records[1]
	require.NotNil(t, second.DailyVaccinations)
	assert.Equal(t, 100.0, *second.DailyVaccinations)
	require.NotNil(t, second.PeopleFullyVaccinated)
	assert.Equal(t, 10.0, *second.PeopleFullyVaccinated)

	assert.Equal(t, "", records[3].RegionCode)
}

func TestLoadRecordsErrors(t *testing.T) {
	t.Run("missing column", func(t *testing.T) {
		_, err := LoadRecords(csvFile([]byte("country,date\nCanada,2021-01-01\n")))
		assert.ErrorContains(t, err, "daily_vaccinations")
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := LoadRecords(csvFile([]byte("country,iso_code,date,daily_vaccinations\nCanada,CAN,01/02/2021,5\n")))
		assert.ErrorContains(t, err, "line 2")
	})

	t.Run("bad number", func(t *testing.T) {
		_, err := LoadRecords(csvFile([]byte("country,iso_code,date,daily_vaccinations\nCanada,CAN,2021-01-02,lots\n")))
		assert.ErrorContains(t, err, "lots")
	})

	t.Run("empty", func(t *testing.T) {
		_, err := LoadRecords(csvFile(nil))
		assert.Error(t, err)
	})
}

func TestLoadRecordsXLSX(t *testing.T) {
	wb := xlsx.NewFile()
	rows := [][]interface{}{
		{"country", "region_code", "date", "daily_vaccinations"},
		{"Japan", "JPN", "2021-02-17", "125"},
		{"Japan", "JPN", "2021-02-18", ""},
	}
	for i, row := range rows {
		cell, err := xlsx.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, wb.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)

	f := &File{
		URL:           "https://example.com/data/vaccinations.xlsx?version=2",
		Title:         "Vaccinations",
		ContentBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
	}
	assert.Equal(t, ".xlsx", f.Ext())

	records, err := LoadRecords(f)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "JPN", records[0].RegionCode)
	require.NotNil(t, records[0].DailyVaccinations)
	assert.Equal(t, 125.0, *records[0].DailyVaccinations)
	assert.Nil(t, records[1].DailyVaccinations)
}

func TestDatasetSeries(t *testing.T) {
	records, err := LoadRecords(csvFile(vaccinationsCSV))
	require.NoError(t, err)
	d := NewDataset(records)

	assert.Equal(t, day("2021-01-03"), d.MostRecentDate())

	t.Run("country series is date ordered", func(t *testing.T) {
		series := d.CountrySeries("Canada")
		require.Len(t, series, 3)
		assert.Equal(t, day("2021-01-01"), series[0].Date)
		assert.Equal(t, day("2021-01-02"), series[1].Date)
		assert.Equal(t, day("2021-01-03"), series[2].Date)
	})

	t.Run("global series sums per date", func(t *testing.T) {
		global := d.GlobalSeries()
		require.Len(t, global, 3)

		want := []float64{100, 50, 320}
		for i, g := range global {
			v, ok := g.Daily()
			assert.True(t, ok)
			assert.Equal(t, want[i], v, g.Date)
			assert.Equal(t, GlobalEntity, g.Country)
		}
		require.NotNil(t, global[2].PeopleFullyVaccinated)
		assert.Equal(t, 40.0, *global[2].PeopleFullyVaccinated)
	})

	t.Run("totals are memoized per window", func(t *testing.T) {
		all := d.Totals()
		assert.Equal(t, all, d.TotalsSince(time.Time{}))

		since := d.TotalsSince(day("2021-01-03"))
		assert.ElementsMatch(t, []CountryTotal{
			{Country: "Canada", RegionCode: "CAN", TotalVaccinations: 300},
			{Country: "Japan", RegionCode: "JPN", TotalVaccinations: 20},
		}, since)
	})
}

func TestFilterSince(t *testing.T) {
	records := []Record{
		rec("A", "AAA", "2021-03-01", Float(1)),
		rec("A", "AAA", "2021-03-02", Float(1)),
		rec("A", "AAA", "2021-03-03", Float(1)),
	}

	assert.Len(t, FilterSince(records, time.Time{}), 3)
	assert.Len(t, FilterSince(records, day("2021-03-02")), 2)
	assert.Empty(t, FilterSince(records, day("2021-03-04")))

	latest, ok := MostRecentDate(records)
	assert.True(t, ok)
	assert.Equal(t, day("2021-03-03"), latest)

	_, ok = MostRecentDate(nil)
	assert.False(t, ok)
}
