package report

import (
	"context"
	"fmt"
	"io"
	"math"

	xlsx "github.com/360EntSecGroup-Skylar/excelize/v2"

	"github.com/anrid/vaccination-stats/pkg/stats"
)

// Sheet names written by ExportWorkbook.
const (
	SheetPercent  = "Percent"
	SheetTotal    = "Total"
	SheetPastWeek = "Past Week"
	SheetHeadline = "Headline"
	SheetProgress = "Progress"
)

// ExportWorkbook writes the three rankings plus the session's headline stats
// and cumulative series to w as an .xlsx workbook.
func ExportWorkbook(ctx context.Context, e *Engine, s *Session, w io.Writer) error {
	wb := xlsx.NewFile()

	rankings := []struct {
		sheet string
		rank  func(context.Context) ([]stats.RankedEntry, []stats.ColorTag, error)
	}{
		{SheetPercent, e.PercentRankings},
		{SheetTotal, e.TotalRankings},
		{SheetPastWeek, e.PastWeekRankings},
	}

	for _, r := range rankings {
		entries, colors, err := r.rank(ctx)
		if err != nil {
			return fmt.Errorf("%s ranking: %w", r.sheet, err)
		}
		rows := [][]interface{}{{"Country", "Value", "Color"}}
		for i, entry := range entries {
			rows = append(rows, []interface{}{entry.Label, entry.Value, string(colors[i])})
		}
		if err := writeSheet(wb, r.sheet, rows); err != nil {
			return err
		}
	}

	headline, err := s.HeadlineStats()
	if err != nil {
		return err
	}
	if err := writeSheet(wb, SheetHeadline, [][]interface{}{
		{"Entity", s.Current().Country},
		{"Latest Update", headline.LatestDate},
		{"Vaccinated", headline.Vaccinated},
		{"Herd Immunity Threshold", headline.Threshold},
		{"Vaccinated Today", headline.Today},
	}); err != nil {
		return err
	}

	percents, dates := s.CumulativePercentSeries()
	rows := [][]interface{}{{"Date", "Percent Vaccinated"}}
	for i := range percents {
		var v interface{}
		if !math.IsNaN(percents[i]) {
			v = percents[i]
		}
		rows = append(rows, []interface{}{dates[i].Format(stats.DateLayout), v})
	}
	if err := writeSheet(wb, SheetProgress, rows); err != nil {
		return err
	}

	wb.DeleteSheet("Sheet1")
	wb.SetActiveSheet(wb.GetSheetIndex(SheetPercent))

	return wb.Write(w)
}

func writeSheet(wb *xlsx.File, sheet string, rows [][]interface{}) error {
	wb.NewSheet(sheet)
	for i, row := range rows {
		cell, err := xlsx.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet '%s' row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
