package stats

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	xlsx "github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/anrid/xls"
)

// ExtractDataFromFile calls handler once per row of the file's first sheet
// (or of the CSV), header row included.
func ExtractDataFromFile(f *File, handler func(r []string)) error {
	switch f.Ext() {
	case ".xlsx":
		return ExtractDataFromXLSX(f, handler)
	case ".xls":
		return ExtractDataFromXLS(f, handler)
	default:
		return ExtractDataFromCSV(f, handler)
	}
}

func ExtractDataFromCSV(f *File, handler func(r []string)) error {
	slog.Info("loading CSV data", "url", f.URL)

	rawData, err := f.Content()
	if err != nil {
		return err
	}

	reader := csv.NewReader(bytes.NewReader(rawData))
	reader.FieldsPerRecord = -1

	rows := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("could not read CSV file '%s' (%s): %w", f.Title, f.URL, err)
		}
		handler(row)
		rows++
	}

	slog.Info("loaded CSV data", "url", f.URL, "rows", rows)
	return nil
}

func ExtractDataFromXLS(f *File, handler func(r []string)) error {
	slog.Info("loading XLS data", "url", f.URL)

	rawData, err := f.Content()
	if err != nil {
		return err
	}

	wb, err := xls.OpenReader(bytes.NewReader(rawData), "utf-8")
	if err != nil {
		return fmt.Errorf("could not read XLS file '%s' (%s): %w", f.Title, f.URL, err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return fmt.Errorf("XLS file '%s' (%s) has no sheets", f.Title, f.URL)
	}

	slog.Info("sheet", "name", sheet.Name, "rows", sheet.MaxRow)

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		var cols []string
		for j := 0; j <= row.LastCol(); j++ {
			cols = append(cols, row.Col(j))
		}
		handler(cols)
	}
	return nil
}

func ExtractDataFromXLSX(f *File, handler func(r []string)) error {
	slog.Info("loading XLSX data", "url", f.URL)

	rawData, err := f.Content()
	if err != nil {
		return err
	}

	wb, err := xlsx.OpenReader(bytes.NewReader(rawData))
	if err != nil {
		return fmt.Errorf("could not read XLSX file '%s' (%s): %w", f.Title, f.URL, err)
	}

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("XLSX file '%s' (%s) has no sheets", f.Title, f.URL)
	}
	defaultSheet := sheets[0]

	rows, err := wb.GetRows(defaultSheet)
	if err != nil {
		return fmt.Errorf("could not get rows for default sheet '%s': %w", defaultSheet, err)
	}

	slog.Info("sheet", "name", defaultSheet, "rows", len(rows))

	for _, r := range rows {
		handler(r)
	}
	return nil
}
