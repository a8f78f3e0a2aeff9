package excel

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"civia/domain/insight"
)

// SheetName is the worksheet holding the metrics table
const SheetName = "Metricas"

var headers = []string{"Métrica", "Etiqueta", "Valor", "Formato"}

// WriteMetrics writes the metrics as a workbook, one row per metric in
// response order. Numeric values are stored as numbers.
func WriteMetrics(w io.Writer, metrics *insight.Metrics) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", "D1", bold); err != nil {
		return err
	}

	for r, e := range metrics.Entries() {
		row := []interface{}{e.Key, insight.HumanizeKey(e.Key), cellValue(e.Value), insight.FormatMetricValue(e.Value)}
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(SheetName, "A", "B", 24); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func cellValue(v insight.MetricValue) interface{} {
	if v.IsNumber() {
		return v.Number
	}
	return v.Text
}

// ReadMetrics loads a workbook produced by WriteMetrics, or any workbook
// with metric names in column A and values in column C of the metrics sheet
func ReadMetrics(r io.Reader) (*insight.Metrics, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", SheetName, err)
	}

	metrics := insight.NewMetrics()
	for i, row := range rows {
		if i == 0 || len(row) == 0 || row[0] == "" {
			continue
		}
		var raw string
		if len(row) > 2 {
			raw = row[2]
		}
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			metrics.Set(row[0], insight.NumberValue(n))
		} else {
			metrics.Set(row[0], insight.StringValue(raw))
		}
	}
	return metrics, nil
}
