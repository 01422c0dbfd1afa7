// Package export projects batch outcomes into output artifacts. JSON is the
// primary artifact; CSV and XLSX are pure projections of it.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/On-Analytics/cv-extractor/internal/batch"
	"github.com/On-Analytics/cv-extractor/internal/schema"
)

// JSON renders the aggregate array: one element per processed document.
func JSON(outcomes []batch.Outcome) ([]byte, error) {
	return json.MarshalIndent(outcomes, "", "  ")
}

// CSV writes one row per successful outcome, one column per top-level schema
// field plus source_file and error columns. Nested values are JSON-encoded
// into their cell. Failed documents keep their row with the error column set.
func CSV(w io.Writer, def *schema.Definition, outcomes []batch.Outcome) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(def.Fields)+2)
	header = append(header, "source_file")
	for _, f := range def.Fields {
		header = append(header, f.Name)
	}
	header = append(header, "error")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, out := range outcomes {
		row := make([]string, 0, len(header))
		row = append(row, out.SourceFile)
		for _, f := range def.Fields {
			if out.Record == nil {
				row = append(row, "")
				continue
			}
			row = append(row, cellValue(out.Record.Fields[f.Name]))
		}
		if out.Err != nil {
			row = append(row, out.Err.Error())
		} else {
			row = append(row, "")
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// XLSX returns a workbook with the same projection as CSV.
func XLSX(def *schema.Definition, outcomes []batch.Outcome) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Extractions"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	write(1, 1, "source_file")
	for i, fld := range def.Fields {
		write(i+2, 1, fld.Name)
	}
	write(len(def.Fields)+2, 1, "error")

	for rowIdx, out := range outcomes {
		row := rowIdx + 2
		write(1, row, out.SourceFile)
		for i, fld := range def.Fields {
			if out.Record != nil {
				write(i+2, row, cellValue(out.Record.Fields[fld.Name]))
			}
		}
		if out.Err != nil {
			write(len(def.Fields)+2, row, out.Err.Error())
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// cellValue flattens a normalized field value for a spreadsheet cell.
func cellValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		b, _ := json.Marshal(t)
		return string(b)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
