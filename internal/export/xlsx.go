package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Hours"

// WriteXLSX writes the report as a single-sheet workbook laid out like the
// CSV export. Hours are stored as numbers.
func WriteXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	row := 1
	put := func(values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(sheetName, cell, &values)
	}

	for _, line := range r.metadata() {
		if err := put([]any{line[0]}); err != nil {
			return fmt.Errorf("writing metadata: %w", err)
		}
	}
	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := put(head); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, rec := range r.rows() {
		values := make([]any, len(rec))
		for j, v := range rec {
			values[j] = v
		}
		values[3] = r.Entries[i].Hours
		if week, err := strconv.Atoi(rec[6]); err == nil {
			values[6] = week
		}
		if err := put(values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	return f.Write(w)
}
