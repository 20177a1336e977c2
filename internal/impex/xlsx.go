package impex

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX renders the same table as ExportCSV into a single-sheet
// workbook.
func (e *Engine) ExportXLSX(ctx context.Context, kind Kind) ([]byte, error) {
	table, err := e.ExportTable(ctx, kind)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, string(kind)); err != nil {
		return nil, err
	}
	sheet = string(kind)

	if err := setRow(f, sheet, 1, table.Header); err != nil {
		return nil, err
	}
	for i, row := range table.Rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}
