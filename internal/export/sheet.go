package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// sheetWriter appends rows to the sheets of one workbook, top to bottom.
type sheetWriter struct {
	file       *excelize.File
	sheet      string
	row        int
	mutedStyle int
}

func newSheetWriter() (*sheetWriter, error) {
	f := excelize.NewFile()
	muted, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#808080"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#F2F2F2"}},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create style: %w", err)
	}
	return &sheetWriter{file: f, mutedStyle: muted}, nil
}

// addSheet starts a new sheet with a bold header row and column widths.
func (w *sheetWriter) addSheet(name string, columns []string, widths []float64) error {
	// Excel limits sheet names to 31 characters.
	if len(name) > 31 {
		name = name[:31]
	}
	if w.sheet == "" {
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return err
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	w.sheet = name
	w.row = 1

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := w.file.SetColWidth(name, col, col, width); err != nil {
			return err
		}
	}

	values := make([]any, len(columns))
	for i, c := range columns {
		values[i] = c
	}
	if err := w.writeRow(values, false); err != nil {
		return err
	}

	bold, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	end, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := w.file.SetCellStyle(name, "A1", end, bold); err != nil {
		return err
	}
	return w.file.SetPanes(name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

// writeRow writes values to the next row; muted rows are greyed out.
func (w *sheetWriter) writeRow(values []any, muted bool) error {
	if w.sheet == "" {
		return fmt.Errorf("no active sheet")
	}
	start, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(w.sheet, start, &values); err != nil {
		return err
	}
	if muted && len(values) > 0 {
		end, _ := excelize.CoordinatesToCellName(len(values), w.row)
		if err := w.file.SetCellStyle(w.sheet, start, end, w.mutedStyle); err != nil {
			return err
		}
	}
	w.row++
	return nil
}

func (w *sheetWriter) save(out io.Writer) error {
	return w.file.Write(out)
}

func (w *sheetWriter) close() error {
	return w.file.Close()
}
