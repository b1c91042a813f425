package formatter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/gema-grades/internal/dto"
)

// XLSXFormatter writes a workbook with one sheet per query.
type XLSXFormatter struct {
	writer io.Writer
}

// NewXLSXFormatter creates a new workbook formatter
func NewXLSXFormatter(w io.Writer) *XLSXFormatter {
	return &XLSXFormatter{writer: w}
}

// Format builds the workbook in memory and streams it to the writer.
func (f *XLSXFormatter) Format(report dto.Report) error {
	book := excelize.NewFile()
	defer func() {
		_ = book.Close()
	}()

	for i, s := range sections(report) {
		if i == 0 {
			if err := book.SetSheetName(book.GetSheetName(0), s.Sheet); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := book.NewSheet(s.Sheet); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", s.Sheet, err)
		}

		if err := writeSheet(book, s); err != nil {
			return err
		}
	}

	book.SetActiveSheet(0)
	if _, err := book.WriteTo(f.writer); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(book *excelize.File, s section) error {
	header := make([]interface{}, 0, len(s.Columns))
	for _, column := range s.Columns {
		header = append(header, column)
	}
	if err := book.SetSheetRow(s.Sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %q: %w", s.Sheet, err)
	}

	rows := s.Rows
	switch {
	case s.empty():
		rows = [][]interface{}{{s.Missing}}
	case s.Scalar:
		rows = [][]interface{}{{*s.Value}}
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := book.SetSheetRow(s.Sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", i+1, s.Sheet, err)
		}
	}
	return nil
}
