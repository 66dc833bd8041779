package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Santhanasabari/KSTAX/dto"
)

// ExcelService produces the tabular export: one Field|Value row per fixed
// key, in the canonical field order, diagnostics last.
type ExcelService struct{}

func NewExcelService() *ExcelService {
	return &ExcelService{}
}

const workbookSheet = "Form16 Summary"

// BuildWorkbook returns the XLSX workbook as bytes. The row count is the
// same for every certificate, whatever was actually found.
func (s *ExcelService) BuildWorkbook(fields dto.Form16Fields) ([]byte, error) {
	f := excelize.NewFile()

	if index, _ := f.GetSheetIndex(workbookSheet); index == -1 {
		if _, err := f.NewSheet(workbookSheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(workbookSheet)
	f.SetActiveSheet(activeIndex)

	// Drop the default sheet so the workbook carries only ours.
	if workbookSheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(workbookSheet, cell, v)
	}

	write(1, 1, "Field")
	write(2, 1, "Value")

	row := 2
	for _, fr := range fields.FieldRows() {
		write(1, row, fr.Name)
		write(2, row, fr.Value)
		row++
	}

	_ = f.SetColWidth(workbookSheet, "A", "A", 24) // field names
	_ = f.SetColWidth(workbookSheet, "B", "B", 64) // values

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
