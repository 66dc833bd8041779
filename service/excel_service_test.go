package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"github.com/Santhanasabari/KSTAX/dto"
)

func TestBuildWorkbook(t *testing.T) {
	fields := dto.NewForm16Fields()
	fields.Employer = "ACME TECHNOLOGIES PVT LTD"
	fields.EmployerPAN = "AAACA1234F"
	fields.GrossSalary = "12,34,567.00"
	fields.PANsFound = []string{"AAACA1234F", "BXYPS5678K"}

	data, err := NewExcelService().BuildWorkbook(fields)
	assert.NoError(t, err)
	assert.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(workbookSheet)
	assert.NoError(t, err)

	// Header plus one row per field, diagnostics included.
	assert.Len(t, rows, 1+len(fields.FieldRows()))
	assert.Equal(t, []string{"Field", "Value"}, rows[0])
	assert.Equal(t, []string{"employer", "ACME TECHNOLOGIES PVT LTD"}, rows[1])
	assert.Equal(t, []string{"employer_pan", "AAACA1234F"}, rows[2])
	assert.Equal(t, []string{"pans_found", "AAACA1234F, BXYPS5678K"}, rows[len(rows)-1])
}

func TestBuildWorkbookAllFieldsMissing(t *testing.T) {
	// A zero-hit extraction still yields the full row set.
	data, err := NewExcelService().BuildWorkbook(dto.NewForm16Fields())
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(workbookSheet)
	assert.NoError(t, err)
	assert.Len(t, rows, 14)

	for _, row := range rows[1 : len(rows)-2] {
		assert.Equal(t, dto.NotFound, row[1], "field %s", row[0])
	}
}
