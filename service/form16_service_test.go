package service

import (
	"errors"
	"image"
	"testing"

	"github.com/Santhanasabari/KSTAX/dto"
	"github.com/stretchr/testify/assert"
)

type stubPDFProcessor struct {
	text    string
	textErr error
}

func (s *stubPDFProcessor) ExtractText(pdfData []byte, password string) (string, error) {
	return s.text, s.textErr
}

func (s *stubPDFProcessor) ExtractImages(pdfData []byte, password string) ([]image.Image, error) {
	return nil, errors.New("no images in stub")
}

func certificateText() string {
	return `FORM NO. 16
		Certificate under Section 203 of the Income-tax Act, 1961
		Name and address of the Employer
		ACME TECHNOLOGIES PVT LTD, 4th Floor, Tower B, Bengaluru 560001
		PAN of the Deductor AAACA1234F TAN of the Deductor BLRA12345C
		Name and address of the Employee
		RAHUL SHARMA, Flat 12, Green Park, Bengaluru 560038
		PAN of the Employee BXYPS5678K
		Assessment Year: 2024-25
		Gross Salary: 12,34,567.00
		Total Tax Deducted: 98,456.00`
}

func TestExtractFromEmbeddedText(t *testing.T) {
	svc := NewForm16Service(&stubPDFProcessor{text: certificateText()}, nil, nil, "")

	response, err := svc.Extract([]byte("%PDF-stub"), "")

	assert.NoError(t, err)
	assert.Equal(t, "embedded", response.Source)
	assert.Equal(t, "ACME TECHNOLOGIES PVT LTD", response.Employer)
	assert.Equal(t, "AAACA1234F", response.EmployerPAN)
	assert.Equal(t, "BXYPS5678K", response.EmployeePAN)
	assert.Equal(t, "BLRA12345C", response.TAN)
	assert.Equal(t, "2024-25", response.AssessmentYear)
	assert.Equal(t, "12,34,567.00", response.GrossSalary)
	assert.NotEmpty(t, response.ProcessedAt)
}

func TestExtractKeepsThinEmbeddedText(t *testing.T) {
	// Too short to look like a real certificate, but the only text we can
	// recover once image extraction fails. Extraction still completes.
	svc := NewForm16Service(&stubPDFProcessor{text: "PAN ABCDE1234F"}, nil, nil, "")

	response, err := svc.Extract([]byte("%PDF-stub"), "")

	assert.NoError(t, err)
	assert.Equal(t, []string{"ABCDE1234F"}, response.PANsFound)
	assert.Contains(t, response.Issues, "pdf_image_extraction_failed")
}

func TestExtractNoTextRecoverable(t *testing.T) {
	svc := NewForm16Service(&stubPDFProcessor{textErr: errors.New("corrupt xref")}, nil, nil, "")

	_, err := svc.Extract([]byte("junk"), "")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, dto.ErrForm16NotAvailable))
}

func TestExtractFieldMissesAreNotErrors(t *testing.T) {
	// Readable document with none of the expected labels: a fully-keyed
	// result with not-found markers, never an error.
	long := "This pleasant but unrelated document talks about gardening at great length. "
	for len(long) < 300 {
		long += "More gardening. "
	}
	svc := NewForm16Service(&stubPDFProcessor{text: long}, nil, nil, "")

	response, err := svc.Extract([]byte("%PDF-stub"), "")

	assert.NoError(t, err)
	assert.Equal(t, dto.NotFound, response.Employer)
	assert.Equal(t, dto.NotFound, response.AssessmentYear)
	assert.Equal(t, dto.NotFound, response.TotalTDS)
}

func TestLoadConfiguredMissingFile(t *testing.T) {
	svc := NewForm16Service(&stubPDFProcessor{}, nil, nil, "/nonexistent/form16.pdf")

	_, err := svc.LoadConfigured()

	assert.Error(t, err)
	assert.True(t, errors.Is(err, dto.ErrForm16NotAvailable))
}
