package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/Santhanasabari/KSTAX/dto"
)

// ReportService renders the extracted fields into a one-page summary PDF
// using pdfcpu's JSON page-description create API.
type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

type reportText struct {
	Value    string     `json:"value"`
	Position [2]float64 `json:"pos"`
	Font     reportFont `json:"font"`
}

type reportFont struct {
	Name string  `json:"name"`
	Size float64 `json:"size"`
}

type reportContent struct {
	Text []reportText `json:"text"`
}

type reportPage struct {
	Content reportContent `json:"content"`
}

type reportDescription struct {
	Paper string                `json:"paper"`
	Pages map[string]reportPage `json:"pages"`
}

// BuildSummaryPDF renders every fixed field, not-found values included, so
// the summary is structurally identical for every certificate.
func (r *ReportService) BuildSummaryPDF(fields dto.Form16Fields) ([]byte, error) {
	const (
		left     = 50.0
		topY     = 800.0
		lineStep = 22.0
	)

	texts := []reportText{
		{Value: "Form 16 Extraction Summary", Position: [2]float64{left, topY}, Font: reportFont{Name: "Helvetica-Bold", Size: 18}},
	}

	y := topY - 2*lineStep
	addLine := func(value string, font reportFont) {
		texts = append(texts, reportText{Value: value, Position: [2]float64{left, y}, Font: font})
		y -= lineStep
	}

	heading := reportFont{Name: "Helvetica-Bold", Size: 13}
	body := reportFont{Name: "Helvetica", Size: 11}

	addLine("Employer Details", heading)
	addLine(fmt.Sprintf("Employer: %s", fields.Employer), body)
	addLine(fmt.Sprintf("Employer PAN: %s", fields.EmployerPAN), body)
	addLine(fmt.Sprintf("TAN: %s", fields.TAN), body)
	y -= lineStep / 2

	addLine("Employee Details", heading)
	addLine(fmt.Sprintf("Employee: %s", fields.Employee), body)
	addLine(fmt.Sprintf("Employee PAN: %s", fields.EmployeePAN), body)
	y -= lineStep / 2

	addLine("Financial Summary", heading)
	addLine(fmt.Sprintf("Assessment Year: %s", fields.AssessmentYear), body)
	addLine(fmt.Sprintf("Gross Salary: %s", fields.GrossSalary), body)
	addLine(fmt.Sprintf("Standard Deduction: %s", fields.StandardDeduction), body)
	addLine(fmt.Sprintf("Net Taxable Income: %s", fields.NetTaxableIncome), body)
	addLine(fmt.Sprintf("Total TDS: %s", fields.TotalTDS), body)
	addLine(fmt.Sprintf("Total Deductions: %s", fields.TotalDeductions), body)
	y -= lineStep / 2

	note := fields.RawSample
	if len(note) > 160 {
		note = note[:160] + "..."
	}
	if note != "" {
		addLine("Raw text sample:", heading)
		addLine(note, reportFont{Name: "Helvetica", Size: 8})
	}

	desc := reportDescription{
		Paper: "A4",
		Pages: map[string]reportPage{"1": {Content: reportContent{Text: texts}}},
	}

	descJSON, err := json.Marshal(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal page description: %w", err)
	}

	var out bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(descJSON), &out, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("failed to create summary pdf: %w", err)
	}
	return out.Bytes(), nil
}
