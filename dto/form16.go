package dto

// NotFound is the sentinel value carried by every Form 16 field whose label
// or pattern never matched. It is distinct from "" so that a legitimately
// empty capture can be told apart from a miss.
const NotFound = "Not found"

// Form16Fields is the flat field→value mapping extracted from one Form 16
// certificate. Every fixed field is always populated, with NotFound when the
// document did not yield a value; downstream renderers rely on that.
type Form16Fields struct {
	Employer          string `json:"employer"`
	EmployerPAN       string `json:"employer_pan"`
	Employee          string `json:"employee"`
	EmployeePAN       string `json:"employee_pan"`
	TAN               string `json:"tan"`
	AssessmentYear    string `json:"assessment_year"`
	GrossSalary       string `json:"gross_salary"`
	StandardDeduction string `json:"standard_deduction"`
	NetTaxableIncome  string `json:"net_taxable_income"`
	TotalTDS          string `json:"total_tds"`
	TotalDeductions   string `json:"total_deductions"`

	// Diagnostics for manual verification when a heuristic misfires.
	EmployerBlock string   `json:"employer_block,omitempty"`
	EmployeeBlock string   `json:"employee_block,omitempty"`
	RawSample     string   `json:"raw_sample"`
	PANsFound     []string `json:"pans_found"`
}

// NewForm16Fields returns a result with every fixed field set to NotFound,
// so the mapping is structurally complete before extraction starts.
func NewForm16Fields() Form16Fields {
	return Form16Fields{
		Employer:          NotFound,
		EmployerPAN:       NotFound,
		Employee:          NotFound,
		EmployeePAN:       NotFound,
		TAN:               NotFound,
		AssessmentYear:    NotFound,
		GrossSalary:       NotFound,
		StandardDeduction: NotFound,
		NetTaxableIncome:  NotFound,
		TotalTDS:          NotFound,
		TotalDeductions:   NotFound,
		PANsFound:         []string{},
	}
}

// FieldRow is one (field name, value) pair of the tabular export.
type FieldRow struct {
	Name  string
	Value string
}

// FieldRows flattens the result into rows for the tabular export, fixed
// fields first in their canonical order, diagnostics last. The row count is
// stable regardless of how many fields were actually found.
func (f Form16Fields) FieldRows() []FieldRow {
	return []FieldRow{
		{"employer", f.Employer},
		{"employer_pan", f.EmployerPAN},
		{"employee", f.Employee},
		{"employee_pan", f.EmployeePAN},
		{"tan", f.TAN},
		{"assessment_year", f.AssessmentYear},
		{"gross_salary", f.GrossSalary},
		{"standard_deduction", f.StandardDeduction},
		{"net_taxable_income", f.NetTaxableIncome},
		{"total_tds", f.TotalTDS},
		{"total_deductions", f.TotalDeductions},
		{"raw_sample", f.RawSample},
		{"pans_found", joinPANs(f.PANsFound)},
	}
}

func joinPANs(pans []string) string {
	if len(pans) == 0 {
		return NotFound
	}
	out := pans[0]
	for _, p := range pans[1:] {
		out += ", " + p
	}
	return out
}

// DocumentText is the flattened text recovered from one certificate, plus
// how it was obtained.
type DocumentText struct {
	Text          string
	Source        string // "embedded", "paddle" or "ocr"
	OCRConfidence float64
	QRPayload     string
	Issues        []string
}

// Form16ExtractResponse is the extraction API payload: the field mapping
// plus document-level diagnostics.
type Form16ExtractResponse struct {
	Form16Fields
	Source        string   `json:"source"`
	OCRConfidence float64  `json:"ocr_confidence,omitempty"`
	QRPayload     string   `json:"qr_payload,omitempty"`
	Issues        []string `json:"issues,omitempty"`
	ProcessedAt   string   `json:"processed_at"`
}
