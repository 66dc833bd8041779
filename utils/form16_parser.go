package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Santhanasabari/KSTAX/dto"
)

// form16Patterns holds every compiled matcher the extractor needs. Built once
// at init, never mutated, shared read-only by all extractions.
type form16Patterns struct {
	pan      *regexp.Regexp
	tan      *regexp.Regexp
	currency *regexp.Regexp

	assessmentYear     *regexp.Regexp
	assessmentYearAbbr *regexp.Regexp

	employerAnchor    *regexp.Regexp
	employerAltAnchor *regexp.Regexp
	employeeAnchor    *regexp.Regexp
	employeeAltAnchor *regexp.Regexp
}

var form16Pats = form16Patterns{
	pan:      regexp.MustCompile(`\b[A-Z]{5}[0-9]{4}[A-Z]\b`),
	tan:      regexp.MustCompile(`\b[A-Z]{4}[0-9]{5}[A-Z]\b`),
	currency: regexp.MustCompile(`[0-9]+(?:,[0-9]{2,3})*(?:\.[0-9]+)?`),

	// Printed certificates use "2024-25", some deductors print the full
	// "2024-2025" and a few emit an en dash instead of a hyphen.
	assessmentYear:     regexp.MustCompile(`(?i)Assessment\s*Year\s*[:\-]?\s*([0-9]{4}\s?[-–]\s?[0-9]{2,4})`),
	assessmentYearAbbr: regexp.MustCompile(`(?i)\bA\.?\s?Y\.?\s*[:\-]?\s*([0-9]{4}\s?[-–]\s?[0-9]{2,4})`),

	employerAnchor:    regexp.MustCompile(`(?i)Name\s+and\s+address\s+of\s+the\s+Employer`),
	employerAltAnchor: regexp.MustCompile(`(?i)Name\s+and\s+address\s+of\s+the\s+Deductor`),
	employeeAnchor:    regexp.MustCompile(`(?i)Name\s+and\s+address\s+of\s+the\s+Employee`),
	employeeAltAnchor: regexp.MustCompile(`(?i)Name\s+of\s+the\s+Employee`),
}

// Window sizes for bounded substring capture. The employee block runs longer
// on Part B layouts where the address wraps.
const (
	employerWindow = 200
	employeeWindow = 240
	currencyWindow = 200
	rawSampleLen   = 2000
)

// blockMarkers end a name/address block: the next labelled field starts with
// one of these in every TRACES layout seen so far.
var blockMarkers = []string{"PAN", "TAN", "#"}

// monetaryChains maps each currency field to its ordered label candidates.
// First label that is found AND is followed by a currency-shaped number wins.
var monetaryChains = []struct {
	field  string
	labels []string
}{
	{"gross_salary", []string{"Gross Salary", "Total"}},
	{"standard_deduction", []string{"Standard deduction"}},
	{"net_taxable_income", []string{"Total taxable income (9-11)", "Total taxable income"}},
	{"total_tds", []string{"Total Tax Deducted", "Net tax payable", "Total TDS"}},
	{"total_deductions", []string{"Total of deductions under Chapter VI-A"}},
}

// NormalizeText collapses every whitespace run (spaces, tabs, newlines) into
// a single space and trims the ends. Idempotent.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ParseForm16Text extracts the Form 16 field mapping from one flattened
// certificate text. It is total: any field whose label or pattern never
// matches degrades to dto.NotFound, and the result always carries every
// fixed field, even for empty input.
func ParseForm16Text(raw string) dto.Form16Fields {
	fields := dto.NewForm16Fields()
	text := NormalizeText(raw)

	fields.RawSample = truncateAtRuneBoundary(text, rawSampleLen)

	// Employer: anchor phrase, secondary "Deductor" wording on Part A.
	if block, ok := captureBlock(text, form16Pats.employerAnchor, form16Pats.employerAltAnchor, employerWindow); ok {
		fields.EmployerBlock = block
		fields.Employer = firstCommaSegment(block)
	}

	// Employee: whole block, the name rarely stands alone before the address.
	if block, ok := captureBlock(text, form16Pats.employeeAnchor, form16Pats.employeeAltAnchor, employeeWindow); ok {
		fields.EmployeeBlock = block
		fields.Employee = block
	}

	// Identifier fields: one token-capture pass over the whole text. The
	// first distinct PAN in document order is taken as the deductor's, the
	// second as the employee's. Heuristic, not a guarantee; pans_found is
	// kept for manual verification when the ordering assumption fails.
	pans := distinctMatches(form16Pats.pan, text)
	fields.PANsFound = pans
	if len(pans) > 0 {
		fields.EmployerPAN = pans[0]
	}
	if len(pans) > 1 {
		fields.EmployeePAN = pans[1]
	}
	if tan := form16Pats.tan.FindString(text); tan != "" {
		fields.TAN = tan
	}

	if m := form16Pats.assessmentYear.FindStringSubmatch(text); m != nil {
		fields.AssessmentYear = m[1]
	} else if m := form16Pats.assessmentYearAbbr.FindStringSubmatch(text); m != nil {
		fields.AssessmentYear = m[1]
	}

	for _, chain := range monetaryChains {
		value := currencyFromChain(text, chain.labels)
		switch chain.field {
		case "gross_salary":
			fields.GrossSalary = value
		case "standard_deduction":
			fields.StandardDeduction = value
		case "net_taxable_income":
			fields.NetTaxableIncome = value
		case "total_tds":
			fields.TotalTDS = value
		case "total_deductions":
			fields.TotalDeductions = value
		}
	}

	return fields
}

// locateAnchor returns the end offset of the first match of re, or -1.
func locateAnchor(re *regexp.Regexp, text string) int {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return -1
	}
	return loc[1]
}

// locateLabel returns the start offset of the first case-insensitive
// occurrence of label, or -1. Only the first occurrence is ever used.
// Folding is done window by window so the offset is valid in text itself
// even when surrounding runes change byte length under case mapping.
func locateLabel(text, label string) int {
	if label == "" || len(text) < len(label) {
		return -1
	}
	for i := 0; i+len(label) <= len(text); i++ {
		if strings.EqualFold(text[i:i+len(label)], label) {
			return i
		}
	}
	return -1
}

// truncateAtRuneBoundary caps s at max bytes without splitting a rune.
func truncateAtRuneBoundary(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// captureBlock runs bounded substring capture after the primary anchor,
// falling back to the secondary anchor: take a fixed window, cut it at the
// first following reserved marker, and strip surrounding punctuation.
func captureBlock(text string, anchor, altAnchor *regexp.Regexp, window int) (string, bool) {
	pos := locateAnchor(anchor, text)
	if pos < 0 {
		pos = locateAnchor(altAnchor, text)
	}
	if pos < 0 {
		return "", false
	}

	end := pos + window
	if end > len(text) {
		end = len(text)
	}
	block := NormalizeText(text[pos:end])

	for _, marker := range blockMarkers {
		if i := strings.Index(block, marker); i >= 0 {
			block = block[:i]
		}
	}
	block = strings.Trim(block, ",;: ")
	if block == "" {
		return "", false
	}
	return block, true
}

// firstCommaSegment returns the text before the first comma. The employer
// line prints as "NAME, address..." so the first segment is the name.
func firstCommaSegment(block string) string {
	if i := strings.Index(block, ","); i >= 0 {
		return strings.TrimSpace(block[:i])
	}
	return block
}

// currencyFromChain evaluates the ordered label candidates and returns the
// first nearest-currency-number hit, or dto.NotFound when no candidate
// label/number pair succeeds.
func currencyFromChain(text string, labels []string) string {
	for _, label := range labels {
		if amount, ok := currencyAfterLabel(text, label); ok {
			return amount
		}
	}
	return dto.NotFound
}

// currencyAfterLabel finds the first occurrence of label and returns the
// first currency-shaped number inside the window immediately after it. The
// window starts past the label text so digits inside the label itself never
// match as the value.
func currencyAfterLabel(text, label string) (string, bool) {
	pos := locateLabel(text, label)
	if pos < 0 {
		return "", false
	}

	start := pos + len(label)
	end := start + currencyWindow
	if end > len(text) {
		end = len(text)
	}

	amount := form16Pats.currency.FindString(text[start:end])
	if amount == "" {
		return "", false
	}
	return amount, true
}

// distinctMatches collects every match of re in document order, dropping
// repeats. Order matters: it is the PAN disambiguation signal.
func distinctMatches(re *regexp.Regexp, text string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, m := range re.FindAllString(text, -1) {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
