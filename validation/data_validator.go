// Package validation checks reference-table integrity at load time and
// sanitizes free-text user input before it reaches a lookup.
package validation

import (
	"fmt"
	"strings"

	"github.com/rxguard/rxguard-api/interfaces"
	"github.com/rxguard/rxguard-api/logging"
	"github.com/rxguard/rxguard-api/refdata"
)

// Dangerous patterns as plain substrings; strings.Contains is much
// faster than regex for this kind of scan.
var dangerousPatterns = []string{
	"<script", "</script>", "javascript:", "onload=", "onerror=",
	"eval(", "expression(", "@import",
	// SQL injection patterns
	"' or ", "\" or ", "union select", "drop table", "delete from",
	"insert into", "--", "/*", "*/", "exec(", "execute(",
	// Command injection patterns
	"; ", "| ", "& ", "`", "$(", "${",
	// Path traversal patterns
	"../", "..\\", "%2e%2e", "file://",
}

const maxInputLength = 100

// DataValidatorImpl implements the interfaces.InputValidator interface
type DataValidatorImpl struct{}

var _ interfaces.InputValidator = (*DataValidatorImpl)(nil)

// NewDataValidator creates a new data validator
func NewDataValidator() *DataValidatorImpl {
	return &DataValidatorImpl{}
}

// ValidateInput vets a drug, salt or test name typed by a user.
func (v *DataValidatorImpl) ValidateInput(input string) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return fmt.Errorf("input is empty")
	}
	if len(trimmed) > maxInputLength {
		return fmt.Errorf("input too long: %d characters (max %d)", len(trimmed), maxInputLength)
	}

	lowered := strings.ToLower(trimmed)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowered, pattern) {
			return fmt.Errorf("input contains a disallowed pattern")
		}
	}
	return nil
}

// QualityReport summarizes reference-table issues found at load time.
type QualityReport struct {
	DuplicateGenerics       []string
	UnknownInteractionDrugs []string
	RenalBandIssues         []string
	CrossAllergyOrphans     []string
}

// HasIssues reports whether anything was flagged.
func (r *QualityReport) HasIssues() bool {
	return len(r.DuplicateGenerics) > 0 ||
		len(r.UnknownInteractionDrugs) > 0 ||
		len(r.RenalBandIssues) > 0 ||
		len(r.CrossAllergyOrphans) > 0
}

// ReportDataQuality inspects raw tables for authoring mistakes. Issues
// are logged, never fatal: degraded safety checking beats refusing to
// start (the load path already degrades malformed files).
func (v *DataValidatorImpl) ReportDataQuality(tables *refdata.Tables) *QualityReport {
	report := &QualityReport{}

	seenGenerics := make(map[string]bool)
	knownDrugs := make(map[string]bool)
	knownClasses := make(map[string]bool)
	for _, drug := range tables.Drugs {
		key := refdata.NormalizeName(drug.GenericName)
		if seenGenerics[key] {
			report.DuplicateGenerics = append(report.DuplicateGenerics, key)
		}
		seenGenerics[key] = true
		knownDrugs[key] = true
		knownClasses[refdata.NormalizeName(drug.DrugClass)] = true
	}
	for _, entry := range tables.DrugClasses {
		knownDrugs[refdata.NormalizeName(entry.Drug)] = true
		knownClasses[refdata.NormalizeName(entry.DrugClass)] = true
	}

	for _, interaction := range tables.Interactions {
		for _, name := range []string{interaction.DrugA, interaction.DrugB} {
			if !knownDrugs[refdata.NormalizeName(name)] {
				report.UnknownInteractionDrugs = append(report.UnknownInteractionDrugs, refdata.NormalizeName(name))
			}
		}
	}

	// Renal bands must be contiguous and non-overlapping per drug.
	for _, rule := range tables.RenalDoses {
		for i, band := range rule.Bands {
			if band.EGFRMin >= band.EGFRMax {
				report.RenalBandIssues = append(report.RenalBandIssues,
					fmt.Sprintf("%s: band %d has min >= max", rule.Drug, i))
			}
			if i == 0 {
				continue
			}
			// Bands are authored highest range first.
			if rule.Bands[i-1].EGFRMin != band.EGFRMax {
				report.RenalBandIssues = append(report.RenalBandIssues,
					fmt.Sprintf("%s: gap or overlap between bands %d and %d", rule.Drug, i-1, i))
			}
		}
	}

	for _, entry := range tables.CrossAllergies {
		for _, class := range entry.CrossReactsWith {
			if !knownClasses[refdata.NormalizeName(class)] {
				report.CrossAllergyOrphans = append(report.CrossAllergyOrphans, refdata.NormalizeName(class))
			}
		}
	}

	if report.HasIssues() {
		logging.Warn("Reference data quality issues detected",
			"duplicate_generics", report.DuplicateGenerics,
			"unknown_interaction_drugs", report.UnknownInteractionDrugs,
			"renal_band_issues", report.RenalBandIssues,
			"cross_allergy_orphans", report.CrossAllergyOrphans,
		)
	}
	return report
}
