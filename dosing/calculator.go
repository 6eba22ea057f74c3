package dosing

import (
	"fmt"
	"strings"

	"github.com/rxguard/rxguard-api/interfaces"
	"github.com/rxguard/rxguard-api/refdata"
	"github.com/rxguard/rxguard-api/refdata/entities"
)

// The literal used in renal bands for an absolute contraindication.
const contraindicatedAdjustment = "CONTRAINDICATED"

// Frequency multipliers for converting a single dose to a daily total.
var frequencyPerDay = map[string]int{
	"OD":   1,
	"BD":   2,
	"TDS":  3,
	"QID":  4,
	"Q6H":  4,
	"Q8H":  3,
	"Q12H": 2,
}

// Drug classes that get a flat geriatric reduction regardless of renal
// function.
var geriatricSensitiveClasses = map[string]bool{
	"digitalis glycoside": true,
	"opioid":              true,
	"benzodiazepine":      true,
}

// Calculator derives dose recommendations from the adjustment tables in
// the current snapshot. Stateless per call.
type Calculator struct {
	store interfaces.SnapshotStore
}

// NewCalculator creates a dose calculator reading from store.
func NewCalculator(store interfaces.SnapshotStore) *Calculator {
	return &Calculator{store: store}
}

// RenalDose returns the adjustment for a drug at the given eGFR,
// taken from the first band containing the value. A drug without renal
// banding returns (nil, nil): absent data is not an error.
func (c *Calculator) RenalDose(drug string, egfr float64, originalDose string) (*entities.DoseRecommendation, error) {
	if egfr < 0 {
		return nil, fmt.Errorf("eGFR cannot be negative, got %.2f", egfr)
	}

	rule, ok := c.store.GetSnapshot().RenalDoses[refdata.NormalizeName(drug)]
	if !ok {
		return nil, nil
	}

	stage := CKDStage(egfr)
	for _, band := range rule.Bands {
		if egfr < band.EGFRMin || egfr >= band.EGFRMax {
			continue
		}

		rec := &entities.DoseRecommendation{
			Drug:           rule.Drug,
			OriginalDose:   originalDose,
			AdjustmentType: "renal",
			Reason:         fmt.Sprintf("eGFR %.1f (%s): %s", egfr, stage.Stage, band.Note),
			References:     []string{"KDIGO 2024 CKD guideline"},
		}

		if strings.EqualFold(band.Adjustment, contraindicatedAdjustment) {
			rec.RecommendedDose = contraindicatedAdjustment
			rec.Confidence = 1.0
			rec.Warnings = append(rec.Warnings,
				fmt.Sprintf("%s is contraindicated at eGFR %.1f", rule.Drug, egfr))
			return rec, nil
		}

		rec.Confidence = 0.9
		if originalDose != "" && band.Adjustment == "100%" {
			rec.RecommendedDose = originalDose
		} else {
			rec.RecommendedDose = fmt.Sprintf("%s of usual dose", band.Adjustment)
		}
		return rec, nil
	}

	// Authoring invariant says bands are contiguous, so this only
	// happens with a malformed table.
	return nil, nil
}

// HepaticDose looks up the (drug, Child-Pugh score) adjustment.
func (c *Calculator) HepaticDose(drug, childPugh, originalDose string) (*entities.DoseRecommendation, error) {
	score := strings.ToUpper(strings.TrimSpace(childPugh))
	if score != "A" && score != "B" && score != "C" {
		return nil, fmt.Errorf("Child-Pugh score must be A, B or C, got %q", childPugh)
	}

	rule, ok := c.store.GetSnapshot().HepaticDose(drug, score)
	if !ok {
		return nil, nil
	}

	rec := &entities.DoseRecommendation{
		Drug:            rule.Drug,
		RecommendedDose: fmt.Sprintf("%s of usual dose", rule.Adjustment),
		OriginalDose:    originalDose,
		AdjustmentType:  "hepatic",
		Reason:          fmt.Sprintf("Child-Pugh %s: %s", score, rule.Note),
		Confidence:      0.8,
	}
	if strings.EqualFold(rule.Adjustment, "AVOID") {
		rec.RecommendedDose = "AVOID"
		rec.Warnings = append(rec.Warnings,
			fmt.Sprintf("%s should be avoided in Child-Pugh %s hepatic impairment", rule.Drug, score))
	}
	return rec, nil
}

// PediatricDose computes a weight-based dose capped at the drug's
// maximum single dose, then recomputes against the daily maximum using
// the dosing-frequency multiplier.
func (c *Calculator) PediatricDose(drug string, weightKg, ageYears float64) (*entities.DoseRecommendation, error) {
	if weightKg <= 0 {
		return nil, fmt.Errorf("weight must be positive, got %.2f", weightKg)
	}
	if ageYears < 0 {
		return nil, fmt.Errorf("age cannot be negative, got %.2f", ageYears)
	}

	rule, ok := c.store.GetSnapshot().PediatricDoses[refdata.NormalizeName(drug)]
	if !ok {
		return nil, nil
	}

	rec := &entities.DoseRecommendation{
		Drug:           rule.Drug,
		AdjustmentType: "pediatric",
		Confidence:     0.95,
		References:     []string{"BNF for Children"},
	}

	if ageYears < rule.MinAgeYears {
		rec.Warnings = append(rec.Warnings,
			fmt.Sprintf("%s is not recommended below %.2g years of age", rule.Drug, rule.MinAgeYears))
	}

	perDay, ok := frequencyPerDay[strings.ToUpper(rule.Frequency)]
	if !ok {
		perDay = 1
	}

	singleDose := rule.MgPerKg * weightKg
	if singleDose > rule.MaxSingleMg {
		singleDose = rule.MaxSingleMg
	}

	dailyDose := singleDose * float64(perDay)
	if rule.MaxDailyMg > 0 && dailyDose > rule.MaxDailyMg {
		singleDose = rule.MaxDailyMg / float64(perDay)
		dailyDose = rule.MaxDailyMg
		rec.Warnings = append(rec.Warnings,
			fmt.Sprintf("Weight-based daily total would exceed the %.0f mg daily maximum; single dose reduced", rule.MaxDailyMg))
	}

	rec.RecommendedDose = fmt.Sprintf("%.1f mg %s (%.1f mg/day)", singleDose, rule.Frequency, dailyDose)
	rec.Reason = fmt.Sprintf("%.1f kg at %.1f mg/kg: %s", weightKg, rule.MgPerKg, rule.Note)
	return rec, nil
}

// GeriatricDose applies the geriatric adjustment policy: nothing below
// 65; a flat 50% reduction for the geriatric-sensitive classes;
// otherwise defer to renal banding when an eGFR is available.
func (c *Calculator) GeriatricDose(drug string, age int, egfr *float64) (*entities.DoseRecommendation, error) {
	if age < 0 {
		return nil, fmt.Errorf("age cannot be negative, got %d", age)
	}
	if age < 65 {
		return nil, nil
	}

	snapshot := c.store.GetSnapshot()
	class := snapshot.ClassOf(drug)

	if geriatricSensitiveClasses[class] {
		return &entities.DoseRecommendation{
			Drug:            drug,
			RecommendedDose: "50% of usual adult dose",
			AdjustmentType:  "geriatric",
			Reason:          fmt.Sprintf("Age %d: %s class drugs need dose reduction in older adults", age, class),
			Confidence:      0.8,
			Warnings:        []string{"Start low, go slow; review for sedation and falls"},
			References:      []string{"AGS Beers Criteria 2023"},
		}, nil
	}

	if egfr == nil {
		return nil, nil
	}

	rec, err := c.RenalDose(drug, *egfr, "")
	if err != nil || rec == nil {
		return rec, err
	}
	rec.AdjustmentType = "geriatric"
	rec.Warnings = append(rec.Warnings,
		fmt.Sprintf("Age %d: verify tolerability beyond the renal adjustment alone", age))
	return rec, nil
}
