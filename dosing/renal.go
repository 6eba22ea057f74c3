// Package dosing implements the renal-function estimators and the
// renal, hepatic, pediatric and geriatric dose-adjustment calculators.
package dosing

import (
	"fmt"
	"math"
	"strings"
)

// CKD-EPI 2021 race-free constants.
const (
	ckdEpiFactor     = 142.0
	ckdEpiAgeBase    = 0.9938
	ckdEpiMaxExp     = -1.200
	kappaFemale      = 0.7
	kappaMale        = 0.9
	alphaFemale      = -0.241
	alphaMale        = -0.302
	femaleMultiplier = 1.012
)

// CalculateEGFR estimates the glomerular filtration rate with the
// race-free CKD-EPI 2021 equation, rounded to one decimal. Gender is
// "M" or "F" (case-insensitive).
func CalculateEGFR(creatinine float64, age int, gender string) (float64, error) {
	if creatinine <= 0 {
		return 0, fmt.Errorf("creatinine must be positive, got %.2f", creatinine)
	}
	if age < 0 {
		return 0, fmt.Errorf("age cannot be negative, got %d", age)
	}

	var kappa, alpha, genderFactor float64
	switch strings.ToUpper(strings.TrimSpace(gender)) {
	case "F":
		kappa, alpha, genderFactor = kappaFemale, alphaFemale, femaleMultiplier
	case "M":
		kappa, alpha, genderFactor = kappaMale, alphaMale, 1.0
	default:
		return 0, fmt.Errorf("gender must be M or F, got %q", gender)
	}

	ratio := creatinine / kappa
	egfr := ckdEpiFactor *
		math.Pow(math.Min(ratio, 1), alpha) *
		math.Pow(math.Max(ratio, 1), ckdEpiMaxExp) *
		math.Pow(ckdEpiAgeBase, float64(age)) *
		genderFactor

	return round1(egfr), nil
}

// CalculateCreatinineClearance estimates creatinine clearance with the
// Cockcroft-Gault formula, rounded to one decimal.
func CalculateCreatinineClearance(creatinine float64, age int, weightKg float64, gender string) (float64, error) {
	if creatinine <= 0 {
		return 0, fmt.Errorf("creatinine must be positive, got %.2f", creatinine)
	}
	if age < 0 {
		return 0, fmt.Errorf("age cannot be negative, got %d", age)
	}
	if weightKg <= 0 {
		return 0, fmt.Errorf("weight must be positive, got %.2f", weightKg)
	}

	crcl := ((140 - float64(age)) * weightKg) / (72 * creatinine)
	switch strings.ToUpper(strings.TrimSpace(gender)) {
	case "F":
		crcl *= 0.85
	case "M":
	default:
		return 0, fmt.Errorf("gender must be M or F, got %q", gender)
	}

	return round1(crcl), nil
}

// Stage is one KDIGO CKD stage with its patient-facing label.
type Stage struct {
	Stage string `json:"stage"`
	Label string `json:"label"`
}

// CKDStage classifies an eGFR into KDIGO stages G1 through G5. The
// labels appear in patient-facing output and must match clinical
// staging exactly.
func CKDStage(egfr float64) Stage {
	switch {
	case egfr >= 90:
		return Stage{Stage: "G1", Label: "Normal or high kidney function"}
	case egfr >= 60:
		return Stage{Stage: "G2", Label: "Mildly decreased kidney function"}
	case egfr >= 45:
		return Stage{Stage: "G3a", Label: "Mild to moderately decreased kidney function"}
	case egfr >= 30:
		return Stage{Stage: "G3b", Label: "Moderate to severely decreased kidney function"}
	case egfr >= 15:
		return Stage{Stage: "G4", Label: "Severely decreased kidney function"}
	default:
		return Stage{Stage: "G5", Label: "Kidney failure"}
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
