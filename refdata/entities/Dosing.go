package entities

// RenalDoseBand is one eGFR range for a drug. Lower bound inclusive,
// upper bound exclusive. Bands for a drug must be contiguous and
// non-overlapping; that is an authoring invariant on the reference data.
type RenalDoseBand struct {
	EGFRMin    float64 `json:"egfrMin"`
	EGFRMax    float64 `json:"egfrMax"`
	Adjustment string  `json:"adjustment"` // percentage like "50%" or "CONTRAINDICATED"
	Note       string  `json:"note"`
}

// RenalDoseRule holds the ordered bands for one drug.
type RenalDoseRule struct {
	Drug  string          `json:"drug"`
	Bands []RenalDoseBand `json:"bands"`
}

// HepaticDoseRule is keyed by (drug, Child-Pugh score).
type HepaticDoseRule struct {
	Drug       string `json:"drug"`
	ChildPugh  string `json:"childPugh"` // A, B or C
	Adjustment string `json:"adjustment"`
	Note       string `json:"note"`
}

// PediatricDoseRule drives weight-based pediatric dosing.
type PediatricDoseRule struct {
	Drug        string  `json:"drug"`
	MgPerKg     float64 `json:"mgPerKg"`
	MaxSingleMg float64 `json:"maxSingleMg"`
	MaxDailyMg  float64 `json:"maxDailyMg"`
	Frequency   string  `json:"frequency"` // OD, BD, TDS, QID, Q6H, Q8H, Q12H
	MinAgeYears float64 `json:"minAgeYears"`
	Note        string  `json:"note"`
}

// GeriatricRiskEntry marks a drug class as high risk in patients >= 65
// (Beers-style list).
type GeriatricRiskEntry struct {
	DrugClass string `json:"drugClass"`
	Risk      string `json:"risk"`
}

// DoseRecommendation is the output of every dose-calculation entry point.
type DoseRecommendation struct {
	Drug            string   `json:"drug"`
	RecommendedDose string   `json:"recommendedDose"`
	OriginalDose    string   `json:"originalDose,omitempty"`
	Reason          string   `json:"reason"`
	AdjustmentType  string   `json:"adjustmentType"` // renal, hepatic, pediatric or geriatric
	Confidence      float64  `json:"confidence"`
	Warnings        []string `json:"warnings,omitempty"`
	References      []string `json:"references,omitempty"`
}
