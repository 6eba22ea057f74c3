package entities

// PatientContext is the point-in-time patient snapshot supplied with
// every prescription check. The engine never owns or mutates it.
type PatientContext struct {
	Age        int      `json:"age"`
	Gender     string   `json:"gender"` // M or F
	Pregnant   bool     `json:"pregnant"`
	Lactating  bool     `json:"lactating"`
	Creatinine *float64 `json:"creatinine,omitempty"`
	EGFR       *float64 `json:"egfr,omitempty"`
	Conditions []string `json:"conditions"`
	Allergies  []string `json:"allergies"`
	Current    []string `json:"currentMedications"`
}

// PrescriptionCheckRequest is the full input to a prescription check.
type PrescriptionCheckRequest struct {
	NewDrugs []string       `json:"newDrugs"`
	Patient  PatientContext `json:"patient"`
}
