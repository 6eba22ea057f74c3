package entities

import (
	"encoding/json"
	"fmt"
)

// Severity ranks a finding. The zero value is the most dangerous so that
// ascending sort order always surfaces the worst findings first.
type Severity int

const (
	SeverityCritical Severity = iota
	SeverityMajor
	SeverityModerate
	SeverityMinor
)

var severityNames = map[Severity]string{
	SeverityCritical: "CRITICAL",
	SeverityMajor:    "MAJOR",
	SeverityModerate: "MODERATE",
	SeverityMinor:    "MINOR",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// ParseSeverity converts a reference-table string into a Severity.
func ParseSeverity(s string) (Severity, error) {
	for sev, name := range severityNames {
		if name == s {
			return sev, nil
		}
	}
	return SeverityMinor, fmt.Errorf("unknown severity: %q", s)
}

func (s Severity) MarshalJSON() ([]byte, error) {
	name, ok := severityNames[s]
	if !ok {
		return nil, fmt.Errorf("cannot marshal severity %d", int(s))
	}
	return json.Marshal(name)
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// AlertType identifies which safety check produced an Alert.
type AlertType int

const (
	AlertInteraction AlertType = iota
	AlertContraindication
	AlertAllergy
	AlertCrossAllergy
	AlertDuplicateTherapy
	AlertRenal
	AlertGeriatric
	AlertPregnancy
	AlertLactation
	AlertCriticalValue
)

var alertTypeNames = map[AlertType]string{
	AlertInteraction:      "interaction",
	AlertContraindication: "contraindication",
	AlertAllergy:          "allergy",
	AlertCrossAllergy:     "cross_allergy",
	AlertDuplicateTherapy: "duplicate",
	AlertRenal:            "renal",
	AlertGeriatric:        "geriatric",
	AlertPregnancy:        "pregnancy",
	AlertLactation:        "lactation",
	AlertCriticalValue:    "critical_value",
}

func (t AlertType) String() string {
	if name, ok := alertTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("AlertType(%d)", int(t))
}

func (t AlertType) MarshalJSON() ([]byte, error) {
	name, ok := alertTypeNames[t]
	if !ok {
		return nil, fmt.Errorf("cannot marshal alert type %d", int(t))
	}
	return json.Marshal(name)
}

func (t *AlertType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for at, n := range alertTypeNames {
		if n == name {
			*t = at
			return nil
		}
	}
	return fmt.Errorf("unknown alert type: %q", name)
}

// Alert is a single immutable safety finding returned to the prescriber.
type Alert struct {
	Type                   AlertType         `json:"type"`
	Severity               Severity          `json:"severity"`
	Title                  string            `json:"title"`
	Message                string            `json:"message"`
	Details                map[string]string `json:"details,omitempty"`
	Alternatives           []string          `json:"alternatives,omitempty"`
	CanOverride            bool              `json:"canOverride"`
	OverrideRequiresReason bool              `json:"overrideRequiresReason"`
}
