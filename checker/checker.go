// Package checker implements the prescription safety checks: drug-drug
// interactions, allergy and cross-allergy detection, condition
// contraindications, duplicate therapy, and the orchestrated
// per-prescription evaluation that ranks every finding by severity.
package checker

import (
	"fmt"
	"strings"

	"github.com/rxguard/rxguard-api/interfaces"
	"github.com/rxguard/rxguard-api/refdata"
	"github.com/rxguard/rxguard-api/refdata/entities"
)

// InteractionChecker evaluates proposed drug orders against the current
// reference snapshot. Every method is a pure function of its arguments
// plus the immutable snapshot, so checks may run concurrently.
type InteractionChecker struct {
	store interfaces.SnapshotStore
}

// NewInteractionChecker creates a checker reading from store.
func NewInteractionChecker(store interfaces.SnapshotStore) *InteractionChecker {
	return &InteractionChecker{store: store}
}

// CheckPair returns the stored interaction for an unordered drug pair.
// Lookup is symmetric and case-insensitive: (A,B) and (B,A) resolve to
// the same record.
func (c *InteractionChecker) CheckPair(drugA, drugB string) (entities.InteractionRecord, bool) {
	return c.store.GetSnapshot().Interaction(drugA, drugB)
}

// CheckAllergy tests a drug against the patient's documented allergies.
// A direct name match is CRITICAL and can never be overridden. With no
// direct match, the drug's class is tested against each allergy's class
// through the cross-reactivity map; an indirect hit is MAJOR and may be
// overridden with a mandatory reason.
func (c *InteractionChecker) CheckAllergy(drug string, allergies []string) (entities.Alert, bool) {
	snapshot := c.store.GetSnapshot()
	drugKey := refdata.NormalizeName(drug)

	for _, allergy := range allergies {
		if refdata.NormalizeName(allergy) == drugKey {
			alert := entities.Alert{
				Type:     entities.AlertAllergy,
				Severity: entities.SeverityCritical,
				Title:    "Documented allergy",
				Message:  fmt.Sprintf("Patient has a documented allergy to %s", drug),
				Details: map[string]string{
					"drug":    drug,
					"allergy": allergy,
				},
			}
			applyOverridePolicy(&alert)
			return alert, true
		}
	}

	drugClass := snapshot.ClassOf(drug)
	if drugClass == "" {
		return entities.Alert{}, false
	}

	for _, allergy := range allergies {
		allergyClass := snapshot.ClassOf(allergy)
		if allergyClass == "" {
			// The allergy may itself be a class name ("penicillin").
			allergyClass = refdata.NormalizeName(allergy)
		}
		if !snapshot.CrossReactive(drugClass, allergyClass) {
			continue
		}
		alert := entities.Alert{
			Type:     entities.AlertCrossAllergy,
			Severity: entities.SeverityMajor,
			Title:    "Possible cross-reactive allergy",
			Message: fmt.Sprintf("%s (%s) may cross-react with documented %s allergy (%s)",
				drug, drugClass, allergy, allergyClass),
			Details: map[string]string{
				"drug":          drug,
				"drug_class":    drugClass,
				"allergy":       allergy,
				"allergy_class": allergyClass,
			},
		}
		applyOverridePolicy(&alert)
		return alert, true
	}

	return entities.Alert{}, false
}

// CheckContraindication tests one (drug, condition) pair against the
// contraindication table. Severity comes from the record itself.
func (c *InteractionChecker) CheckContraindication(drug, condition string) (entities.Alert, bool) {
	record, ok := c.store.GetSnapshot().Contraindication(drug, condition)
	if !ok {
		return entities.Alert{}, false
	}

	alert := entities.Alert{
		Type:     entities.AlertContraindication,
		Severity: record.Severity,
		Title:    fmt.Sprintf("%s contraindicated in %s", record.Drug, record.Condition),
		Message:  record.Reason,
		Details: map[string]string{
			"drug":      record.Drug,
			"condition": record.Condition,
		},
		Alternatives: record.Alternatives,
	}
	applyOverridePolicy(&alert)
	return alert, true
}

// CheckDuplicateTherapy groups the combined drug list by canonical
// class. Any class with two or more members yields a single MODERATE
// alert naming the class and all offending drugs.
func (c *InteractionChecker) CheckDuplicateTherapy(drugs []string) []entities.Alert {
	snapshot := c.store.GetSnapshot()

	classMembers := make(map[string][]string)
	var classOrder []string
	seen := make(map[string]bool)

	for _, drug := range drugs {
		key := refdata.NormalizeName(drug)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		class := snapshot.ClassOf(drug)
		if class == "" {
			continue
		}
		if _, exists := classMembers[class]; !exists {
			classOrder = append(classOrder, class)
		}
		classMembers[class] = append(classMembers[class], key)
	}

	var alerts []entities.Alert
	for _, class := range classOrder {
		members := classMembers[class]
		if len(members) < 2 {
			continue
		}
		alert := entities.Alert{
			Type:     entities.AlertDuplicateTherapy,
			Severity: entities.SeverityModerate,
			Title:    fmt.Sprintf("Duplicate %s therapy", class),
			Message: fmt.Sprintf("%d drugs of class %s prescribed together: %s",
				len(members), class, strings.Join(members, ", ")),
			Details: map[string]string{
				"drug_class": class,
				"drugs":      strings.Join(members, ", "),
			},
		}
		applyOverridePolicy(&alert)
		alerts = append(alerts, alert)
	}
	return alerts
}

// GetAlternatives returns candidate replacements for a drug, filtered
// to drop any candidate that itself interacts with a drug the patient
// is already taking.
func (c *InteractionChecker) GetAlternatives(drug, condition string, avoidInteractionsWith []string) []string {
	snapshot := c.store.GetSnapshot()
	drugKey := refdata.NormalizeName(drug)

	var candidates []string
	seen := make(map[string]bool)
	addCandidate := func(name string) {
		key := refdata.NormalizeName(name)
		if key == "" || key == drugKey || seen[key] {
			return
		}
		seen[key] = true
		candidates = append(candidates, key)
	}

	if condition != "" {
		if record, ok := snapshot.Contraindication(drug, condition); ok {
			for _, alt := range record.Alternatives {
				addCandidate(alt)
			}
		}
	} else {
		for _, record := range snapshot.Contraindications {
			if refdata.NormalizeName(record.Drug) != drugKey {
				continue
			}
			for _, alt := range record.Alternatives {
				addCandidate(alt)
			}
		}
	}

	filtered := candidates[:0]
	for _, candidate := range candidates {
		clean := true
		for _, other := range avoidInteractionsWith {
			if _, found := c.CheckPair(candidate, other); found {
				clean = false
				break
			}
		}
		if clean {
			filtered = append(filtered, candidate)
		}
	}
	return filtered
}

// applyOverridePolicy sets the override flags from severity and type.
// A CRITICAL interaction, contraindication, direct allergy or pregnancy
// alert can never be overridden. Everything else is overridable:
// duplicate-therapy and geriatric alerts without a stated reason, all
// others only with one.
func applyOverridePolicy(alert *entities.Alert) {
	if alert.Severity == entities.SeverityCritical {
		switch alert.Type {
		case entities.AlertInteraction, entities.AlertContraindication,
			entities.AlertAllergy, entities.AlertPregnancy:
			alert.CanOverride = false
			alert.OverrideRequiresReason = false
			return
		}
	}

	alert.CanOverride = true
	switch alert.Type {
	case entities.AlertDuplicateTherapy, entities.AlertGeriatric:
		alert.OverrideRequiresReason = false
	default:
		alert.OverrideRequiresReason = true
	}
}
