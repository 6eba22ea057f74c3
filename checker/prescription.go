package checker

import (
	"fmt"
	"sort"

	"github.com/rxguard/rxguard-api/dosing"
	"github.com/rxguard/rxguard-api/logging"
	"github.com/rxguard/rxguard-api/refdata"
	"github.com/rxguard/rxguard-api/refdata/entities"
)

// renalAlertThreshold is the eGFR below which renally cleared drugs are
// flagged (CKD stage G3a onwards).
const renalAlertThreshold = 60.0

// CheckPrescription runs the full safety evaluation for a proposed
// order and returns the findings ordered by severity, most dangerous
// first. Ties keep detection order: interactions, allergies,
// contraindications, duplicates, pregnancy, lactation, renal,
// geriatric. The ordering is a hard contract for callers rendering the
// alert list.
func (c *InteractionChecker) CheckPrescription(req entities.PrescriptionCheckRequest) []entities.Alert {
	var alerts []entities.Alert
	patient := req.Patient

	alerts = append(alerts, c.interactionAlerts(req.NewDrugs, patient.Current)...)

	for _, drug := range req.NewDrugs {
		if alert, found := c.CheckAllergy(drug, patient.Allergies); found {
			alerts = append(alerts, alert)
		}
	}

	for _, drug := range req.NewDrugs {
		for _, condition := range patient.Conditions {
			if alert, found := c.CheckContraindication(drug, condition); found {
				alerts = append(alerts, alert)
			}
		}
	}

	combined := append(append([]string{}, req.NewDrugs...), patient.Current...)
	alerts = append(alerts, c.CheckDuplicateTherapy(combined)...)

	if patient.Pregnant {
		alerts = append(alerts, c.pregnancyAlerts(req.NewDrugs)...)
	}
	if patient.Lactating {
		alerts = append(alerts, c.lactationAlerts(req.NewDrugs)...)
	}

	if egfr, ok := c.resolveEGFR(patient); ok && egfr < renalAlertThreshold {
		alerts = append(alerts, c.renalAlerts(req.NewDrugs, egfr)...)
	}

	if patient.Age >= 65 {
		alerts = append(alerts, c.geriatricAlerts(req.NewDrugs, patient.Age)...)
	}

	// Stable sort: severity rank ascending, detection order preserved
	// within a rank.
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity < alerts[j].Severity
	})
	return alerts
}

// interactionAlerts checks every unordered pair drawn from the new
// drugs against both the other new drugs and the current medications.
func (c *InteractionChecker) interactionAlerts(newDrugs, currentDrugs []string) []entities.Alert {
	var alerts []entities.Alert
	checked := make(map[string]bool)

	check := func(drugA, drugB string) {
		a, b := refdata.NormalizeName(drugA), refdata.NormalizeName(drugB)
		if a == "" || b == "" || a == b {
			return
		}
		if a > b {
			a, b = b, a
		}
		pair := a + "|" + b
		if checked[pair] {
			return
		}
		checked[pair] = true

		record, found := c.CheckPair(a, b)
		if !found {
			return
		}
		alert := entities.Alert{
			Type:     entities.AlertInteraction,
			Severity: record.Severity,
			Title:    fmt.Sprintf("%s + %s interaction", record.DrugA, record.DrugB),
			Message:  record.ClinicalEffect,
			Details: map[string]string{
				"drug_a":     record.DrugA,
				"drug_b":     record.DrugB,
				"mechanism":  record.Mechanism,
				"management": record.Management,
				"evidence":   record.EvidenceLevel,
			},
		}
		applyOverridePolicy(&alert)
		alerts = append(alerts, alert)
	}

	for i, drugA := range newDrugs {
		for _, drugB := range newDrugs[i+1:] {
			check(drugA, drugB)
		}
		for _, drugB := range currentDrugs {
			check(drugA, drugB)
		}
	}
	return alerts
}

// pregnancyAlerts flags any new drug whose pregnancy category is
// known-teratogenic (D or X). These are never overridable.
func (c *InteractionChecker) pregnancyAlerts(newDrugs []string) []entities.Alert {
	snapshot := c.store.GetSnapshot()

	var alerts []entities.Alert
	for _, name := range newDrugs {
		drug, ok := snapshot.Drug(name)
		if !ok || !drug.PregnancyCategory.Teratogenic() {
			continue
		}
		alert := entities.Alert{
			Type:     entities.AlertPregnancy,
			Severity: entities.SeverityCritical,
			Title:    fmt.Sprintf("%s is unsafe in pregnancy", drug.GenericName),
			Message: fmt.Sprintf("%s is pregnancy category %s and must not be prescribed to a pregnant patient",
				drug.GenericName, drug.PregnancyCategory),
			Details: map[string]string{
				"drug":               drug.GenericName,
				"pregnancy_category": string(drug.PregnancyCategory),
			},
		}
		applyOverridePolicy(&alert)
		alerts = append(alerts, alert)
	}
	return alerts
}

// lactationAlerts flags new drugs not documented as lactation-safe.
func (c *InteractionChecker) lactationAlerts(newDrugs []string) []entities.Alert {
	snapshot := c.store.GetSnapshot()

	var alerts []entities.Alert
	for _, name := range newDrugs {
		drug, ok := snapshot.Drug(name)
		if !ok || drug.LactationSafe {
			continue
		}
		alert := entities.Alert{
			Type:     entities.AlertLactation,
			Severity: entities.SeverityModerate,
			Title:    fmt.Sprintf("%s caution while breastfeeding", drug.GenericName),
			Message:  fmt.Sprintf("%s is not documented as safe in lactation; review infant exposure", drug.GenericName),
			Details: map[string]string{
				"drug": drug.GenericName,
			},
		}
		applyOverridePolicy(&alert)
		alerts = append(alerts, alert)
	}
	return alerts
}

// renalAlerts flags new drugs with a renal adjustment rule when the
// patient's eGFR is below the alert threshold.
func (c *InteractionChecker) renalAlerts(newDrugs []string, egfr float64) []entities.Alert {
	snapshot := c.store.GetSnapshot()
	stage := dosing.CKDStage(egfr)

	var alerts []entities.Alert
	for _, name := range newDrugs {
		rule, ok := snapshot.RenalDoses[refdata.NormalizeName(name)]
		if !ok {
			continue
		}
		alert := entities.Alert{
			Type:     entities.AlertRenal,
			Severity: entities.SeverityMajor,
			Title:    fmt.Sprintf("%s requires renal dose review", rule.Drug),
			Message: fmt.Sprintf("eGFR %.1f (%s): %s needs dose adjustment against its renal banding",
				egfr, stage.Label, rule.Drug),
			Details: map[string]string{
				"drug":      rule.Drug,
				"egfr":      fmt.Sprintf("%.1f", egfr),
				"ckd_stage": stage.Stage,
			},
		}
		applyOverridePolicy(&alert)
		alerts = append(alerts, alert)
	}
	return alerts
}

// geriatricAlerts flags new drugs whose class is on the geriatric risk
// list for patients aged 65 or older.
func (c *InteractionChecker) geriatricAlerts(newDrugs []string, age int) []entities.Alert {
	snapshot := c.store.GetSnapshot()

	var alerts []entities.Alert
	for _, name := range newDrugs {
		class := snapshot.ClassOf(name)
		if class == "" {
			continue
		}
		risk, ok := snapshot.GeriatricRisks[class]
		if !ok {
			continue
		}
		alert := entities.Alert{
			Type:     entities.AlertGeriatric,
			Severity: entities.SeverityModerate,
			Title:    fmt.Sprintf("%s is high-risk in older adults", name),
			Message: fmt.Sprintf("Patient is %d; %s class drugs carry geriatric risk: %s",
				age, class, risk.Risk),
			Details: map[string]string{
				"drug":       name,
				"drug_class": class,
				"risk":       risk.Risk,
			},
		}
		applyOverridePolicy(&alert)
		alerts = append(alerts, alert)
	}
	return alerts
}

// resolveEGFR prefers a caller-supplied eGFR and otherwise derives one
// from serum creatinine when age and gender allow.
func (c *InteractionChecker) resolveEGFR(patient entities.PatientContext) (float64, bool) {
	if patient.EGFR != nil {
		return *patient.EGFR, true
	}
	if patient.Creatinine == nil {
		return 0, false
	}
	egfr, err := dosing.CalculateEGFR(*patient.Creatinine, patient.Age, patient.Gender)
	if err != nil {
		logging.Warn("Could not derive eGFR from creatinine", "error", err)
		return 0, false
	}
	return egfr, true
}
