package checker

import (
	"os"
	"testing"

	"github.com/rxguard/rxguard-api/data"
	"github.com/rxguard/rxguard-api/refdata"
	"github.com/rxguard/rxguard-api/refdata/entities"
)

var testContainer *data.DataContainer

func TestMain(m *testing.M) {
	snapshot, err := refdata.NewLoader("").LoadSnapshot()
	if err != nil {
		panic("failed to load embedded reference tables: " + err.Error())
	}
	testContainer = data.NewDataContainer()
	testContainer.UpdateSnapshot(snapshot)

	os.Exit(m.Run())
}

func TestCheckPairSymmetry(t *testing.T) {
	chk := NewInteractionChecker(testContainer)

	ab, okAB := chk.CheckPair("warfarin", "aspirin")
	ba, okBA := chk.CheckPair("aspirin", "warfarin")
	if !okAB || !okBA {
		t.Fatal("warfarin/aspirin should be found in both orderings")
	}
	if ab != ba {
		t.Error("both orderings must return the identical record")
	}
	if ab.Severity != entities.SeverityCritical {
		t.Errorf("warfarin/aspirin severity = %v, want CRITICAL", ab.Severity)
	}
}

func TestCheckPairCaseInsensitive(t *testing.T) {
	chk := NewInteractionChecker(testContainer)

	if _, ok := chk.CheckPair("Warfarin", "ASPIRIN"); !ok {
		t.Error("pair lookup should ignore case")
	}
}

func TestCheckPairNoInteraction(t *testing.T) {
	chk := NewInteractionChecker(testContainer)

	if _, ok := chk.CheckPair("paracetamol", "amoxicillin"); ok {
		t.Error("no interaction is authored for paracetamol/amoxicillin")
	}
}

func TestCheckAllergyDirectMatch(t *testing.T) {
	chk := NewInteractionChecker(testContainer)

	alert, found := chk.CheckAllergy("amoxicillin", []string{"Amoxicillin"})
	if !found {
		t.Fatal("direct allergy match should be found")
	}
	if alert.Type != entities.AlertAllergy {
		t.Errorf("alert type = %v, want allergy", alert.Type)
	}
	if alert.Severity != entities.SeverityCritical {
		t.Errorf("direct allergy severity = %v, want CRITICAL", alert.Severity)
	}
	if alert.CanOverride {
		t.Error("a direct allergy must never be overridable")
	}
}

func TestCheckAllergyCrossReactive(t *testing.T) {
	chk := NewInteractionChecker(testContainer)

	testCases := []struct {
		name      string
		drug      string
		allergies []string
	}{
		{"class name as allergy", "ceftriaxone", []string{"penicillin"}},
		{"drug name as allergy", "ceftriaxone", []string{"amoxicillin"}},
		{"nsaid for salicylate allergy", "ibuprofen", []string{"aspirin"}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			alert, found := chk.CheckAllergy(tt.drug, tt.allergies)
			if !found {
				t.Fatalf("expected a cross-allergy for %s with %v", tt.drug, tt.allergies)
			}
			if alert.Type != entities.AlertCrossAllergy {
				t.Errorf("alert type = %v, want cross_allergy", alert.Type)
			}
			if alert.Severity != entities.SeverityMajor {
				t.Errorf("cross-allergy severity = %v, want MAJOR", alert.Severity)
			}
			if !alert.CanOverride || !alert.OverrideRequiresReason {
				t.Error("cross-allergy should be overridable with a reason")
			}
		})
	}
}

func TestCheckAllergyNoMatch(t *testing.T) {
	chk := NewInteractionChecker(testContainer)

	if _, found := chk.CheckAllergy("paracetamol", []string{"penicillin"}); found {
		t.Error("paracetamol is not cross-reactive with penicillin")
	}
	if _, found := chk.CheckAllergy("amoxicillin", nil); found {
		t.Error("no allergies should yield no alert")
	}
}

func TestCheckContraindication(t *testing.T) {
	chk := NewInteractionChecker(testContainer)

	alert, found := chk.CheckContraindication("metformin", "chronic kidney disease")
	if !found {
		t.Fatal("metformin/CKD contraindication should be found")
	}
	if alert.Severity != entities.SeverityCritical {
		t.Errorf("severity = %v, want CRITICAL", alert.Severity)
	}
	if alert.CanOverride {
		t.Error("a CRITICAL contraindication must not be overridable")
	}
	if len(alert.Alternatives) == 0 {
		t.Error("alert should carry the authored alternatives")
	}

	if _, found := chk.CheckContraindication("metformin", "asthma"); found {
		t.Error("no contraindication authored for metformin/asthma")
	}
}

func TestCheckDuplicateTherapy(t *testing.T) {
	chk := NewInteractionChecker(testContainer)

	// Three NSAIDs together must produce exactly one alert naming all
	// three, not one alert per pair.
	alerts := chk.CheckDuplicateTherapy([]string{"ibuprofen", "naproxen", "diclofenac"})
	if len(alerts) != 1 {
		t.Fatalf("expected 1 duplicate alert, got %d", len(alerts))
	}
	alert := alerts[0]
	if alert.Type != entities.AlertDuplicateTherapy {
		t.Errorf("alert type = %v, want duplicate", alert.Type)
	}
	if alert.Severity != entities.SeverityModerate {
		t.Errorf("severity = %v, want MODERATE", alert.Severity)
	}
	if alert.Details["drug_class"] != "nsaid" {
		t.Errorf("drug_class = %q, want nsaid", alert.Details["drug_class"])
	}
	if !alert.CanOverride || alert.OverrideRequiresReason {
		t.Error("duplicate therapy should be overridable without a reason")
	}
}

func TestCheckDuplicateTherapyIgnoresRepeatsAndSingletons(t *testing.T) {
	chk := NewInteractionChecker(testContainer)

	// The same drug listed twice is not duplicate therapy.
	if alerts := chk.CheckDuplicateTherapy([]string{"ibuprofen", "Ibuprofen"}); len(alerts) != 0 {
		t.Errorf("repeated drug should not alert, got %d alerts", len(alerts))
	}
	if alerts := chk.CheckDuplicateTherapy([]string{"ibuprofen", "paracetamol"}); len(alerts) != 0 {
		t.Errorf("different classes should not alert, got %d alerts", len(alerts))
	}
}

func TestGetAlternativesForCondition(t *testing.T) {
	chk := NewInteractionChecker(testContainer)

	alternatives := chk.GetAlternatives("metformin", "chronic kidney disease", nil)
	if len(alternatives) != 2 {
		t.Fatalf("expected 2 alternatives, got %v", alternatives)
	}
}

func TestGetAlternativesFiltersInteractions(t *testing.T) {
	chk := NewInteractionChecker(testContainer)

	// Ciprofloxacin in epilepsy offers amoxicillin and azithromycin;
	// azithromycin interacts with atorvastatin and must be dropped.
	unfiltered := chk.GetAlternatives("ciprofloxacin", "epilepsy", nil)
	if len(unfiltered) != 2 {
		t.Fatalf("expected 2 unfiltered alternatives, got %v", unfiltered)
	}

	filtered := chk.GetAlternatives("ciprofloxacin", "epilepsy", []string{"atorvastatin"})
	if len(filtered) != 1 || filtered[0] != "amoxicillin" {
		t.Errorf("expected only amoxicillin after filtering, got %v", filtered)
	}
}

func TestGetAlternativesAcrossAllConditions(t *testing.T) {
	chk := NewInteractionChecker(testContainer)

	// Without a condition, every authored contraindication of the drug
	// contributes candidates.
	alternatives := chk.GetAlternatives("ibuprofen", "", nil)
	if len(alternatives) == 0 {
		t.Error("ibuprofen should have alternatives from its contraindication records")
	}
	for _, alt := range alternatives {
		if alt == "ibuprofen" {
			t.Error("a drug must not be its own alternative")
		}
	}
}

func TestApplyOverridePolicy(t *testing.T) {
	testCases := []struct {
		name           string
		alertType      entities.AlertType
		severity       entities.Severity
		canOverride    bool
		requiresReason bool
	}{
		{"critical interaction", entities.AlertInteraction, entities.SeverityCritical, false, false},
		{"critical contraindication", entities.AlertContraindication, entities.SeverityCritical, false, false},
		{"critical allergy", entities.AlertAllergy, entities.SeverityCritical, false, false},
		{"critical pregnancy", entities.AlertPregnancy, entities.SeverityCritical, false, false},
		{"major interaction", entities.AlertInteraction, entities.SeverityMajor, true, true},
		{"critical renal", entities.AlertRenal, entities.SeverityCritical, true, true},
		{"moderate duplicate", entities.AlertDuplicateTherapy, entities.SeverityModerate, true, false},
		{"moderate geriatric", entities.AlertGeriatric, entities.SeverityModerate, true, false},
		{"moderate lactation", entities.AlertLactation, entities.SeverityModerate, true, true},
		{"minor interaction", entities.AlertInteraction, entities.SeverityMinor, true, true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			alert := entities.Alert{Type: tt.alertType, Severity: tt.severity}
			applyOverridePolicy(&alert)

			if alert.CanOverride != tt.canOverride {
				t.Errorf("CanOverride = %v, want %v", alert.CanOverride, tt.canOverride)
			}
			if alert.OverrideRequiresReason != tt.requiresReason {
				t.Errorf("OverrideRequiresReason = %v, want %v", alert.OverrideRequiresReason, tt.requiresReason)
			}
		})
	}
}
