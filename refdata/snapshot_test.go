package refdata

import (
	"testing"

	"github.com/rxguard/rxguard-api/refdata/entities"
)

func testTables() *Tables {
	return &Tables{
		Drugs: []entities.DrugRecord{
			{
				GenericName: "Warfarin",
				DrugClass:   "vitamin K antagonist",
				Formulations: []entities.Formulation{
					{BrandName: "Warf", Salt: "warfarin sodium"},
				},
			},
			{
				GenericName: "Ibuprofen",
				DrugClass:   "NSAID",
				Formulations: []entities.Formulation{
					{BrandName: "Brufen", Salt: "ibuprofen"},
					{BrandName: "Combiflam", Salt: "ibuprofen + paracetamol"},
				},
			},
			{
				GenericName: "Paracetamol",
				DrugClass:   "analgesic",
				Formulations: []entities.Formulation{
					{BrandName: "Calpol", Salt: "paracetamol"},
					{BrandName: "Dolo", Salt: "paracetamol"},
				},
			},
		},
		Interactions: []entities.InteractionRecord{
			{DrugA: "warfarin", DrugB: "ibuprofen", Severity: entities.SeverityMajor},
		},
		Contraindications: []entities.ContraindicationRecord{
			{Drug: "ibuprofen", Condition: "peptic ulcer disease", Severity: entities.SeverityMajor},
		},
		CrossAllergies: []entities.CrossAllergyEntry{
			{DrugClass: "nsaid", CrossReactsWith: []string{"salicylate"}},
		},
		DrugClasses: []entities.DrugClassEntry{
			{Drug: "aspirin", DrugClass: "salicylate"},
			// Explicit entry overriding the catalog class.
			{Drug: "paracetamol", DrugClass: "antipyretic"},
		},
		RenalDoses: []entities.RenalDoseRule{
			{Drug: "Metformin", Bands: []entities.RenalDoseBand{
				{EGFRMin: 45, EGFRMax: 999, Adjustment: "100%"},
			}},
		},
		HepaticDoses: []entities.HepaticDoseRule{
			{Drug: "Morphine", ChildPugh: "B", Adjustment: "50%"},
		},
	}
}

func TestBuildSnapshotDrugIndices(t *testing.T) {
	s := BuildSnapshot(testTables())

	if len(s.Drugs) != 3 {
		t.Fatalf("expected 3 drugs, got %d", len(s.Drugs))
	}
	if _, ok := s.Drug("WARFARIN"); !ok {
		t.Error("drug lookup should be case-insensitive")
	}
	if got := s.BrandIndex["brufen"]; got != "ibuprofen" {
		t.Errorf("brand index brufen = %q, want ibuprofen", got)
	}
	if generics := s.SaltIndex["paracetamol"]; len(generics) != 1 || generics[0] != "paracetamol" {
		t.Errorf("salt index paracetamol = %v", generics)
	}

	// Drug order must follow the table order for deterministic search.
	want := []string{"warfarin", "ibuprofen", "paracetamol"}
	if len(s.DrugOrder) != len(want) {
		t.Fatalf("DrugOrder length = %d, want %d", len(s.DrugOrder), len(want))
	}
	for i, generic := range want {
		if s.DrugOrder[i] != generic {
			t.Errorf("DrugOrder[%d] = %q, want %q", i, s.DrugOrder[i], generic)
		}
	}
}

func TestBuildSnapshotDuplicateGenericFirstWins(t *testing.T) {
	tables := testTables()
	tables.Drugs = append(tables.Drugs, entities.DrugRecord{
		GenericName: "warfarin",
		DrugClass:   "impostor",
	})

	s := BuildSnapshot(tables)
	if len(s.Drugs) != 3 {
		t.Fatalf("duplicate generic should be dropped, got %d drugs", len(s.Drugs))
	}
	if class := s.ClassOf("warfarin"); class != "vitamin k antagonist" {
		t.Errorf("first entry should win, class = %q", class)
	}
}

func TestInteractionLookupIsSymmetric(t *testing.T) {
	s := BuildSnapshot(testTables())

	ab, okAB := s.Interaction("warfarin", "ibuprofen")
	ba, okBA := s.Interaction("ibuprofen", "warfarin")
	if !okAB || !okBA {
		t.Fatal("interaction lookup should succeed in both directions")
	}
	if ab != ba {
		t.Error("interaction lookup should return the same record for both orderings")
	}

	// Case and accents must not matter either.
	if _, ok := s.Interaction("Warfarin", "IBUPROFEN"); !ok {
		t.Error("interaction lookup should be case-insensitive")
	}
}

func TestContraindicationLookupIsOrdered(t *testing.T) {
	s := BuildSnapshot(testTables())

	if _, ok := s.Contraindication("ibuprofen", "peptic ulcer disease"); !ok {
		t.Error("expected contraindication for (ibuprofen, peptic ulcer disease)")
	}
	// The contraindication key is (drug, condition), not an unordered pair.
	if _, ok := s.Contraindication("peptic ulcer disease", "ibuprofen"); ok {
		t.Error("reversed contraindication lookup should miss")
	}
}

func TestClassResolution(t *testing.T) {
	s := BuildSnapshot(testTables())

	// Catalog-derived class.
	if class := s.ClassOf("ibuprofen"); class != "nsaid" {
		t.Errorf("ClassOf(ibuprofen) = %q, want nsaid", class)
	}
	// Class-table-only drug.
	if class := s.ClassOf("aspirin"); class != "salicylate" {
		t.Errorf("ClassOf(aspirin) = %q, want salicylate", class)
	}
	// Explicit entries override the catalog.
	if class := s.ClassOf("paracetamol"); class != "antipyretic" {
		t.Errorf("ClassOf(paracetamol) = %q, want antipyretic", class)
	}
	if class := s.ClassOf("unknown-drug"); class != "" {
		t.Errorf("ClassOf(unknown) = %q, want empty", class)
	}
}

func TestCrossReactiveEitherDirection(t *testing.T) {
	s := BuildSnapshot(testTables())

	// Only nsaid -> salicylate is authored; both directions must hit.
	if !s.CrossReactive("nsaid", "salicylate") {
		t.Error("nsaid/salicylate should be cross-reactive")
	}
	if !s.CrossReactive("salicylate", "nsaid") {
		t.Error("cross-reactivity should be symmetric")
	}
	if s.CrossReactive("nsaid", "penicillin") {
		t.Error("nsaid/penicillin should not be cross-reactive")
	}
}

func TestHepaticDoseLookup(t *testing.T) {
	s := BuildSnapshot(testTables())

	if _, ok := s.HepaticDose("morphine", "B"); !ok {
		t.Error("expected hepatic rule for (morphine, B)")
	}
	if _, ok := s.HepaticDose("morphine", "C"); ok {
		t.Error("no hepatic rule authored for (morphine, C)")
	}
}

func TestEmptySnapshot(t *testing.T) {
	s := EmptySnapshot()
	if s == nil {
		t.Fatal("EmptySnapshot returned nil")
	}
	if len(s.Drugs) != 0 || len(s.Interactions) != 0 {
		t.Error("empty snapshot should have no data")
	}
	// Lookups against an empty snapshot must be safe.
	if _, ok := s.Drug("anything"); ok {
		t.Error("empty snapshot should not resolve drugs")
	}
}
