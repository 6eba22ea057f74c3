package drugkb

import (
	"os"
	"testing"

	"github.com/rxguard/rxguard-api/data"
	"github.com/rxguard/rxguard-api/refdata"
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

func TestSearchByGenericName(t *testing.T) {
	kb := NewKnowledgeBase(testContainer)

	results := kb.Search("warfarin", 10)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].GenericName != "warfarin" {
		t.Errorf("got %q, want warfarin", results[0].GenericName)
	}
}

func TestSearchIsCaseAndAccentInsensitive(t *testing.T) {
	kb := NewKnowledgeBase(testContainer)

	testCases := []struct {
		name  string
		query string
	}{
		{"uppercase", "WARFARIN"},
		{"mixed case", "WarFarIn"},
		{"accented", "warfarín"},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			results := kb.Search(tt.query, 10)
			if len(results) != 1 || results[0].GenericName != "warfarin" {
				t.Errorf("Search(%q) = %v results", tt.query, len(results))
			}
		})
	}
}

func TestSearchByBrandName(t *testing.T) {
	kb := NewKnowledgeBase(testContainer)

	results := kb.Search("brufen", 10)
	if len(results) != 1 {
		t.Fatalf("expected 1 result for brand search, got %d", len(results))
	}
	if results[0].GenericName != "ibuprofen" {
		t.Errorf("brand brufen should resolve to ibuprofen, got %q", results[0].GenericName)
	}
}

func TestSearchBySaltIncludesCombinations(t *testing.T) {
	kb := NewKnowledgeBase(testContainer)

	// "paracetamol" matches the generic itself plus the ibuprofen
	// combination salt; the generic must rank first and each drug
	// appear once.
	results := kb.Search("paracetamol", 10)
	if len(results) < 2 {
		t.Fatalf("expected the generic and the combination product, got %d results", len(results))
	}
	if results[0].GenericName != "paracetamol" {
		t.Errorf("generic match should rank first, got %q", results[0].GenericName)
	}

	seen := make(map[string]bool)
	for _, drug := range results {
		if seen[drug.GenericName] {
			t.Errorf("duplicate result for %q", drug.GenericName)
		}
		seen[drug.GenericName] = true
	}
	if !seen["ibuprofen"] {
		t.Error("combination salt should surface ibuprofen")
	}
}

func TestSearchRespectsLimit(t *testing.T) {
	kb := NewKnowledgeBase(testContainer)

	results := kb.Search("a", 3)
	if len(results) != 3 {
		t.Errorf("expected exactly 3 results with limit 3, got %d", len(results))
	}
}

func TestSearchNoMatch(t *testing.T) {
	kb := NewKnowledgeBase(testContainer)

	if results := kb.Search("zzzznotadrug", 10); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
	if results := kb.Search("", 10); len(results) != 0 {
		t.Errorf("empty query should return nothing, got %d", len(results))
	}
	if results := kb.Search("warfarin", 0); len(results) != 0 {
		t.Errorf("zero limit should return nothing, got %d", len(results))
	}
}

func TestGetByGenericName(t *testing.T) {
	kb := NewKnowledgeBase(testContainer)

	drug, ok := kb.GetByGenericName("Metformin")
	if !ok {
		t.Fatal("metformin should be in the catalog")
	}
	if drug.DrugClass != "biguanide" {
		t.Errorf("metformin class = %q, want biguanide", drug.DrugClass)
	}

	if _, ok := kb.GetByGenericName("nonexistent"); ok {
		t.Error("unknown generic should return ok=false")
	}
}

func TestGetBySalt(t *testing.T) {
	kb := NewKnowledgeBase(testContainer)

	results := kb.GetBySalt("warfarin sodium")
	if len(results) != 1 || results[0].GenericName != "warfarin" {
		t.Errorf("GetBySalt(warfarin sodium) = %d results", len(results))
	}

	if results := kb.GetBySalt("no such salt"); len(results) != 0 {
		t.Errorf("unknown salt should return nothing, got %d", len(results))
	}
}

func TestGetFormulations(t *testing.T) {
	kb := NewKnowledgeBase(testContainer)

	formulations, ok := kb.GetFormulations("paracetamol")
	if !ok {
		t.Fatal("paracetamol should have formulations")
	}
	if len(formulations) == 0 {
		t.Error("expected at least one formulation")
	}

	if _, ok := kb.GetFormulations("nonexistent"); ok {
		t.Error("unknown generic should return ok=false")
	}
}
