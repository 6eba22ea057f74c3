package refdata

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	loader := NewLoader("")

	tables, err := loader.Load()
	if err != nil {
		t.Fatalf("Load with embedded defaults failed: %v", err)
	}

	if len(tables.Drugs) == 0 {
		t.Error("embedded drug catalog should not be empty")
	}
	if len(tables.Interactions) == 0 {
		t.Error("embedded interaction table should not be empty")
	}
	if len(tables.CriticalValues) == 0 {
		t.Error("embedded critical-value table should not be empty")
	}
}

func TestLoadSnapshotBuildsIndices(t *testing.T) {
	snapshot, err := NewLoader("").LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if _, ok := snapshot.Drug("warfarin"); !ok {
		t.Error("embedded catalog should contain warfarin")
	}
	if _, ok := snapshot.Interaction("warfarin", "aspirin"); !ok {
		t.Error("embedded interactions should contain warfarin/aspirin")
	}
}

func TestLoadDirectoryOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	custom := `[{"genericName": "testdrug", "drugClass": "testclass"}]`
	if err := os.WriteFile(filepath.Join(dir, "drugs.json"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	tables, err := NewLoader(dir).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(tables.Drugs) != 1 || tables.Drugs[0].GenericName != "testdrug" {
		t.Errorf("directory file should override embedded default, got %d drugs", len(tables.Drugs))
	}
	// Tables not present in the directory still come from the embedded set.
	if len(tables.Interactions) == 0 {
		t.Error("missing directory file should fall back to embedded default")
	}
}

func TestLoadMalformedFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "drugs.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	tables, err := NewLoader(dir).Load()
	if err != nil {
		t.Fatalf("a malformed file must degrade, not fail the load: %v", err)
	}
	if len(tables.Drugs) == 0 {
		t.Error("malformed file should fall back to the embedded default")
	}
}
