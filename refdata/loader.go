package refdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rxguard/rxguard-api/logging"
)

// Table file names looked up inside the data directory. The same names
// are used for the embedded defaults.
const (
	drugsFile             = "drugs.json"
	interactionsFile      = "interactions.json"
	contraindicationsFile = "contraindications.json"
	crossAllergiesFile    = "cross_allergies.json"
	drugClassesFile       = "drug_classes.json"
	renalDosesFile        = "renal_doses.json"
	hepaticDosesFile      = "hepatic_doses.json"
	pediatricDosesFile    = "pediatric_doses.json"
	geriatricRiskFile     = "geriatric_risk.json"
	criticalValuesFile    = "critical_values.json"
)

//go:embed tables/*.json
var defaultTables embed.FS

// Loader reads the reference tables from a data directory, falling back
// to the curated tables compiled into the binary. A missing or
// malformed file never fails the load: the affected table degrades to
// its default (or to empty) and the condition is logged, because a
// partially degraded safety check is preferable to no consultation
// flow at all.
type Loader struct {
	dir string
}

// NewLoader creates a loader rooted at dir. An empty dir means
// embedded defaults only.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load reads every reference table and returns the raw table set.
func (l *Loader) Load() (*Tables, error) {
	t := &Tables{}
	loadTable(l.dir, drugsFile, &t.Drugs)
	loadTable(l.dir, interactionsFile, &t.Interactions)
	loadTable(l.dir, contraindicationsFile, &t.Contraindications)
	loadTable(l.dir, crossAllergiesFile, &t.CrossAllergies)
	loadTable(l.dir, drugClassesFile, &t.DrugClasses)
	loadTable(l.dir, renalDosesFile, &t.RenalDoses)
	loadTable(l.dir, hepaticDosesFile, &t.HepaticDoses)
	loadTable(l.dir, pediatricDosesFile, &t.PediatricDoses)
	loadTable(l.dir, geriatricRiskFile, &t.GeriatricRisks)
	loadTable(l.dir, criticalValuesFile, &t.CriticalValues)

	if len(t.Drugs) == 0 && len(t.Interactions) == 0 {
		// Every table empty means even the embedded defaults failed,
		// which should never happen outside a broken build.
		return t, fmt.Errorf("no reference data could be loaded")
	}
	return t, nil
}

// LoadSnapshot is the usual entry point: load tables and build indices.
func (l *Loader) LoadSnapshot() (*Snapshot, error) {
	tables, err := l.Load()
	if err != nil {
		return nil, err
	}
	return BuildSnapshot(tables), nil
}

// loadTable fills dest from dir/name when present, otherwise from the
// embedded default. dest must be a pointer to a slice.
func loadTable(dir, name string, dest any) {
	if dir != "" {
		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(filepath.Clean(path))
		switch {
		case err == nil:
			if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
				return
			} else {
				logging.Error("Malformed reference table, falling back to embedded default",
					"file", path, "error", jsonErr)
			}
		case os.IsNotExist(err):
			logging.Debug("Reference table not present in data directory, using embedded default",
				"file", path)
		default:
			logging.Error("Could not read reference table, falling back to embedded default",
				"file", path, "error", err)
		}
	}

	raw, err := defaultTables.ReadFile("tables/" + name)
	if err != nil {
		logging.Error("Embedded reference table missing; table degrades to empty", "file", name, "error", err)
		return
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		logging.Error("Embedded reference table malformed; table degrades to empty", "file", name, "error", err)
	}
}
