// Package refdata loads the clinical reference tables and builds the
// immutable in-memory snapshot every evaluator reads from. A snapshot is
// never mutated after construction; a reload builds a complete new
// snapshot off to the side and swaps it in atomically.
package refdata

import (
	"github.com/rxguard/rxguard-api/refdata/entities"
)

// Tables is the raw, file-shaped form of all reference data.
type Tables struct {
	Drugs             []entities.DrugRecord
	Interactions      []entities.InteractionRecord
	Contraindications []entities.ContraindicationRecord
	CrossAllergies    []entities.CrossAllergyEntry
	DrugClasses       []entities.DrugClassEntry
	RenalDoses        []entities.RenalDoseRule
	HepaticDoses      []entities.HepaticDoseRule
	PediatricDoses    []entities.PediatricDoseRule
	GeriatricRisks    []entities.GeriatricRiskEntry
	CriticalValues    []entities.CriticalValueThreshold
}

// Snapshot holds every index the evaluators need. All maps are keyed by
// normalized names and are read-only after BuildSnapshot returns.
type Snapshot struct {
	// Drug catalog indices.
	Drugs        map[string]entities.DrugRecord // generic -> record
	DrugOrder    []string                       // normalized generics in table order
	BrandIndex   map[string]string              // brand -> generic
	BrandOrder   []string
	SaltIndex    map[string][]string // salt -> generics (combination products share salts)
	SaltOrder    []string

	// Interaction graph, keyed by canonical unordered pair.
	Interactions map[pairKey]entities.InteractionRecord

	// (drug, condition) -> contraindication.
	Contraindications map[pairKey]entities.ContraindicationRecord

	// Allergy cross-reactivity and class resolution.
	CrossAllergies map[string]map[string]bool // class -> cross-reactive classes
	DrugClasses    map[string]string          // drug -> canonical class

	// Dose adjustment tables.
	RenalDoses     map[string]entities.RenalDoseRule
	HepaticDoses   map[pairKey]entities.HepaticDoseRule
	PediatricDoses map[string]entities.PediatricDoseRule
	GeriatricRisks map[string]entities.GeriatricRiskEntry

	// Critical values keep table order: test-name resolution is a
	// first-match substring scan.
	CriticalValues []entities.CriticalValueThreshold
}

// pairKey is a canonical key for an unordered pair of normalized names.
type pairKey struct {
	a, b string
}

func newPairKey(x, y string) pairKey {
	x, y = NormalizeName(x), NormalizeName(y)
	if x > y {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

// conditionKey keys the contraindication and hepatic tables, where the
// pair is ordered (drug, qualifier) rather than unordered.
func conditionKey(drug, qualifier string) pairKey {
	return pairKey{a: NormalizeName(drug), b: NormalizeName(qualifier)}
}

// BuildSnapshot constructs all lookup indices from raw tables.
func BuildSnapshot(t *Tables) *Snapshot {
	s := &Snapshot{
		Drugs:             make(map[string]entities.DrugRecord, len(t.Drugs)),
		BrandIndex:        make(map[string]string),
		SaltIndex:         make(map[string][]string),
		Interactions:      make(map[pairKey]entities.InteractionRecord, len(t.Interactions)),
		Contraindications: make(map[pairKey]entities.ContraindicationRecord, len(t.Contraindications)),
		CrossAllergies:    make(map[string]map[string]bool, len(t.CrossAllergies)),
		DrugClasses:       make(map[string]string, len(t.DrugClasses)),
		RenalDoses:        make(map[string]entities.RenalDoseRule, len(t.RenalDoses)),
		HepaticDoses:      make(map[pairKey]entities.HepaticDoseRule, len(t.HepaticDoses)),
		PediatricDoses:    make(map[string]entities.PediatricDoseRule, len(t.PediatricDoses)),
		GeriatricRisks:    make(map[string]entities.GeriatricRiskEntry, len(t.GeriatricRisks)),
		CriticalValues:    t.CriticalValues,
	}

	for _, drug := range t.Drugs {
		generic := NormalizeName(drug.GenericName)
		if _, exists := s.Drugs[generic]; exists {
			// Generic names are globally unique; first entry wins.
			continue
		}
		s.Drugs[generic] = drug
		s.DrugOrder = append(s.DrugOrder, generic)

		for _, f := range drug.Formulations {
			brand := NormalizeName(f.BrandName)
			if brand != "" {
				if _, exists := s.BrandIndex[brand]; !exists {
					s.BrandIndex[brand] = generic
					s.BrandOrder = append(s.BrandOrder, brand)
				}
			}

			salt := NormalizeName(f.Salt)
			if salt == "" {
				continue
			}
			if _, exists := s.SaltIndex[salt]; !exists {
				s.SaltOrder = append(s.SaltOrder, salt)
			}
			if !containsString(s.SaltIndex[salt], generic) {
				s.SaltIndex[salt] = append(s.SaltIndex[salt], generic)
			}
		}

		// The catalog class feeds the class index too, so a drug only
		// present in the catalog still resolves for duplicate-therapy
		// and cross-allergy checks.
		if drug.DrugClass != "" {
			s.DrugClasses[generic] = NormalizeName(drug.DrugClass)
		}
	}

	for _, interaction := range t.Interactions {
		s.Interactions[newPairKey(interaction.DrugA, interaction.DrugB)] = interaction
	}

	for _, contra := range t.Contraindications {
		s.Contraindications[conditionKey(contra.Drug, contra.Condition)] = contra
	}

	for _, entry := range t.CrossAllergies {
		class := NormalizeName(entry.DrugClass)
		set := make(map[string]bool, len(entry.CrossReactsWith))
		for _, other := range entry.CrossReactsWith {
			set[NormalizeName(other)] = true
		}
		s.CrossAllergies[class] = set
	}

	// Explicit class entries override catalog-derived classes.
	for _, entry := range t.DrugClasses {
		s.DrugClasses[NormalizeName(entry.Drug)] = NormalizeName(entry.DrugClass)
	}

	for _, rule := range t.RenalDoses {
		s.RenalDoses[NormalizeName(rule.Drug)] = rule
	}
	for _, rule := range t.HepaticDoses {
		s.HepaticDoses[conditionKey(rule.Drug, rule.ChildPugh)] = rule
	}
	for _, rule := range t.PediatricDoses {
		s.PediatricDoses[NormalizeName(rule.Drug)] = rule
	}
	for _, entry := range t.GeriatricRisks {
		s.GeriatricRisks[NormalizeName(entry.DrugClass)] = entry
	}

	return s
}

// EmptySnapshot returns a snapshot with every table empty, used as the
// container's initial value before the first load completes.
func EmptySnapshot() *Snapshot {
	return BuildSnapshot(&Tables{})
}

// Lookup helpers shared by the evaluators.

// Drug returns the catalog record for a generic name.
func (s *Snapshot) Drug(name string) (entities.DrugRecord, bool) {
	drug, ok := s.Drugs[NormalizeName(name)]
	return drug, ok
}

// Interaction returns the stored record for an unordered drug pair.
func (s *Snapshot) Interaction(drugA, drugB string) (entities.InteractionRecord, bool) {
	record, ok := s.Interactions[newPairKey(drugA, drugB)]
	return record, ok
}

// Contraindication returns the record for a (drug, condition) pair.
func (s *Snapshot) Contraindication(drug, condition string) (entities.ContraindicationRecord, bool) {
	record, ok := s.Contraindications[conditionKey(drug, condition)]
	return record, ok
}

// ClassOf resolves a drug to its canonical class, or "" if unknown.
func (s *Snapshot) ClassOf(drug string) string {
	return s.DrugClasses[NormalizeName(drug)]
}

// CrossReactive reports whether two drug classes are cross-reactive,
// in either direction.
func (s *Snapshot) CrossReactive(classA, classB string) bool {
	a, b := NormalizeName(classA), NormalizeName(classB)
	if set, ok := s.CrossAllergies[a]; ok && set[b] {
		return true
	}
	if set, ok := s.CrossAllergies[b]; ok && set[a] {
		return true
	}
	return false
}

// HepaticDose returns the rule for a (drug, Child-Pugh score) pair.
func (s *Snapshot) HepaticDose(drug, childPugh string) (entities.HepaticDoseRule, bool) {
	rule, ok := s.HepaticDoses[conditionKey(drug, childPugh)]
	return rule, ok
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
