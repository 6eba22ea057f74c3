// Package drugkb exposes search and lookup over the canonical drug
// catalog: generic names, brand cross-index and salt cross-index.
package drugkb

import (
	"strings"

	"github.com/rxguard/rxguard-api/interfaces"
	"github.com/rxguard/rxguard-api/refdata"
	"github.com/rxguard/rxguard-api/refdata/entities"
)

// KnowledgeBase answers drug catalog queries against the current
// snapshot. It holds no state of its own, so concurrent use needs no
// coordination.
type KnowledgeBase struct {
	store interfaces.SnapshotStore
}

// NewKnowledgeBase creates a knowledge base reading from store.
func NewKnowledgeBase(store interfaces.SnapshotStore) *KnowledgeBase {
	return &KnowledgeBase{store: store}
}

// Search finds drugs whose generic name, brand name or salt contains
// the query, case- and accent-insensitively. Generic matches rank
// before brand matches, which rank before salt matches; results are
// de-duplicated by generic name and truncated to limit.
//
// This is a deliberate linear substring scan in table order, so match
// priority is deterministic. No fuzzy or phonetic matching.
func (kb *KnowledgeBase) Search(query string, limit int) []entities.DrugRecord {
	needle := refdata.NormalizeName(query)
	if needle == "" || limit <= 0 {
		return nil
	}
	snapshot := kb.store.GetSnapshot()

	var results []entities.DrugRecord
	seen := make(map[string]bool)

	appendMatch := func(generic string) bool {
		if seen[generic] {
			return len(results) < limit
		}
		drug, ok := snapshot.Drugs[generic]
		if !ok {
			return len(results) < limit
		}
		seen[generic] = true
		results = append(results, drug)
		return len(results) < limit
	}

	for _, generic := range snapshot.DrugOrder {
		if strings.Contains(generic, needle) {
			if !appendMatch(generic) {
				return results
			}
		}
	}

	for _, brand := range snapshot.BrandOrder {
		if strings.Contains(brand, needle) {
			if !appendMatch(snapshot.BrandIndex[brand]) {
				return results
			}
		}
	}

	for _, salt := range snapshot.SaltOrder {
		if !strings.Contains(salt, needle) {
			continue
		}
		for _, generic := range snapshot.SaltIndex[salt] {
			if !appendMatch(generic) {
				return results
			}
		}
	}

	return results
}

// GetByGenericName returns the catalog record for a generic name.
// A miss returns ok=false, never an error: missing catalog data must
// not block a prescription flow.
func (kb *KnowledgeBase) GetByGenericName(name string) (entities.DrugRecord, bool) {
	return kb.store.GetSnapshot().Drug(name)
}

// GetBySalt returns every generic that ships a formulation with the
// given salt. Combination products make this one-to-many.
func (kb *KnowledgeBase) GetBySalt(salt string) []entities.DrugRecord {
	snapshot := kb.store.GetSnapshot()
	generics := snapshot.SaltIndex[refdata.NormalizeName(salt)]

	results := make([]entities.DrugRecord, 0, len(generics))
	for _, generic := range generics {
		if drug, ok := snapshot.Drugs[generic]; ok {
			results = append(results, drug)
		}
	}
	return results
}

// GetFormulations returns all marketed formulations of a generic.
func (kb *KnowledgeBase) GetFormulations(generic string) ([]entities.Formulation, bool) {
	drug, ok := kb.store.GetSnapshot().Drug(generic)
	if !ok {
		return nil, false
	}
	return drug.Formulations, true
}
