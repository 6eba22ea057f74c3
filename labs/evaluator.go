// Package labs evaluates single lab results against the critical-value
// threshold table, independent of the prescription flow.
package labs

import (
	"fmt"
	"strings"

	"github.com/rxguard/rxguard-api/interfaces"
	"github.com/rxguard/rxguard-api/refdata"
	"github.com/rxguard/rxguard-api/refdata/entities"
)

// CriticalValueEvaluator flags lab values outside their critical
// bounds. One instance serves all tests.
type CriticalValueEvaluator struct {
	store interfaces.SnapshotStore
}

// NewCriticalValueEvaluator creates an evaluator reading from store.
func NewCriticalValueEvaluator(store interfaces.SnapshotStore) *CriticalValueEvaluator {
	return &CriticalValueEvaluator{store: store}
}

// Check resolves testName against the threshold table with a
// case-insensitive substring scan in table order (first match wins; the
// table is curated to avoid ambiguous prefixes) and compares value
// against the test's critical bounds. Returns (nil) for an unrecognized
// test or an in-bounds value; it never fails.
func (e *CriticalValueEvaluator) Check(testName string, value float64) *entities.Alert {
	threshold, ok := e.resolve(testName)
	if !ok {
		return nil
	}

	var direction, bound string
	switch {
	case threshold.CriticalLow != nil && value < *threshold.CriticalLow:
		direction = "LOW"
		bound = fmt.Sprintf("below critical low %.1f %s", *threshold.CriticalLow, threshold.Unit)
	case threshold.CriticalHigh != nil && value > *threshold.CriticalHigh:
		direction = "HIGH"
		bound = fmt.Sprintf("above critical high %.1f %s", *threshold.CriticalHigh, threshold.Unit)
	default:
		return nil
	}

	message := fmt.Sprintf("%s %.1f %s is %s. %s. Recommended actions: %s",
		threshold.TestName, value, threshold.Unit, bound, threshold.Warning,
		strings.Join(threshold.Actions, "; "))

	alert := entities.Alert{
		Type:     entities.AlertCriticalValue,
		Severity: entities.SeverityCritical,
		Title:    fmt.Sprintf("CRITICAL %s: %s", direction, threshold.TestName),
		Message:  message,
		Details: map[string]string{
			"test":      threshold.TestName,
			"value":     fmt.Sprintf("%.1f", value),
			"unit":      threshold.Unit,
			"direction": direction,
		},
		// A critical lab value is an acknowledgment, not a gate on a
		// prescription, so it is always overridable with a reason.
		CanOverride:            true,
		OverrideRequiresReason: true,
	}
	return &alert
}

// resolve finds the first threshold whose test name contains (or is
// contained in) the queried name.
func (e *CriticalValueEvaluator) resolve(testName string) (entities.CriticalValueThreshold, bool) {
	needle := refdata.NormalizeName(testName)
	if needle == "" {
		return entities.CriticalValueThreshold{}, false
	}

	for _, threshold := range e.store.GetSnapshot().CriticalValues {
		key := refdata.NormalizeName(threshold.TestName)
		if strings.Contains(key, needle) || strings.Contains(needle, key) {
			return threshold, true
		}
	}
	return entities.CriticalValueThreshold{}, false
}
