package labs

import (
	"os"
	"strings"
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

func TestCheckCriticalHigh(t *testing.T) {
	evaluator := NewCriticalValueEvaluator(testContainer)

	alert := evaluator.Check("potassium", 6.5)
	if alert == nil {
		t.Fatal("potassium 6.5 is above the critical high")
	}
	if alert.Type != entities.AlertCriticalValue {
		t.Errorf("alert type = %v, want critical_value", alert.Type)
	}
	if alert.Severity != entities.SeverityCritical {
		t.Errorf("severity = %v, want CRITICAL", alert.Severity)
	}
	if alert.Details["direction"] != "HIGH" {
		t.Errorf("direction = %q, want HIGH", alert.Details["direction"])
	}
	if !strings.Contains(alert.Message, "arrhythmia") {
		t.Errorf("message should carry the clinical warning: %q", alert.Message)
	}
	if !alert.CanOverride || !alert.OverrideRequiresReason {
		t.Error("a critical value is an acknowledgment: overridable with a reason")
	}
}

func TestCheckCriticalLow(t *testing.T) {
	evaluator := NewCriticalValueEvaluator(testContainer)

	alert := evaluator.Check("potassium", 2.0)
	if alert == nil {
		t.Fatal("potassium 2.0 is below the critical low")
	}
	if alert.Details["direction"] != "LOW" {
		t.Errorf("direction = %q, want LOW", alert.Details["direction"])
	}
}

func TestCheckInBoundsValue(t *testing.T) {
	evaluator := NewCriticalValueEvaluator(testContainer)

	testCases := []struct {
		name  string
		test  string
		value float64
	}{
		{"normal potassium", "potassium", 4.0},
		{"exactly at critical high", "potassium", 6.0}, // bounds are exclusive
		{"exactly at critical low", "potassium", 2.5},
		{"normal sodium", "sodium", 140},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			if alert := evaluator.Check(tt.test, tt.value); alert != nil {
				t.Errorf("Check(%s, %.1f) should be nil, got %+v", tt.test, tt.value, alert)
			}
		})
	}
}

func TestCheckOneSidedThreshold(t *testing.T) {
	evaluator := NewCriticalValueEvaluator(testContainer)

	// Creatinine has no authored critical low: arbitrarily small values
	// never alert.
	if alert := evaluator.Check("creatinine", 0.1); alert != nil {
		t.Error("creatinine has no critical low")
	}
	if alert := evaluator.Check("creatinine", 5.0); alert == nil {
		t.Error("creatinine 5.0 is above the critical high")
	}
}

func TestCheckUnknownTest(t *testing.T) {
	evaluator := NewCriticalValueEvaluator(testContainer)

	if alert := evaluator.Check("troponin", 99); alert != nil {
		t.Error("an unrecognized test never alerts")
	}
	if alert := evaluator.Check("", 99); alert != nil {
		t.Error("an empty test name never alerts")
	}
}

func TestCheckResolvesNameVariants(t *testing.T) {
	evaluator := NewCriticalValueEvaluator(testContainer)

	testCases := []struct {
		name string
		test string
	}{
		{"uppercase", "POTASSIUM"},
		{"longer clinical phrasing", "serum potassium"},
		{"surrounding whitespace", "  potassium  "},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			if alert := evaluator.Check(tt.test, 6.5); alert == nil {
				t.Errorf("Check(%q) should resolve to the potassium threshold", tt.test)
			}
		})
	}
}
