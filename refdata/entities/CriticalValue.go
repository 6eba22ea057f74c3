package entities

// CriticalValueThreshold defines the panic limits for one lab test.
// Either bound may be absent (creatinine has no critical-low, for
// example), so both are pointers.
type CriticalValueThreshold struct {
	TestName     string   `json:"testName"`
	Unit         string   `json:"unit"`
	CriticalLow  *float64 `json:"criticalLow,omitempty"`
	CriticalHigh *float64 `json:"criticalHigh,omitempty"`
	Warning      string   `json:"warning"`
	Actions      []string `json:"actions"`
}
