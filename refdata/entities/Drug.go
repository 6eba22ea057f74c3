package entities

// PregnancyCategory follows the A < B < C < D < X ordering, X being an
// absolute contraindication during pregnancy.
type PregnancyCategory string

const (
	PregnancyA PregnancyCategory = "A"
	PregnancyB PregnancyCategory = "B"
	PregnancyC PregnancyCategory = "C"
	PregnancyD PregnancyCategory = "D"
	PregnancyX PregnancyCategory = "X"
)

// Teratogenic reports whether the category forbids use during pregnancy.
func (p PregnancyCategory) Teratogenic() bool {
	return p == PregnancyD || p == PregnancyX
}

// Formulation is one marketed presentation of a generic drug.
type Formulation struct {
	BrandName    string  `json:"brandName"`
	Salt         string  `json:"salt"`
	Strength     string  `json:"strength"`
	DosageForm   string  `json:"dosageForm"`
	Manufacturer string  `json:"manufacturer"`
	PriceApprox  float64 `json:"priceApprox"`
}

// DrugRecord is the canonical catalog entry, keyed by generic name.
// Generic names are globally unique within a snapshot.
type DrugRecord struct {
	GenericName       string            `json:"genericName"`
	DrugClass         string            `json:"drugClass"`
	Category          string            `json:"category"`
	Formulations      []Formulation     `json:"formulations"`
	CommonDoses       []string          `json:"commonDoses"`
	MaxDailyDose      string            `json:"maxDailyDose"`
	PregnancyCategory PregnancyCategory `json:"pregnancyCategory"`
	LactationSafe     bool              `json:"lactationSafe"`
	MonitoringTests   []string          `json:"monitoringTests"`
}
