package entities

// InteractionRecord describes a drug-drug interaction. The pair is
// unordered: lookups for (A,B) and (B,A) must return the same record.
type InteractionRecord struct {
	DrugA          string   `json:"drugA"`
	DrugB          string   `json:"drugB"`
	Severity       Severity `json:"severity"`
	Mechanism      string   `json:"mechanism"`
	ClinicalEffect string   `json:"clinicalEffect"`
	Management     string   `json:"management"`
	EvidenceLevel  string   `json:"evidenceLevel"`
}

// ContraindicationRecord forbids (or cautions against) a drug for a
// patient condition and proposes alternatives.
type ContraindicationRecord struct {
	Drug         string   `json:"drug"`
	Condition    string   `json:"condition"`
	Severity     Severity `json:"severity"`
	Reason       string   `json:"reason"`
	Alternatives []string `json:"alternatives"`
}

// CrossAllergyEntry maps a drug class to the classes it is
// cross-reactive with.
type CrossAllergyEntry struct {
	DrugClass       string   `json:"drugClass"`
	CrossReactsWith []string `json:"crossReactsWith"`
}

// DrugClassEntry assigns a drug its single canonical class.
type DrugClassEntry struct {
	Drug      string `json:"drug"`
	DrugClass string `json:"drugClass"`
}
