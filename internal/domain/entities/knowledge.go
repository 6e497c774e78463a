package entities

// Disease is one knowledge-base entry describing a condition
type Disease struct {
	Name        string   `json:"name"`
	Symptoms    []string `json:"symptoms"`
	RiskFactors []string `json:"risk_factors,omitempty"`
	Treatments  []string `json:"treatments,omitempty"`
	Severity    string   `json:"severity,omitempty"`
	Urgency     string   `json:"urgency,omitempty"`
}

// DrugInteraction records a known interaction between two medications
type DrugInteraction struct {
	DrugA       string `json:"drug_a"`
	DrugB       string `json:"drug_b"`
	Severity    string `json:"severity"`
	Description string `json:"description,omitempty"`
}

// AllergyWarning records a medication to avoid for a given allergy
type AllergyWarning struct {
	Allergy     string   `json:"allergy"`
	AvoidDrugs  []string `json:"avoid_drugs"`
	Description string   `json:"description,omitempty"`
}

// KnowledgeBase is the on-disk shape of the medical knowledge file
type KnowledgeBase struct {
	Diseases     []Disease         `json:"diseases"`
	Interactions []DrugInteraction `json:"interactions"`
	Allergies    []AllergyWarning  `json:"allergies"`
}
