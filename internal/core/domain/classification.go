package domain

// Category is one of the fixed agricultural-industry tags assigned to a
// document. The set is closed; anything that does not fit is Unclassified.
type Category string

const (
	CategoryPlanting             Category = "Planting"
	CategoryLivestock            Category = "Livestock"
	CategoryInputsSoil           Category = "Inputs-Soil"
	CategoryAgriFinance          Category = "Agri-Finance"
	CategorySupplyChainStorage   Category = "SupplyChain-Storage"
	CategoryClimateRemoteSensing Category = "Climate-RemoteSensing"
	CategoryAgriIoT              Category = "Agri-IoT"
	CategoryUnclassified         Category = "Unclassified"
)

// Categories lists the classifiable tags in their canonical order.
// Unclassified is excluded: it is an outcome, not a target class.
var Categories = []Category{
	CategoryPlanting,
	CategoryLivestock,
	CategoryInputsSoil,
	CategoryAgriFinance,
	CategorySupplyChainStorage,
	CategoryClimateRemoteSensing,
	CategoryAgriIoT,
}

// MethodNoMatch labels the terminal outcome of the classification cascade
// when no strategy produced a usable result.
const MethodNoMatch = "no match"

// ClassificationResult is the outcome of one classification call.
// Invariant: Category == Unclassified iff Confidence == 0 and
// Method == MethodNoMatch.
type ClassificationResult struct {
	Category     Category `json:"category"`
	Confidence   float64  `json:"confidence"`
	Method       string   `json:"method"`
	MatchedTerms []string `json:"matched_terms,omitempty"`
}

// Unclassified returns the canonical no-answer result.
func Unclassified() ClassificationResult {
	return ClassificationResult{
		Category:   CategoryUnclassified,
		Confidence: 0,
		Method:     MethodNoMatch,
	}
}
