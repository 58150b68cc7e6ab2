package model

// Stats is the aggregate view over the full entry history.
// Both maps are always non-nil so an empty store encodes as {}.
type Stats struct {
	Overall    map[string]float64            `json:"overall"`     // emotion -> mean intensity
	ByQuestion map[string]map[string]float64 `json:"by_question"` // emotion -> question key -> mean weight
}
