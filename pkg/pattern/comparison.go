package pattern

// Comparison represents first-versus-last metric comparisons.
type Comparison struct {
	Label   string           `json:"label"`
	Changes []ComparisonItem `json:"changes"`
}

// ComparisonItem is a single before/after delta.
type ComparisonItem struct {
	Label  string  `json:"label"`
	Before string  `json:"before"`
	After  string  `json:"after"`
	Change float64 `json:"change"` // positive or negative
	Unit   string  `json:"unit"`   // e.g. "%", "s"
}

func (c *Comparison) Type() PatternType { return PatternTypeComparison }
