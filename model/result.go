package model

// LinkResult reports the outcome of a corpus-wide linking pass
type LinkResult struct {
	CreatedByType map[RelationType]int `json:"created_by_type"`
	Analyzed      int                  `json:"analyzed"`
	Skipped       int                  `json:"skipped"`
}

// TotalCreated sums the created edge counts over all relationship types
func (r *LinkResult) TotalCreated() int {
	total := 0
	for _, count := range r.CreatedByType {
		total += count
	}
	return total
}
