package dashboard

import "math"

// CategoryScore is one category's input to the pie breakdown. Score must
// be non-negative; callers pass categories in the fixed dashboard order
// (fitness, calories, expenses, attendance, todos) because the rounding
// fixup below is position-dependent.
type CategoryScore struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Score  float64 `json:"score"`
	Detail string  `json:"detail"`
	Color  string  `json:"color"`
}

// Slice is one category's normalized share of the 100-point breakdown.
type Slice struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	Score        float64 `json:"score"`
	Detail       string  `json:"detail"`
	Color        string  `json:"color"`
	Contribution float64 `json:"contribution"`
	Percentage   int     `json:"percentage"`
	ValueLabel   string  `json:"valueLabel"`
}

// NormalizeSlices converts independent scores into a percentage partition.
// With all-zero scores every category gets an equal contribution. Each
// percentage is the rounded contribution except the last, which is forced
// to 100 minus the others so the total is exactly 100 regardless of
// rounding drift.
func NormalizeSlices(categories []CategoryScore) []Slice {
	total := 0.0
	for _, c := range categories {
		total += c.Score
	}

	slices := make([]Slice, 0, len(categories))
	accumulated := 0
	for i, c := range categories {
		contribution := 0.0
		if total > 0 {
			contribution = c.Score / total
		} else if len(categories) > 0 {
			contribution = 1 / float64(len(categories))
		}

		var percentage int
		if i == len(categories)-1 {
			percentage = 100 - accumulated
		} else {
			percentage = int(math.Round(contribution * 100))
			accumulated += percentage
		}

		slices = append(slices, Slice{
			ID:           c.ID,
			Label:        c.Label,
			Score:        c.Score,
			Detail:       c.Detail,
			Color:        c.Color,
			Contribution: contribution,
			Percentage:   percentage,
			ValueLabel:   c.Detail,
		})
	}
	return slices
}
