package reviews

import "github.com/shopspring/decimal"

// roundHalfUp rounds to one decimal place with half-up semantics, matching
// how stored per-review overall ratings are computed.
func roundHalfUp(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(value).Round(1).Float64()
	return rounded
}

// overallOf computes the mean of the non-zero category scores to one decimal,
// half-up. All-zero scores yield 0.0.
func overallOf(scores CategoryScores) float64 {
	sum := 0
	count := 0
	for _, score := range []int{scores.Coffee, scores.Food, scores.Place, scores.Price} {
		if score > 0 {
			sum += score
			count++
		}
	}
	if count == 0 {
		return 0
	}
	mean := decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(count)))
	rounded, _ := mean.Round(1).Float64()
	return rounded
}
