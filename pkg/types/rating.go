package types

// RatingAggregate is the per-shop derived rating view. Every average is the
// mean over reviews where that category is non-zero; ReviewCount counts all
// review rows regardless of which categories were filled. A shop with no
// reviews yields the zero value, never nulls.
type RatingAggregate struct {
	AvgOverall  float64 `json:"avg_overall"`
	AvgCoffee   float64 `json:"avg_coffee"`
	AvgFood     float64 `json:"avg_food"`
	AvgPlace    float64 `json:"avg_place"`
	AvgPrice    float64 `json:"avg_price"`
	ReviewCount int64   `json:"review_count"`
}
