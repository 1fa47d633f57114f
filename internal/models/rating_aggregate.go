package models

// RatingAggregate is the derived average of a user's received review
// scores. It is recomputed from Review rows and cached; the cache is
// never the source of truth.
type RatingAggregate struct {
	Professionalism float64 `json:"professionalism"`
	Reliability     float64 `json:"reliability"`
	Communication   float64 `json:"communication"`
	Overall         float64 `json:"overall"`
	TotalReviews    int64   `json:"total_reviews"`
}

// ZeroRatingAggregate is the aggregate for a user with no reviews.
// All-zero averages are a legitimate value, not an absent one.
func ZeroRatingAggregate() *RatingAggregate {
	return &RatingAggregate{}
}
