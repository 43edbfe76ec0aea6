package rating

import (
	"math"
	"time"
)

const defaultReviewScore = 3.0

// AggregateReviews computes the recency- and helpfulness-weighted mean of
// parent review ratings in [1.0, 5.0]. No reviews yields the neutral 3.0.
// A review without a date weighs in at the oldest recency tier.
func AggregateReviews(reviews []ReviewRecord, now time.Time) float64 {
	if len(reviews) == 0 {
		return defaultReviewScore
	}

	weightedSum := 0.0
	totalWeight := 0.0
	for _, review := range reviews {
		rating := clamp(review.Rating, 1.0, 5.0)

		recency := 0.5
		if !review.Date.IsZero() {
			ageMonths := 0.0
			if review.Date.Before(now) {
				ageMonths = now.Sub(review.Date).Hours() / 24 / daysPerMonth
			}
			recency = math.Max(0.5, 1.0-ageMonths/24.0)
		}
		helpfulness := math.Min(1.5, 1.0+float64(review.HelpfulVotes)/10.0)

		weight := recency * helpfulness
		weightedSum += rating * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return defaultReviewScore
	}
	return clamp(weightedSum/totalWeight, 1.0, 5.0)
}
