// Package reviews maintains the one-review-per-user invariant on a
// dentist's rating list. The functions operate on the in-memory list; the
// store applies the result as a single conditional document write so a
// concurrent reader never observes the replace half-done.
package reviews

import (
	"time"

	"github.com/dentaheal/booking-api/internal/apperr"
	"github.com/dentaheal/booking-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinScore = 1
	MaxScore = 5
)

// Upsert replaces any existing rating by userID with a fresh one stamped at
// now. The returned list holds exactly one rating for userID.
func Upsert(ratings []models.Rating, userID primitive.ObjectID, score int, reviewText string, now time.Time) ([]models.Rating, error) {
	if score < MinScore || score > MaxScore {
		return nil, apperr.Validation("score must be between %d and %d, got %d", MinScore, MaxScore, score)
	}

	out := Remove(ratings, userID)
	out = append(out, models.Rating{
		UserID:     userID,
		Score:      score,
		ReviewText: reviewText,
		CreatedAt:  now,
	})
	return out, nil
}

// Remove drops userID's rating if present. Removing an absent rating is a
// no-op, not an error.
func Remove(ratings []models.Rating, userID primitive.ObjectID) []models.Rating {
	out := make([]models.Rating, 0, len(ratings))
	for _, r := range ratings {
		if r.UserID != userID {
			out = append(out, r)
		}
	}
	return out
}

// Average returns the mean score. The second return is false when there are
// no ratings; callers must not render a zero average in that case.
func Average(ratings []models.Rating) (float64, bool) {
	if len(ratings) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Score
	}
	return float64(sum) / float64(len(ratings)), true
}
