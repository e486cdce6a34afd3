package domain

// BusinessAggregates are the running per-business feedback counters.
//
// The average is always recomputed from the per-star counters rather than
// maintained with an incremental formula, so repeated application stays exact:
// after any sequence of ApplyFeedback calls the average equals
// sum(ratings)/count(ratings). The SQL update in the business repository
// mirrors the same arithmetic.
type BusinessAggregates struct {
	TotalFeedback int64
	AverageRating float64
	Rating1       int64
	Rating2       int64
	Rating3       int64
	Rating4       int64
	Rating5       int64
}

// ApplyFeedback returns the aggregates after one more rating. rating must be
// in [1,5]; callers validate before reaching this point.
func (a BusinessAggregates) ApplyFeedback(rating int) BusinessAggregates {
	next := a
	switch rating {
	case 1:
		next.Rating1++
	case 2:
		next.Rating2++
	case 3:
		next.Rating3++
	case 4:
		next.Rating4++
	case 5:
		next.Rating5++
	}
	next.TotalFeedback = a.TotalFeedback + 1
	next.AverageRating = float64(next.WeightedSum()) / float64(next.TotalFeedback)
	return next
}

// WeightedSum is the sum of all recorded ratings, derived from the counters.
func (a BusinessAggregates) WeightedSum() int64 {
	return a.Rating1*1 + a.Rating2*2 + a.Rating3*3 + a.Rating4*4 + a.Rating5*5
}

// CounterSum is the number of recorded ratings, derived from the counters.
// It equals TotalFeedback whenever the aggregates are consistent.
func (a BusinessAggregates) CounterSum() int64 {
	return a.Rating1 + a.Rating2 + a.Rating3 + a.Rating4 + a.Rating5
}
