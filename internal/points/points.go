// Package points holds the submission reward formula.
package points

// Floor is the minimum award regardless of submission order.
const Floor = 10

// Award computes the points for the order-th submission to a task
// (1-indexed across all submitters): each later submitter loses 10% of
// max points, floored at Floor. Integer arithmetic throughout; 0.1 has
// no exact float representation and drifts below round multiples.
func Award(maxPoints, order int) int {
	if order < 1 {
		order = 1
	}
	tenths := 10 - (order - 1)
	if tenths < 0 {
		tenths = 0
	}
	raw := maxPoints * tenths / 10
	if raw < Floor {
		return Floor
	}
	return raw
}
