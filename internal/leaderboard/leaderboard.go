// Package leaderboard aggregates awarded points into a ranked view.
package leaderboard

import "sort"

// Submission is the slice of a submission row the aggregator needs.
type Submission struct {
	StudentID string
	Points    int
}

// Entry is one leaderboard row. Display identity is joined by the caller.
type Entry struct {
	StudentID   string `json:"student_id"`
	DisplayName string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	TotalPoints int    `json:"total_points"`
	Submissions int    `json:"submissions_count"`
	Rank        int    `json:"rank"`
}

// Aggregate groups submissions by student, sums points, sorts by total
// points descending and assigns positional ranks 1..N. Ties are not
// merged; they are broken deterministically by submission count
// ascending (fewer submissions for the same points ranks higher), then
// by student ID.
func Aggregate(subs []Submission) []Entry {
	byStudent := make(map[string]*Entry)
	for _, s := range subs {
		e, ok := byStudent[s.StudentID]
		if !ok {
			e = &Entry{StudentID: s.StudentID}
			byStudent[s.StudentID] = e
		}
		e.TotalPoints += s.Points
		e.Submissions++
	}

	out := make([]Entry, 0, len(byStudent))
	for _, e := range byStudent {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		if out[i].Submissions != out[j].Submissions {
			return out[i].Submissions < out[j].Submissions
		}
		return out[i].StudentID < out[j].StudentID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
