package leaderboard

import "testing"

func TestAggregateSumsAndSorts(t *testing.T) {
	entries := Aggregate([]Submission{
		{StudentID: "alice", Points: 100},
		{StudentID: "bob", Points: 90},
		{StudentID: "alice", Points: 50},
		{StudentID: "carol", Points: 200},
	})

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []struct {
		id     string
		points int
		count  int
		rank   int
	}{
		{"carol", 200, 1, 1},
		{"alice", 150, 2, 2},
		{"bob", 90, 1, 3},
	}
	for i, w := range want {
		e := entries[i]
		if e.StudentID != w.id || e.TotalPoints != w.points || e.Submissions != w.count || e.Rank != w.rank {
			t.Fatalf("entry %d = %+v, want %+v", i, e, w)
		}
	}
}

func TestAggregateStrictlyDescending(t *testing.T) {
	entries := Aggregate([]Submission{
		{StudentID: "a", Points: 10},
		{StudentID: "b", Points: 30},
		{StudentID: "c", Points: 20},
	})
	for i := 1; i < len(entries); i++ {
		if entries[i].TotalPoints > entries[i-1].TotalPoints {
			t.Fatalf("entries not sorted by points descending: %+v", entries)
		}
	}
}

func TestAggregateTieBreakIsDeterministic(t *testing.T) {
	// Equal points: fewer submissions ranks higher, then student ID.
	entries := Aggregate([]Submission{
		{StudentID: "z", Points: 50},
		{StudentID: "a", Points: 25},
		{StudentID: "a", Points: 25},
	})
	if entries[0].StudentID != "z" || entries[0].Rank != 1 {
		t.Fatalf("expected z first, got %+v", entries[0])
	}
	if entries[1].StudentID != "a" || entries[1].Rank != 2 {
		t.Fatalf("ties keep distinct consecutive ranks, got %+v", entries[1])
	}

	same := Aggregate([]Submission{
		{StudentID: "b", Points: 50},
		{StudentID: "a", Points: 50},
	})
	if same[0].StudentID != "a" || same[1].StudentID != "b" {
		t.Fatalf("equal points and counts should order by student ID, got %+v", same)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if entries := Aggregate(nil); len(entries) != 0 {
		t.Fatalf("expected no entries, got %+v", entries)
	}
}
