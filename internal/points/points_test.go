package points

import "testing"

func TestAward(t *testing.T) {
	cases := []struct {
		maxPoints int
		order     int
		want      int
	}{
		{100, 1, 100},
		{100, 2, 90},
		{100, 3, 80},
		{100, 8, 30},
		{100, 9, 20},
		{100, 10, 10},
		{100, 11, 10},  // floor, never negative
		{100, 100, 10}, // penalty growth stops at the floor
		{50, 1, 50},
		{50, 2, 45},
		{75, 4, 52}, // floor(75 * 0.7)
		{5, 1, 10},  // floor applies even below max_points
	}
	for _, tc := range cases {
		if got := Award(tc.maxPoints, tc.order); got != tc.want {
			t.Fatalf("Award(%d, %d) = %d, want %d", tc.maxPoints, tc.order, got, tc.want)
		}
	}
}

func TestAwardClampsOrder(t *testing.T) {
	if got := Award(100, 0); got != 100 {
		t.Fatalf("order 0 should behave as first submission, got %d", got)
	}
}

// Round multiples of max_points must come out exact at every order; the
// formula is a 10% step, not an approximation of one.
func TestAwardExactSteps(t *testing.T) {
	for order := 1; order <= 10; order++ {
		want := 100 - (order-1)*10
		if want < Floor {
			want = Floor
		}
		if got := Award(100, order); got != want {
			t.Fatalf("Award(100, %d) = %d, want %d", order, got, want)
		}
	}
}
