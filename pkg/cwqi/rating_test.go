package cwqi

import "testing"

func TestRatingFor(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{100, "Excellent"},
		{95, "Excellent"},
		{94.9, "Very Good"},
		{89, "Very Good"},
		{88.9, "Good"},
		{80, "Good"},
		{79.9, "Fair"},
		{65, "Fair"},
		{64.9, "Marginal"},
		{45, "Marginal"},
		{44.9, "Poor"},
		{0, "Poor"},
	}

	for _, tt := range tests {
		if got := RatingFor(tt.score).Name; got != tt.expected {
			t.Errorf("RatingFor(%.1f) = %q, expected %q", tt.score, got, tt.expected)
		}
	}
}

func TestRatingForIsMonotonic(t *testing.T) {
	rank := make(map[string]int, len(Ratings))
	for i, r := range Ratings {
		rank[r.Name] = len(Ratings) - i
	}

	prev := rank[RatingFor(0).Name]
	for s := 0.0; s <= 100; s += 0.1 {
		cur := rank[RatingFor(s).Name]
		if cur < prev {
			t.Fatalf("rating dropped at score %.1f", s)
		}
		prev = cur
	}
}

func TestRatingsTableMatchesRatingFor(t *testing.T) {
	for _, r := range Ratings {
		if got := RatingFor(r.MinScore); got != r {
			t.Errorf("RatingFor(%v) = %+v, expected %+v", r.MinScore, got, r)
		}
	}
}
