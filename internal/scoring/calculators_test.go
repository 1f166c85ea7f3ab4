package scoring

import "testing"

func TestNPSScore(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    int
	}{
		{"empty", nil, 0},
		{"all promoters", []int{9, 10, 9, 10}, 100},
		{"all detractors", []int{0, 3, 6, 1}, -100},
		{"all passives", []int{7, 8, 7}, 0},
		{"balanced", []int{9, 9, 6, 3}, 0},
		{"one third promoters", []int{10, 7, 8}, 33},
		{"half up on negative", []int{10, 0, 0, 7, 7, 7, 7, 7}, -12},
		{"single promoter", []int{9}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NPSScore(tt.ratings); got != tt.want {
				t.Errorf("NPSScore(%v) = %d, want %d", tt.ratings, got, tt.want)
			}
		})
	}
}

func TestNPSScoreRange(t *testing.T) {
	// Every combination of three ratings on the 0-10 scale.
	for a := 0; a <= 10; a++ {
		for b := 0; b <= 10; b++ {
			for c := 0; c <= 10; c++ {
				got := NPSScore([]int{a, b, c})
				if got < -100 || got > 100 {
					t.Fatalf("NPSScore([%d %d %d]) = %d, out of range", a, b, c, got)
				}
			}
		}
	}
}

func TestClassify(t *testing.T) {
	b := Classify([]int{10, 9, 8, 7, 6, 0})
	if b.Promoters != 2 || b.Passives != 2 || b.Detractors != 2 {
		t.Fatalf("unexpected split: %+v", b)
	}
	if b.Total != 6 {
		t.Errorf("Total = %d, want 6", b.Total)
	}
	sum := b.PromoterPercentage + b.PassivePercentage + b.DetractorPercentage
	if sum < 99.999 || sum > 100.001 {
		t.Errorf("percentages sum to %f, want 100", sum)
	}
	if empty := Classify(nil); empty.PromoterPercentage != 0 || empty.Score() != 0 {
		t.Errorf("empty breakdown = %+v", empty)
	}
}

func TestAverageRating(t *testing.T) {
	tests := []struct {
		ratings []int
		want    float64
	}{
		{nil, 0},
		{[]int{8, 9, 10}, 9.0},
		{[]int{1, 2}, 1.5},
		{[]int{1, 1, 2}, 1.3},
		{[]int{2, 2, 3}, 2.3},
		{[]int{7}, 7},
	}

	for _, tt := range tests {
		if got := AverageRating(tt.ratings); got != tt.want {
			t.Errorf("AverageRating(%v) = %v, want %v", tt.ratings, got, tt.want)
		}
	}
}

func TestPositivePercentage(t *testing.T) {
	tests := []struct {
		answers []bool
		want    int
	}{
		{nil, 0},
		{[]bool{true, true, false, false}, 50},
		{[]bool{true, true, true, false}, 75},
		{[]bool{true, false, false}, 33},
		{[]bool{true, true, false}, 67},
		{[]bool{false}, 0},
		{[]bool{true}, 100},
	}

	for _, tt := range tests {
		if got := PositivePercentage(tt.answers); got != tt.want {
			t.Errorf("PositivePercentage(%v) = %d, want %d", tt.answers, got, tt.want)
		}
	}
}
