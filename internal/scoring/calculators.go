package scoring

import "math"

// NPS classification bands on the 0-10 scale.
const (
	PromoterMin  = 9
	DetractorMax = 6
)

// Breakdown is the promoter/passive/detractor split of a set of ratings.
type Breakdown struct {
	Total               int     `json:"total"`
	Promoters           int     `json:"promoters"`
	Passives            int     `json:"passives"`
	Detractors          int     `json:"detractors"`
	PromoterPercentage  float64 `json:"promoterPercentage"`
	PassivePercentage   float64 `json:"passivePercentage"`
	DetractorPercentage float64 `json:"detractorPercentage"`
}

// Score is the NPS for the breakdown, in [-100, 100].
func (b Breakdown) Score() int {
	if b.Total == 0 {
		return 0
	}
	return round(b.PromoterPercentage - b.DetractorPercentage)
}

// Classify splits ratings into NPS bands.
func Classify(ratings []int) Breakdown {
	b := Breakdown{Total: len(ratings)}
	for _, r := range ratings {
		switch {
		case r >= PromoterMin:
			b.Promoters++
		case r <= DetractorMax:
			b.Detractors++
		default:
			b.Passives++
		}
	}
	if b.Total > 0 {
		total := float64(b.Total)
		b.PromoterPercentage = float64(b.Promoters) / total * 100
		b.PassivePercentage = float64(b.Passives) / total * 100
		b.DetractorPercentage = float64(b.Detractors) / total * 100
	}
	return b
}

// NPSScore returns promoter% minus detractor%, rounded. Empty input scores 0.
func NPSScore(ratings []int) int {
	return Classify(ratings).Score()
}

// AverageRating returns the mean rounded to one decimal place.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	return math.Floor(mean*10+0.5) / 10
}

// PositivePercentage returns the rounded share of true values, 0-100.
func PositivePercentage(answers []bool) int {
	if len(answers) == 0 {
		return 0
	}
	positive := 0
	for _, a := range answers {
		if a {
			positive++
		}
	}
	return round(float64(positive) / float64(len(answers)) * 100)
}

// round rounds half up (towards +Inf), so -12.5 becomes -12.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}
