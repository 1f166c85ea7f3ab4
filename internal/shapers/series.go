// Package shapers reshapes question and answer rows into chart series and
// table rows for the stats pages and exports.
package shapers

import (
	"feedback-go/internal/models"
	"feedback-go/internal/scoring"
)

const (
	binaryLabelLimit = 20
	npsLabelLimit    = 25
)

// BinaryPoint is one bar of the positive/negative chart.
type BinaryPoint struct {
	QuestionID    string `json:"questionId"`
	Label         string `json:"label"`
	PositiveCount int    `json:"positiveCount"`
	NegativeCount int    `json:"negativeCount"`
	TotalCount    int    `json:"totalCount"`
}

// NPSRecord is one question's slot in the combined NPS distribution chart.
type NPSRecord struct {
	Label               string              `json:"question"`
	QuestionID          string              `json:"questionId"`
	QuestionType        models.QuestionType `json:"questionType"`
	NPSScore            int                 `json:"npsScore"`
	ResponseCount       int                 `json:"responseCount"`
	Promoters           int                 `json:"promoters"`
	PromoterPercentage  float64             `json:"promoterPercentage"`
	Passives            int                 `json:"passives"`
	PassivePercentage   float64             `json:"passivePercentage"`
	Detractors          int                 `json:"detractors"`
	DetractorPercentage float64             `json:"detractorPercentage"`
	XPosition           int                 `json:"xPosition"`
}

// BinarySeries emits one point per binary question, in question order.
func BinarySeries(questions []models.Question, answers []models.Answer) []BinaryPoint {
	byQuestion := groupAnswers(answers)
	points := []BinaryPoint{}
	for _, q := range questions {
		if q.Type != models.QuestionBinary {
			continue
		}
		p := BinaryPoint{QuestionID: q.ID, Label: Truncate(q.Description, binaryLabelLimit)}
		for _, a := range byQuestion[q.ID] {
			if a.IsPositive == nil {
				continue
			}
			if *a.IsPositive {
				p.PositiveCount++
			} else {
				p.NegativeCount++
			}
		}
		p.TotalCount = p.PositiveCount + p.NegativeCount
		points = append(points, p)
	}
	return points
}

// NPSSeries emits rating questions first, then binary questions, skipping any
// question without a usable answer. XPosition counts emitted records only.
func NPSSeries(questions []models.Question, answers []models.Answer) []NPSRecord {
	byQuestion := groupAnswers(answers)
	records := []NPSRecord{}

	for _, q := range questions {
		if q.Type != models.QuestionRating {
			continue
		}
		var ratings []int
		for _, a := range byQuestion[q.ID] {
			if v, ok := scoring.NormalizedRating(q, a); ok {
				ratings = append(ratings, v)
			}
		}
		if len(ratings) == 0 {
			continue
		}
		b := scoring.Classify(ratings)
		records = append(records, NPSRecord{
			Label:               Truncate(q.Description, npsLabelLimit),
			QuestionID:          q.ID,
			QuestionType:        models.QuestionRating,
			NPSScore:            b.Score(),
			ResponseCount:       b.Total,
			Promoters:           b.Promoters,
			PromoterPercentage:  b.PromoterPercentage,
			Passives:            b.Passives,
			PassivePercentage:   b.PassivePercentage,
			Detractors:          b.Detractors,
			DetractorPercentage: b.DetractorPercentage,
		})
	}

	for _, q := range questions {
		if q.Type != models.QuestionBinary {
			continue
		}
		var votes []bool
		positive := 0
		for _, a := range byQuestion[q.ID] {
			if a.IsPositive == nil {
				continue
			}
			votes = append(votes, *a.IsPositive)
			if *a.IsPositive {
				positive++
			}
		}
		if len(votes) == 0 {
			continue
		}
		total := float64(len(votes))
		records = append(records, NPSRecord{
			Label:               Truncate(q.Description, npsLabelLimit),
			QuestionID:          q.ID,
			QuestionType:        models.QuestionBinary,
			NPSScore:            scoring.PositivePercentage(votes)*2 - 100,
			ResponseCount:       len(votes),
			Promoters:           positive,
			PromoterPercentage:  float64(positive) / total * 100,
			Detractors:          len(votes) - positive,
			DetractorPercentage: float64(len(votes)-positive) / total * 100,
		})
	}

	for i := range records {
		records[i].XPosition = i
	}
	return records
}

// Truncate shortens s to limit characters and appends "..." when it was longer.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

func groupAnswers(answers []models.Answer) map[string][]models.Answer {
	grouped := make(map[string][]models.Answer)
	for _, a := range answers {
		grouped[a.QuestionID] = append(grouped[a.QuestionID], a)
	}
	return grouped
}
