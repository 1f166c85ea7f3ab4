package scoring

import (
	"context"
	"fmt"

	"feedback-go/internal/models"
)

// Source supplies the question and answer rows a score is computed from.
type Source interface {
	// SurveyQuestions returns the survey's non-deleted questions.
	SurveyQuestions(ctx context.Context, surveyID string) ([]models.Question, error)
	// AnswersForQuestions returns every answer to any of the given questions.
	AnswersForQuestions(ctx context.Context, questionIDs []string) ([]models.Answer, error)
}

// SurveyScore blends rating NPS and binary positivity into one number per survey.
type SurveyScore struct {
	Score                int `json:"score"`
	RatingQuestionsCount int `json:"ratingQuestionsCount"`
	BinaryQuestionsCount int `json:"binaryQuestionsCount"`
	TextQuestionsCount   int `json:"textQuestionsCount"`
	TotalAnswersCount    int `json:"totalAnswersCount"`
}

// ComputeSurveyScore fetches a survey's rows from src and scores them.
// Fetch failures are returned, never folded into a zero score.
func ComputeSurveyScore(ctx context.Context, src Source, surveyID string) (SurveyScore, error) {
	questions, err := src.SurveyQuestions(ctx, surveyID)
	if err != nil {
		return SurveyScore{}, fmt.Errorf("fetch questions for survey %s: %w", surveyID, err)
	}
	if len(questions) == 0 {
		return SurveyScore{}, nil
	}

	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	answers, err := src.AnswersForQuestions(ctx, ids)
	if err != nil {
		return SurveyScore{}, fmt.Errorf("fetch answers for survey %s: %w", surveyID, err)
	}

	return Aggregate(questions, answers), nil
}

// Aggregate scores a snapshot of questions and answers. Deleted questions and
// answers to questions outside the set are ignored.
func Aggregate(questions []models.Question, answers []models.Answer) SurveyScore {
	var result SurveyScore
	byID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		if q.Deleted {
			continue
		}
		byID[q.ID] = q
		switch q.Type {
		case models.QuestionRating:
			result.RatingQuestionsCount++
		case models.QuestionBinary:
			result.BinaryQuestionsCount++
		case models.QuestionText:
			result.TextQuestionsCount++
		}
	}

	var ratings []int
	var votes []bool
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			continue
		}
		result.TotalAnswersCount++

		switch q.Type {
		case models.QuestionRating:
			if v, ok := NormalizedRating(q, a); ok {
				ratings = append(ratings, v)
			}
		case models.QuestionBinary:
			if a.IsPositive != nil {
				votes = append(votes, *a.IsPositive)
			}
		}
	}

	ratingScore := NPSScore(ratings)
	binaryScore := PositivePercentage(votes)*2 - 100

	weight := len(ratings) + len(votes)
	if weight == 0 {
		return result
	}
	weighted := float64(ratingScore*len(ratings)+binaryScore*len(votes)) / float64(weight)
	result.Score = round(weighted)
	return result
}

// NormalizedRating returns the answer's rating on the 0-10 scale, or false
// when the answer carries no rating the question accepts.
func NormalizedRating(q models.Question, a models.Answer) (int, bool) {
	if a.Rating == nil || !q.AcceptsRating(*a.Rating) {
		return 0, false
	}
	return q.RatingScale.Normalize(*a.Rating), true
}
