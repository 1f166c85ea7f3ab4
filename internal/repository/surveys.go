package repository

import (
	"context"
	"fmt"

	"feedback-go/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateSurvey inserts a survey together with any questions attached to it.
func (r *Repository) CreateSurvey(ctx context.Context, survey *models.Survey) error {
	return r.db.WithContext(ctx).Create(survey).Error
}

func (r *Repository) GetSurvey(ctx context.Context, id string) (*models.Survey, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var survey models.Survey
	err := r.db.WithContext(ctx).First(&survey, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &survey, nil
}

// ListSurveys returns an organization's surveys, newest first.
func (r *Repository) ListSurveys(ctx context.Context, organizationID string) ([]models.Survey, error) {
	var surveys []models.Survey
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&surveys).Error
	return surveys, err
}

func (r *Repository) SetSurveyActive(ctx context.Context, id string, active bool) error {
	if !validID(id) {
		return ErrNotFound
	}
	res := r.db.WithContext(ctx).Model(&models.Survey{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddQuestion appends a question after the survey's existing ones.
func (r *Repository) AddQuestion(ctx context.Context, q *models.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		err := tx.Model(&models.Question{}).
			Where("survey_id = ?", q.SurveyID).
			Select("COALESCE(MAX(position) + 1, 0)").
			Scan(&next).Error
		if err != nil {
			return err
		}
		q.Position = next
		return tx.Create(q).Error
	})
}

// DeleteQuestion hides a question from the survey; its answers are kept.
func (r *Repository) DeleteQuestion(ctx context.Context, surveyID, questionID string) error {
	if !validID(surveyID) || !validID(questionID) {
		return ErrNotFound
	}
	res := r.db.WithContext(ctx).Model(&models.Question{}).
		Where("id = ? AND survey_id = ?", questionID, surveyID).
		Update("deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SurveyQuestions returns the survey's live questions in display order.
func (r *Repository) SurveyQuestions(ctx context.Context, surveyID string) ([]models.Question, error) {
	if !validID(surveyID) {
		return nil, ErrNotFound
	}
	var questions []models.Question
	err := r.db.WithContext(ctx).
		Where("survey_id = ? AND deleted = ?", surveyID, false).
		Order("position").
		Find(&questions).Error
	return questions, err
}

// AllQuestions includes deleted questions so historical answers keep their labels.
func (r *Repository) AllQuestions(ctx context.Context, surveyID string) ([]models.Question, error) {
	if !validID(surveyID) {
		return nil, ErrNotFound
	}
	var questions []models.Question
	err := r.db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("position").
		Find(&questions).Error
	return questions, err
}

type answerRow struct {
	models.Answer
	QuestionType models.QuestionType
	RatingScale  models.RatingScale
}

// AnswersForQuestions returns every answer to any of the given questions, oldest first.
// Ratings outside their question's scale are dropped rather than passed on to scoring.
func (r *Repository) AnswersForQuestions(ctx context.Context, questionIDs []string) ([]models.Answer, error) {
	answers := []models.Answer{}
	if len(questionIDs) == 0 {
		return answers, nil
	}
	var rows []answerRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT a.id, a.question_id, a.is_positive, a.rating, a.input, a.created_at,
		       q.type AS question_type, q.rating_scale
		FROM answers a
		JOIN questions q ON q.id = a.question_id
		WHERE a.question_id = ANY(?::uuid[])
		ORDER BY a.created_at, a.id
	`, pq.Array(questionIDs)).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}

	for _, row := range rows {
		if row.Rating != nil && row.QuestionType == models.QuestionRating {
			q := models.Question{Type: row.QuestionType, RatingScale: row.RatingScale}
			if !q.AcceptsRating(*row.Rating) {
				r.log.Warn("Dropping out-of-scale rating",
					zap.String("answer_id", row.ID),
					zap.Int("rating", *row.Rating),
					zap.String("scale", string(row.RatingScale)))
				continue
			}
		}
		answers = append(answers, row.Answer)
	}
	return answers, nil
}

// SaveResponse stores one respondent's answers atomically.
func (r *Repository) SaveResponse(ctx context.Context, answers []models.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&answers).Error
	})
	if err != nil {
		return err
	}
	r.log.Debug("Saved response", zap.Int("answers", len(answers)))
	return nil
}
