package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"feedback-go/internal/entry"
	"feedback-go/internal/models"
	"feedback-go/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxInputLength = 2000

// EntryHandler serves the public respondent side of a survey.
type EntryHandler struct {
	log    *zap.Logger
	store  SurveyStore
	issuer *entry.Issuer
}

func NewEntryHandler(log *zap.Logger, store SurveyStore, issuer *entry.Issuer) *EntryHandler {
	return &EntryHandler{log: log, store: store, issuer: issuer}
}

func (h *EntryHandler) resolve(c *gin.Context) (*models.Survey, []models.Question, bool) {
	surveyID, err := h.issuer.Parse(c.Param("token"))
	if err != nil {
		abortJSON(c, http.StatusNotFound, "entry link is invalid or expired")
		return nil, nil, false
	}

	ctx := c.Request.Context()
	survey, err := h.store.GetSurvey(ctx, surveyID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !survey.Active) {
		abortJSON(c, http.StatusNotFound, "survey is not accepting responses")
		return nil, nil, false
	}
	if err != nil {
		h.log.Error("Failed to load survey for entry", zap.Error(err), zap.String("surveyID", surveyID))
		abortJSON(c, http.StatusInternalServerError, "failed to load survey")
		return nil, nil, false
	}

	questions, err := h.store.SurveyQuestions(ctx, survey.ID)
	if err != nil {
		h.log.Error("Failed to load questions for entry", zap.Error(err), zap.String("surveyID", survey.ID))
		abortJSON(c, http.StatusInternalServerError, "failed to load survey")
		return nil, nil, false
	}
	return survey, questions, true
}

func (h *EntryHandler) Get(c *gin.Context) {
	survey, questions, ok := h.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"survey": gin.H{
			"id":          survey.ID,
			"title":       survey.Title,
			"description": survey.Description,
		},
		"questions": questions,
	})
}

type answerInput struct {
	QuestionID string  `json:"questionId"`
	IsPositive *bool   `json:"isPositive"`
	Rating     *int    `json:"rating"`
	Input      *string `json:"input"`
}

type submission struct {
	Answers []answerInput `json:"answers"`
}

func (h *EntryHandler) Submit(c *gin.Context) {
	var req submission
	if err := c.ShouldBindJSON(&req); err != nil {
		abortJSON(c, http.StatusBadRequest, "invalid response body")
		return
	}
	survey, questions, ok := h.resolve(c)
	if !ok {
		return
	}

	answers, err := buildAnswers(questions, req.Answers)
	if err != nil {
		abortJSON(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.store.SaveResponse(c.Request.Context(), answers); err != nil {
		h.log.Error("Failed to save response", zap.Error(err), zap.String("surveyID", survey.ID))
		abortJSON(c, http.StatusInternalServerError, "failed to save response")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"saved": len(answers)})
}

// buildAnswers checks each submitted answer against its question and keeps
// only the field that question type collects.
func buildAnswers(questions []models.Question, inputs []answerInput) ([]models.Answer, error) {
	if len(inputs) == 0 {
		return nil, errors.New("at least one answer is required")
	}
	byID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	seen := make(map[string]bool, len(inputs))
	answers := make([]models.Answer, 0, len(inputs))
	for _, in := range inputs {
		q, ok := byID[in.QuestionID]
		if !ok {
			return nil, fmt.Errorf("unknown question %q", in.QuestionID)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("question %q answered more than once", q.ID)
		}
		seen[q.ID] = true

		answer := models.Answer{QuestionID: q.ID}
		switch q.Type {
		case models.QuestionRating:
			if in.Rating == nil {
				return nil, fmt.Errorf("question %q requires a rating", q.ID)
			}
			if !q.AcceptsRating(*in.Rating) {
				min, max := q.RatingScale.Bounds()
				return nil, fmt.Errorf("rating %d for question %q is outside %d-%d", *in.Rating, q.ID, min, max)
			}
			answer.Rating = in.Rating
		case models.QuestionBinary:
			if in.IsPositive == nil {
				return nil, fmt.Errorf("question %q requires a yes or no answer", q.ID)
			}
			answer.IsPositive = in.IsPositive
		case models.QuestionText:
			if in.Input == nil || strings.TrimSpace(*in.Input) == "" {
				return nil, fmt.Errorf("question %q requires text", q.ID)
			}
			text := strings.TrimSpace(*in.Input)
			if utf8.RuneCountInString(text) > maxInputLength {
				return nil, fmt.Errorf("answer to question %q is longer than %d characters", q.ID, maxInputLength)
			}
			answer.Input = &text
		}
		answers = append(answers, answer)
	}
	return answers, nil
}
