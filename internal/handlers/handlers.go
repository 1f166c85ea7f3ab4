package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"feedback-go/internal/identity"
	"feedback-go/internal/models"
	"feedback-go/internal/repository"
	"feedback-go/internal/scoring"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SurveyStore is the survey side of the repository.
type SurveyStore interface {
	scoring.Source
	CreateSurvey(ctx context.Context, survey *models.Survey) error
	GetSurvey(ctx context.Context, id string) (*models.Survey, error)
	ListSurveys(ctx context.Context, organizationID string) ([]models.Survey, error)
	SetSurveyActive(ctx context.Context, id string, active bool) error
	AddQuestion(ctx context.Context, q *models.Question) error
	DeleteQuestion(ctx context.Context, surveyID, questionID string) error
	AllQuestions(ctx context.Context, surveyID string) ([]models.Question, error)
	SaveResponse(ctx context.Context, answers []models.Answer) error
}

// AccountStore is the user and organization side of the repository.
type AccountStore interface {
	CreateUser(ctx context.Context, email, password, firstName, lastName, organizationName string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	CreateInvitation(ctx context.Context, inv *models.Invitation) error
	AcceptInvitation(ctx context.Context, token, password, firstName, lastName string, now time.Time) (*models.User, error)
	ListMembers(ctx context.Context, organizationID string) ([]models.User, error)
}

func abortJSON(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func currentUser(c *gin.Context) identity.User {
	user, _ := identity.UserFromContext(c.Request.Context())
	return user
}

// ownedSurvey loads the survey named in the path. Surveys of other
// organizations are reported as missing.
func ownedSurvey(c *gin.Context, log *zap.Logger, store SurveyStore) (*models.Survey, bool) {
	id := c.Param("id")
	survey, err := store.GetSurvey(c.Request.Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		abortJSON(c, http.StatusNotFound, "survey not found")
		return nil, false
	case err != nil:
		log.Error("Failed to load survey", zap.Error(err), zap.String("surveyID", id))
		abortJSON(c, http.StatusInternalServerError, "failed to load survey")
		return nil, false
	}
	if survey.OrganizationID != currentUser(c).OrganizationID {
		abortJSON(c, http.StatusNotFound, "survey not found")
		return nil, false
	}
	return survey, true
}

func questionIDs(questions []models.Question) []string {
	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return ids
}
