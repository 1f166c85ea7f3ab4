package handlers

import (
	"errors"
	"net/http"

	"feedback-go/internal/config"
	"feedback-go/internal/entry"
	"feedback-go/internal/models"
	"feedback-go/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SurveyHandler struct {
	log    *zap.Logger
	store  SurveyStore
	issuer *entry.Issuer
	conf   *config.Store
}

func NewSurveyHandler(log *zap.Logger, store SurveyStore, issuer *entry.Issuer, conf *config.Store) *SurveyHandler {
	return &SurveyHandler{log: log, store: store, issuer: issuer, conf: conf}
}

func (h *SurveyHandler) Create(c *gin.Context) {
	var def models.SurveyDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		abortJSON(c, http.StatusBadRequest, "invalid survey body")
		return
	}
	if err := def.Validate(); err != nil {
		abortJSON(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	survey := def.Build(currentUser(c).OrganizationID)
	if err := h.store.CreateSurvey(c.Request.Context(), survey); err != nil {
		h.log.Error("Failed to create survey", zap.Error(err))
		abortJSON(c, http.StatusInternalServerError, "failed to create survey")
		return
	}
	c.JSON(http.StatusCreated, survey)
}

func (h *SurveyHandler) List(c *gin.Context) {
	surveys, err := h.store.ListSurveys(c.Request.Context(), currentUser(c).OrganizationID)
	if err != nil {
		h.log.Error("Failed to list surveys", zap.Error(err))
		abortJSON(c, http.StatusInternalServerError, "failed to list surveys")
		return
	}
	if surveys == nil {
		surveys = []models.Survey{}
	}
	c.JSON(http.StatusOK, gin.H{"surveys": surveys})
}

func (h *SurveyHandler) Get(c *gin.Context) {
	survey, ok := ownedSurvey(c, h.log, h.store)
	if !ok {
		return
	}
	questions, err := h.store.SurveyQuestions(c.Request.Context(), survey.ID)
	if err != nil {
		h.log.Error("Failed to load questions", zap.Error(err), zap.String("surveyID", survey.ID))
		abortJSON(c, http.StatusInternalServerError, "failed to load questions")
		return
	}
	survey.Questions = questions
	c.JSON(http.StatusOK, survey)
}

func (h *SurveyHandler) SetActive(c *gin.Context) {
	var body struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		abortJSON(c, http.StatusBadRequest, "active is required")
		return
	}
	survey, ok := ownedSurvey(c, h.log, h.store)
	if !ok {
		return
	}
	if err := h.store.SetSurveyActive(c.Request.Context(), survey.ID, *body.Active); err != nil {
		h.log.Error("Failed to update survey", zap.Error(err), zap.String("surveyID", survey.ID))
		abortJSON(c, http.StatusInternalServerError, "failed to update survey")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": survey.ID, "active": *body.Active})
}

func (h *SurveyHandler) AddQuestion(c *gin.Context) {
	var def models.QuestionDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		abortJSON(c, http.StatusBadRequest, "invalid question body")
		return
	}
	if err := def.Validate(); err != nil {
		abortJSON(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	survey, ok := ownedSurvey(c, h.log, h.store)
	if !ok {
		return
	}

	question := def.Question(survey.ID, 0)
	if err := h.store.AddQuestion(c.Request.Context(), &question); err != nil {
		h.log.Error("Failed to add question", zap.Error(err), zap.String("surveyID", survey.ID))
		abortJSON(c, http.StatusInternalServerError, "failed to add question")
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *SurveyHandler) DeleteQuestion(c *gin.Context) {
	survey, ok := ownedSurvey(c, h.log, h.store)
	if !ok {
		return
	}
	err := h.store.DeleteQuestion(c.Request.Context(), survey.ID, c.Param("qid"))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		abortJSON(c, http.StatusNotFound, "question not found")
	case err != nil:
		h.log.Error("Failed to delete question", zap.Error(err), zap.String("surveyID", survey.ID))
		abortJSON(c, http.StatusInternalServerError, "failed to delete question")
	default:
		c.Status(http.StatusNoContent)
	}
}

// EntryLink issues the signed respondent link for a survey and the QR image pointing at it.
func (h *SurveyHandler) EntryLink(c *gin.Context) {
	survey, ok := ownedSurvey(c, h.log, h.store)
	if !ok {
		return
	}
	token, err := h.issuer.Issue(survey.ID)
	if err != nil {
		h.log.Error("Failed to issue entry token", zap.Error(err), zap.String("surveyID", survey.ID))
		abortJSON(c, http.StatusInternalServerError, "failed to issue entry link")
		return
	}

	cfg := h.conf.Get()
	link := entry.URL(cfg.Server.BaseURL, token)
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"url":        link,
		"qrImageUrl": entry.QRImageURL(cfg.Entry.QRServiceURL, link),
	})
}
