package handlers

import (
	"fmt"
	"net/http"
	"time"

	"feedback-go/internal/config"
	"feedback-go/internal/models"
	"feedback-go/internal/scoring"
	"feedback-go/internal/shapers"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatsHandler serves scores, chart data and response tables.
type StatsHandler struct {
	log   *zap.Logger
	store SurveyStore
	conf  *config.Store
}

func NewStatsHandler(log *zap.Logger, store SurveyStore, conf *config.Store) *StatsHandler {
	return &StatsHandler{log: log, store: store, conf: conf}
}

// Score reports a failed computation with status "error" so it cannot be
// mistaken for a genuine zero.
func (h *StatsHandler) Score(c *gin.Context) {
	survey, ok := ownedSurvey(c, h.log, h.store)
	if !ok {
		return
	}
	score, err := scoring.ComputeSurveyScore(c.Request.Context(), h.store, survey.ID)
	if err != nil {
		h.log.Error("Failed to compute survey score", zap.Error(err), zap.String("surveyID", survey.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "failed to compute score"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "score": score})
}

func (h *StatsHandler) Charts(c *gin.Context) {
	survey, ok := ownedSurvey(c, h.log, h.store)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	questions, err := h.store.SurveyQuestions(ctx, survey.ID)
	if err != nil {
		h.log.Error("Failed to load questions", zap.Error(err), zap.String("surveyID", survey.ID))
		abortJSON(c, http.StatusInternalServerError, "failed to load chart data")
		return
	}
	answers, err := h.store.AnswersForQuestions(ctx, questionIDs(questions))
	if err != nil {
		h.log.Error("Failed to load answers", zap.Error(err), zap.String("surveyID", survey.ID))
		abortJSON(c, http.StatusInternalServerError, "failed to load chart data")
		return
	}

	binary := shapers.BinarySeries(questions, answers)
	nps := shapers.NPSSeries(questions, answers)
	c.JSON(http.StatusOK, gin.H{
		"binary":      binary,
		"nps":         nps,
		"binaryChart": generateBinaryChart(binary).JSON(),
		"npsChart":    generateNPSChart(nps).JSON(),
	})
}

func (h *StatsHandler) tableRows(c *gin.Context) (*models.Survey, []shapers.TableRow, bool) {
	survey, ok := ownedSurvey(c, h.log, h.store)
	if !ok {
		return nil, nil, false
	}
	ctx := c.Request.Context()
	questions, err := h.store.AllQuestions(ctx, survey.ID)
	if err != nil {
		h.log.Error("Failed to load questions", zap.Error(err), zap.String("surveyID", survey.ID))
		abortJSON(c, http.StatusInternalServerError, "failed to load responses")
		return nil, nil, false
	}
	answers, err := h.store.AnswersForQuestions(ctx, questionIDs(questions))
	if err != nil {
		h.log.Error("Failed to load answers", zap.Error(err), zap.String("surveyID", survey.ID))
		abortJSON(c, http.StatusInternalServerError, "failed to load responses")
		return nil, nil, false
	}
	return survey, shapers.TableRows(questions, answers), true
}

func (h *StatsHandler) Table(c *gin.Context) {
	_, rows, ok := h.tableRows(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

func (h *StatsHandler) ExportCSV(c *gin.Context) {
	survey, rows, ok := h.tableRows(c)
	if !ok {
		return
	}
	filename := fmt.Sprintf("survey-%s-%s.csv", survey.ID, time.Now().UTC().Format("20060102"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
	if err := shapers.WriteCSV(c.Writer, rows); err != nil {
		h.log.Error("Failed to write CSV export", zap.Error(err), zap.String("surveyID", survey.ID))
	}
}

type dashboardEntry struct {
	SurveyID string               `json:"surveyId"`
	Title    string               `json:"title"`
	Active   bool                 `json:"active"`
	Status   string               `json:"status"`
	Score    *scoring.SurveyScore `json:"score,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// Dashboard scores every survey of the organization concurrently. A survey
// that fails is listed with status "error" alongside the others.
func (h *StatsHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	surveys, err := h.store.ListSurveys(ctx, currentUser(c).OrganizationID)
	if err != nil {
		h.log.Error("Failed to list surveys", zap.Error(err))
		abortJSON(c, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	ids := make([]string, len(surveys))
	for i, s := range surveys {
		ids[i] = s.ID
	}
	results := make(map[string]scoring.SurveyResult, len(surveys))
	for res := range scoring.ScoreAll(ctx, h.store, ids, h.conf.Get().Scoring.DashboardWorkers) {
		results[res.SurveyID] = res
	}

	entries := make([]dashboardEntry, 0, len(surveys))
	for _, s := range surveys {
		res := results[s.ID]
		e := dashboardEntry{SurveyID: s.ID, Title: s.Title, Active: s.Active, Status: "ok"}
		if res.Err != nil {
			h.log.Warn("Survey score unavailable", zap.Error(res.Err), zap.String("surveyID", s.ID))
			e.Status = "error"
			e.Error = "score unavailable"
		} else {
			score := res.Score
			e.Score = &score
		}
		entries = append(entries, e)
	}
	c.JSON(http.StatusOK, gin.H{"surveys": entries})
}
