package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"feedback-go/internal/identity"
	"feedback-go/internal/models"
	"feedback-go/internal/scoring"

	"go.uber.org/zap"
)

var owner = identity.User{ID: 1, Email: "owner@example.com", OrganizationID: "org-1"}

func statsFixture(t *testing.T) (*fakeStore, *StatsHandler) {
	t.Helper()
	store, _, _ := entryFixture(t)
	store.SaveResponse(t.Context(), []models.Answer{
		{ID: "a1", QuestionID: "q-nps", Rating: ptr(10)},
		{ID: "a2", QuestionID: "q-nps", Rating: ptr(9)},
		{ID: "a3", QuestionID: "q-nps", Rating: ptr(7)},
		{ID: "a4", QuestionID: "q-nps", Rating: ptr(3)},
		{ID: "a5", QuestionID: "q-yes", IsPositive: ptr(true)},
		{ID: "a6", QuestionID: "q-yes", IsPositive: ptr(true)},
		{ID: "a7", QuestionID: "q-yes", IsPositive: ptr(true)},
		{ID: "a8", QuestionID: "q-yes", IsPositive: ptr(false)},
		{ID: "a9", QuestionID: "q-text", Input: ptr(`He said "wow", twice`)},
	})
	return store, NewStatsHandler(zap.NewNop(), store, testConfig())
}

func TestScore(t *testing.T) {
	store, h := statsFixture(t)
	r := newEngine(&owner)
	r.GET("/api/surveys/:id/score", h.Score)

	w := doJSON(r, http.MethodGet, "/api/surveys/s1/score", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Status string              `json:"status"`
		Score  scoring.SurveyScore `json:"score"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	want := scoring.SurveyScore{Score: 38, RatingQuestionsCount: 2, BinaryQuestionsCount: 1, TextQuestionsCount: 1, TotalAnswersCount: 9}
	if body.Status != "ok" || body.Score != want {
		t.Errorf("body = %+v, want %+v", body, want)
	}

	store.failAnswers["s1"] = true
	w = doJSON(r, http.MethodGet, "/api/surveys/s1/score", "")
	if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), `"status":"error"`) {
		t.Errorf("failed fetch: status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestScoreOtherOrganization(t *testing.T) {
	_, h := statsFixture(t)
	stranger := identity.User{ID: 9, OrganizationID: "org-2"}
	r := newEngine(&stranger)
	r.GET("/api/surveys/:id/score", h.Score)

	if w := doJSON(r, http.MethodGet, "/api/surveys/s1/score", ""); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if w := doJSON(r, http.MethodGet, "/api/surveys/missing/score", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing survey status = %d, want 404", w.Code)
	}
}

func TestCharts(t *testing.T) {
	_, h := statsFixture(t)
	r := newEngine(&owner)
	r.GET("/api/surveys/:id/charts", h.Charts)

	w := doJSON(r, http.MethodGet, "/api/surveys/s1/charts", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"binary", "nps", "binaryChart", "npsChart"} {
		if _, ok := body[key]; !ok {
			t.Errorf("response missing %q", key)
		}
	}

	var nps []map[string]any
	json.Unmarshal(body["nps"], &nps)
	// q-stars has no ratings, so it is skipped and positions stay contiguous.
	if len(nps) != 2 || nps[0]["questionId"] != "q-nps" || nps[1]["xPosition"] != float64(1) {
		t.Errorf("nps = %v", nps)
	}
}

func TestTableAndExport(t *testing.T) {
	store, h := statsFixture(t)
	store.DeleteQuestion(t.Context(), "s1", "q-text")
	r := newEngine(&owner)
	r.GET("/api/surveys/:id/table", h.Table)
	r.GET("/api/surveys/:id/export.csv", h.ExportCSV)

	w := doJSON(r, http.MethodGet, "/api/surveys/s1/table", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var table struct {
		Rows []map[string]any `json:"rows"`
	}
	json.Unmarshal(w.Body.Bytes(), &table)
	if len(table.Rows) != 9 {
		t.Fatalf("rows = %d, want 9", len(table.Rows))
	}
	if table.Rows[8]["question"] != "Anything else?" {
		t.Errorf("deleted question lost its label: %v", table.Rows[8])
	}

	w = doJSON(r, http.MethodGet, "/api/surveys/s1/export.csv", "")
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "survey-s1-") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if lines[0] != "Question,Positive,Rating,Input,Created At" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[9], `"He said ""wow"", twice"`) {
		t.Errorf("quoted input missing from %q", lines[9])
	}
}

func TestDashboardIsolatesFailures(t *testing.T) {
	store, h := statsFixture(t)
	store.CreateSurvey(t.Context(), &models.Survey{
		ID: "s2", OrganizationID: "org-1", Title: "Spa", Active: true,
		Questions: []models.Question{{ID: "s2-q", Type: models.QuestionBinary}},
	})
	store.CreateSurvey(t.Context(), &models.Survey{ID: "s3", OrganizationID: "org-2", Title: "Elsewhere"})
	store.failAnswers["s2"] = true

	r := newEngine(&owner)
	r.GET("/api/dashboard", h.Dashboard)
	w := doJSON(r, http.MethodGet, "/api/dashboard", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Surveys []dashboardEntry `json:"surveys"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Surveys) != 2 {
		t.Fatalf("surveys = %+v, want only org-1's two", body.Surveys)
	}
	byID := map[string]dashboardEntry{}
	for _, e := range body.Surveys {
		byID[e.SurveyID] = e
	}
	if e := byID["s1"]; e.Status != "ok" || e.Score == nil || e.Score.Score != 38 {
		t.Errorf("s1 = %+v", e)
	}
	if e := byID["s2"]; e.Status != "error" || e.Score != nil {
		t.Errorf("s2 = %+v", e)
	}
}

func TestMalformedSurveyIDIsNotFound(t *testing.T) {
	store, h := statsFixture(t)
	r := newEngine(&owner)
	r.GET("/api/surveys/:id/score", h.Score)
	r.GET("/api/surveys/:id/charts", h.Charts)
	r.GET("/api/surveys/:id/table", h.Table)
	r.GET("/api/surveys/:id/export.csv", h.ExportCSV)
	surveys := surveyEngine(store, nil)

	paths := []string{
		"/api/surveys/not-a-uuid/score",
		"/api/surveys/not-a-uuid/charts",
		"/api/surveys/not-a-uuid/table",
		"/api/surveys/not-a-uuid/export.csv",
	}
	for _, path := range paths {
		if w := doJSON(r, http.MethodGet, path, ""); w.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, w.Code)
		}
	}
	if w := doJSON(surveys, http.MethodGet, "/api/surveys/not-a-uuid", ""); w.Code != http.StatusNotFound {
		t.Errorf("get survey status = %d, want 404", w.Code)
	}
	if w := doJSON(surveys, http.MethodDelete, "/api/surveys/s1/questions/not-a-uuid", ""); w.Code != http.StatusNotFound {
		t.Errorf("delete question status = %d, want 404", w.Code)
	}
}
