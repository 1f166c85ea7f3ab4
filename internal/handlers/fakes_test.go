package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"feedback-go/internal/config"
	"feedback-go/internal/identity"
	"feedback-go/internal/models"
	"feedback-go/internal/repository"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeStore is an in-memory SurveyStore and AccountStore.
type fakeStore struct {
	mu          sync.Mutex
	surveys     map[string]*models.Survey
	questions   []models.Question
	answers     []models.Answer
	users       []*models.User
	invitations []*models.Invitation
	failAnswers map[string]bool // survey ids whose answer fetch fails
}

func newFakeStore() *fakeStore {
	return &fakeStore{surveys: map[string]*models.Survey{}, failAnswers: map[string]bool{}}
}

func (f *fakeStore) CreateSurvey(ctx context.Context, survey *models.Survey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if survey.ID == "" {
		survey.ID = "survey-" + string(rune('a'+len(f.surveys)))
	}
	for i := range survey.Questions {
		q := &survey.Questions[i]
		q.SurveyID = survey.ID
		if q.ID == "" {
			q.ID = survey.ID + "-q" + string(rune('0'+i))
		}
		f.questions = append(f.questions, *q)
	}
	copied := *survey
	copied.Questions = nil
	f.surveys[survey.ID] = &copied
	return nil
}

func (f *fakeStore) GetSurvey(ctx context.Context, id string) (*models.Survey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.surveys[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStore) ListSurveys(ctx context.Context, organizationID string) ([]models.Survey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Survey
	for _, id := range sortedKeys(f.surveys) {
		if s := f.surveys[id]; s.OrganizationID == organizationID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func sortedKeys(m map[string]*models.Survey) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (f *fakeStore) SetSurveyActive(ctx context.Context, id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.surveys[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Active = active
	return nil
}

func (f *fakeStore) AddQuestion(ctx context.Context, q *models.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, existing := range f.questions {
		if existing.SurveyID == q.SurveyID {
			n++
		}
	}
	q.ID = q.SurveyID + "-q" + string(rune('0'+n))
	q.Position = n
	f.questions = append(f.questions, *q)
	return nil
}

func (f *fakeStore) DeleteQuestion(ctx context.Context, surveyID, questionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.questions {
		if f.questions[i].ID == questionID && f.questions[i].SurveyID == surveyID {
			f.questions[i].Deleted = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeStore) SurveyQuestions(ctx context.Context, surveyID string) ([]models.Question, error) {
	all, _ := f.AllQuestions(ctx, surveyID)
	live := []models.Question{}
	for _, q := range all {
		if !q.Deleted {
			live = append(live, q)
		}
	}
	return live, nil
}

func (f *fakeStore) AllQuestions(ctx context.Context, surveyID string) ([]models.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Question{}
	for _, q := range f.questions {
		if q.SurveyID == surveyID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeStore) AnswersForQuestions(ctx context.Context, questionIDs []string) ([]models.Answer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := map[string]bool{}
	for _, id := range questionIDs {
		wanted[id] = true
	}
	for _, q := range f.questions {
		if wanted[q.ID] && f.failAnswers[q.SurveyID] {
			return nil, errors.New("connection reset")
		}
	}
	out := []models.Answer{}
	for _, a := range f.answers {
		if wanted[a.QuestionID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) SaveResponse(ctx context.Context, answers []models.Answer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range answers {
		a.CreatedAt = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		f.answers = append(f.answers, a)
	}
	return nil
}

func (f *fakeStore) CreateUser(ctx context.Context, email, password, firstName, lastName, organizationName string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addUser(email, password, firstName, lastName, "org-"+organizationName)
}

// addUser mirrors the repository's case-insensitive email uniqueness. f.mu must be held.
func (f *fakeStore) addUser(email, password, firstName, lastName, organizationID string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			return nil, repository.ErrEmailTaken
		}
	}
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &models.User{
		ID:             uint(len(f.users) + 1),
		Email:          email,
		Password:       string(hashed),
		FirstName:      firstName,
		LastName:       lastName,
		OrganizationID: organizationID,
	}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invitations = append(f.invitations, inv)
	return nil
}

func (f *fakeStore) AcceptInvitation(ctx context.Context, token, password, firstName, lastName string, now time.Time) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var inv *models.Invitation
	for _, candidate := range f.invitations {
		if candidate.Token == token {
			inv = candidate
		}
	}
	if inv == nil {
		return nil, repository.ErrNotFound
	}
	if inv.Status != models.InvitationPending || now.After(inv.ExpiresAt) {
		return nil, repository.ErrInvitationClosed
	}
	u, err := f.addUser(inv.Email, password, firstName, lastName, inv.OrganizationID)
	if err != nil {
		return nil, err
	}
	inv.Status = models.InvitationAccepted
	return u, nil
}

func (f *fakeStore) ListMembers(ctx context.Context, organizationID string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		if u.OrganizationID == organizationID {
			out = append(out, *u)
		}
	}
	return out, nil
}

type recordingSender struct {
	invitations []models.Invitation
	urls        []string
}

func (r *recordingSender) SendInvitation(inv models.Invitation, acceptURL string) {
	r.invitations = append(r.invitations, inv)
	r.urls = append(r.urls, acceptURL)
}

func testConfig() *config.Store {
	return config.NewStore(&config.Config{
		Server:  config.ServerConfig{BaseURL: "https://feedback.example.com"},
		Entry:   config.EntryConfig{QRServiceURL: "https://qr.example.com/"},
		Scoring: config.ScoringConfig{DashboardWorkers: 2},
	})
}

// newEngine returns a gin engine with sessions and, when user is non-nil,
// that user attached to every request.
func newEngine(user *identity.User) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions("test", cookie.NewStore([]byte("test-secret"))))
	if user != nil {
		r.Use(func(c *gin.Context) {
			c.Request = c.Request.WithContext(identity.ContextWithUser(c.Request.Context(), *user))
			c.Next()
		})
	}
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
