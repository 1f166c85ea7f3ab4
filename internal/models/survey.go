// survey.go
package models

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// QuestionType is the kind of answer a question collects.
type QuestionType string

const (
	QuestionRating QuestionType = "rating"
	QuestionBinary QuestionType = "binary"
	QuestionText   QuestionType = "text"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionRating, QuestionBinary, QuestionText:
		return true
	}
	return false
}

// RatingScale is the scale a rating question is collected on.
// Scores are always computed on the 0-10 NPS scale; star ratings are converted.
type RatingScale string

const (
	ScaleNPS   RatingScale = "nps"
	ScaleStars RatingScale = "stars"
)

// Bounds returns the inclusive range of values accepted for the scale.
func (s RatingScale) Bounds() (min, max int) {
	if s == ScaleStars {
		return 1, 5
	}
	return 0, 10
}

// Normalize maps a rating collected on s onto the 0-10 scale.
func (s RatingScale) Normalize(v int) int {
	if s == ScaleStars {
		return v * 2
	}
	return v
}

type Survey struct {
	ID             string     `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID string     `gorm:"type:uuid;index" json:"organizationId"`
	Title          string     `gorm:"not null" json:"title"`
	Description    string     `json:"description"`
	Active         bool       `gorm:"default:true" json:"active"`
	Questions      []Question `gorm:"foreignKey:SurveyID" json:"questions,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (s *Survey) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Question belongs to a survey. Deleted questions are kept so old answers still resolve.
type Question struct {
	ID          string       `gorm:"type:uuid;primaryKey" json:"id"`
	SurveyID    string       `gorm:"type:uuid;index" json:"surveyId"`
	Description string       `json:"description"`
	Type        QuestionType `gorm:"type:text;not null" json:"type"`
	RatingScale RatingScale  `gorm:"type:text;default:nps" json:"ratingScale,omitempty"`
	Position    int          `json:"position"`
	Deleted     bool         `gorm:"default:false" json:"-"`
	CreatedAt   time.Time    `json:"createdAt"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.Type == QuestionRating && q.RatingScale == "" {
		q.RatingScale = ScaleNPS
	}
	return nil
}

// SurveyDefinition mirrors the YAML seed file layout.
type SurveyDefinition struct {
	Title       string               `yaml:"title" json:"title"`
	Description string               `yaml:"description" json:"description"`
	Questions   []QuestionDefinition `yaml:"questions" json:"questions"`
}

type QuestionDefinition struct {
	Description string `yaml:"description" json:"description"`
	Type        string `yaml:"type" json:"type"`
	Scale       string `yaml:"scale,omitempty" json:"scale,omitempty"`
}

// Validate checks the question type and scale.
func (q QuestionDefinition) Validate() error {
	if strings.TrimSpace(q.Description) == "" {
		return fmt.Errorf("description is required")
	}
	if !QuestionType(q.Type).Valid() {
		return fmt.Errorf("unknown type %q", q.Type)
	}
	if q.Scale != "" && q.Scale != string(ScaleNPS) && q.Scale != string(ScaleStars) {
		return fmt.Errorf("unknown scale %q", q.Scale)
	}
	return nil
}

// Validate checks the title and every question.
func (d SurveyDefinition) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("title is required")
	}
	for j, q := range d.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", j, err)
		}
	}
	return nil
}

// Question builds an unsaved question from the definition.
func (q QuestionDefinition) Question(surveyID string, position int) Question {
	question := Question{
		SurveyID:    surveyID,
		Description: q.Description,
		Type:        QuestionType(q.Type),
		Position:    position,
	}
	if question.Type == QuestionRating {
		question.RatingScale = ScaleNPS
		if q.Scale != "" {
			question.RatingScale = RatingScale(q.Scale)
		}
	}
	return question
}

// SurveyFile holds every survey declared in a seed file.
type SurveyFile struct {
	Surveys []SurveyDefinition `yaml:"surveys"`
}

// LoadSurveyDefinitions reads and validates a survey seed file.
func LoadSurveyDefinitions(path string) ([]SurveyDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read survey file: %w", err)
	}
	return ParseSurveyDefinitions(data)
}

func ParseSurveyDefinitions(data []byte) ([]SurveyDefinition, error) {
	var file SurveyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal survey YAML: %w", err)
	}

	if len(file.Surveys) == 0 {
		return nil, fmt.Errorf("no surveys defined")
	}
	for i, def := range file.Surveys {
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("survey %d: %w", i, err)
		}
	}
	return file.Surveys, nil
}

// Build turns a definition into a survey with its questions in declaration order.
func (d SurveyDefinition) Build(organizationID string) *Survey {
	survey := &Survey{
		OrganizationID: organizationID,
		Title:          d.Title,
		Description:    d.Description,
		Active:         true,
	}
	for i, q := range d.Questions {
		survey.Questions = append(survey.Questions, q.Question("", i))
	}
	return survey
}

// AcceptsRating reports whether v is inside the question's rating scale.
func (q Question) AcceptsRating(v int) bool {
	min, max := q.RatingScale.Bounds()
	return v >= min && v <= max
}
