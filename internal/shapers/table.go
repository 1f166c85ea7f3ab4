package shapers

import (
	"io"
	"strconv"
	"strings"
	"time"

	"feedback-go/internal/models"
)

const (
	UnknownQuestion = "Unknown Question"
	notAvailable    = "N/A"
)

// TableRow is a flattened answer for the responses table and CSV export.
type TableRow struct {
	AnswerID   string    `json:"answerId"`
	Question   string    `json:"question"`
	IsPositive string    `json:"isPositive"`
	Rating     string    `json:"rating"`
	Input      string    `json:"input"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableRows emits one row per answer, in answer order. questions may include
// deleted ones so historical answers keep their label.
func TableRows(questions []models.Question, answers []models.Answer) []TableRow {
	descriptions := make(map[string]string, len(questions))
	for _, q := range questions {
		descriptions[q.ID] = q.Description
	}

	rows := make([]TableRow, 0, len(answers))
	for _, a := range answers {
		row := TableRow{
			AnswerID:   a.ID,
			Question:   UnknownQuestion,
			IsPositive: notAvailable,
			Rating:     notAvailable,
			Input:      notAvailable,
			CreatedAt:  a.CreatedAt,
		}
		if d, ok := descriptions[a.QuestionID]; ok {
			row.Question = d
		}
		if a.IsPositive != nil {
			row.IsPositive = "No"
			if *a.IsPositive {
				row.IsPositive = "Yes"
			}
		}
		if a.Rating != nil {
			row.Rating = strconv.Itoa(*a.Rating)
		}
		if a.Input != nil && *a.Input != "" {
			row.Input = *a.Input
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV renders rows as CSV. Text fields are always quoted with embedded
// quotes doubled. Numeric ratings and timestamps are written bare; a missing
// rating is the quoted text "N/A".
func WriteCSV(w io.Writer, rows []TableRow) error {
	if _, err := io.WriteString(w, "Question,Positive,Rating,Input,Created At\n"); err != nil {
		return err
	}
	for _, r := range rows {
		line := strings.Join([]string{
			quote(r.Question),
			quote(r.IsPositive),
			ratingCell(r.Rating),
			quote(r.Input),
			r.CreatedAt.UTC().Format(time.RFC3339),
		}, ",")
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func ratingCell(rating string) string {
	if rating == notAvailable {
		return quote(rating)
	}
	return rating
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
