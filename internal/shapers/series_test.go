package shapers

import (
	"testing"

	"feedback-go/internal/models"
)

func rating(q string, v int) models.Answer { return models.Answer{QuestionID: q, Rating: &v} }
func vote(q string, v bool) models.Answer  { return models.Answer{QuestionID: q, IsPositive: &v} }

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 20, "short"},
		{"exactly twenty chars", 20, "exactly twenty chars"},
		{"this label is far too long", 20, "this label is far to..."},
		{"héllo wörld", 5, "héllo..."},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestBinarySeries(t *testing.T) {
	questions := []models.Question{
		{ID: "b1", Type: models.QuestionBinary, Description: "Was the checkout quick enough for you?"},
		{ID: "r1", Type: models.QuestionRating, Description: "Rate us"},
		{ID: "b2", Type: models.QuestionBinary, Description: "Clean tables?"},
	}
	answers := []models.Answer{
		vote("b1", true), vote("b1", false), vote("b1", true),
		rating("r1", 9),
		{QuestionID: "b1"},
	}

	got := BinarySeries(questions, answers)
	if len(got) != 2 {
		t.Fatalf("got %d points, want 2", len(got))
	}

	first := got[0]
	if first.Label != "Was the checkout qui..." {
		t.Errorf("label = %q", first.Label)
	}
	if first.PositiveCount != 2 || first.NegativeCount != 1 || first.TotalCount != 3 {
		t.Errorf("counts = %+v", first)
	}

	second := got[1]
	if second.Label != "Clean tables?" || second.TotalCount != 0 {
		t.Errorf("second = %+v", second)
	}
}

func TestNPSSeries(t *testing.T) {
	questions := []models.Question{
		{ID: "b1", Type: models.QuestionBinary, Description: "Would you come back?"},
		{ID: "r1", Type: models.QuestionRating, RatingScale: models.ScaleNPS, Description: "How likely are you to recommend us to a friend?"},
		{ID: "r2", Type: models.QuestionRating, RatingScale: models.ScaleNPS, Description: "No answers yet"},
		{ID: "b2", Type: models.QuestionBinary, Description: "Unanswered"},
		{ID: "r3", Type: models.QuestionRating, RatingScale: models.ScaleStars, Description: "Stars"},
		{ID: "t1", Type: models.QuestionText, Description: "Comments"},
	}
	answers := []models.Answer{
		rating("r1", 10), rating("r1", 8), rating("r1", 3), rating("r1", 9),
		vote("b1", true), vote("b1", true), vote("b1", true), vote("b1", false),
		rating("r3", 5),
		{QuestionID: "r2"},
	}

	got := NPSSeries(questions, answers)
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3: %+v", len(got), got)
	}

	wantOrder := []string{"r1", "r3", "b1"}
	for i, id := range wantOrder {
		if got[i].QuestionID != id {
			t.Errorf("record %d = %s, want %s", i, got[i].QuestionID, id)
		}
		if got[i].XPosition != i {
			t.Errorf("record %d xPosition = %d", i, got[i].XPosition)
		}
	}

	r1 := got[0]
	if r1.Label != "How likely are you to rec..." {
		t.Errorf("label = %q", r1.Label)
	}
	if r1.QuestionType != models.QuestionRating || r1.ResponseCount != 4 {
		t.Errorf("r1 = %+v", r1)
	}
	if r1.Promoters != 2 || r1.Passives != 1 || r1.Detractors != 1 {
		t.Errorf("r1 split = %d/%d/%d", r1.Promoters, r1.Passives, r1.Detractors)
	}
	if r1.NPSScore != 25 || r1.PromoterPercentage != 50 {
		t.Errorf("r1 score = %d, promoter%% = %v", r1.NPSScore, r1.PromoterPercentage)
	}

	if got[1].Promoters != 1 || got[1].NPSScore != 100 {
		t.Errorf("star record = %+v", got[1])
	}

	b1 := got[2]
	if b1.QuestionType != models.QuestionBinary || b1.Passives != 0 || b1.PassivePercentage != 0 {
		t.Errorf("b1 = %+v", b1)
	}
	if b1.Promoters != 3 || b1.Detractors != 1 || b1.NPSScore != 50 {
		t.Errorf("b1 counts = %+v", b1)
	}
}

func TestNPSSeriesEmpty(t *testing.T) {
	got := NPSSeries(nil, nil)
	if got == nil || len(got) != 0 {
		t.Errorf("NPSSeries(nil, nil) = %#v, want empty slice", got)
	}
}
