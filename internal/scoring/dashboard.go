package scoring

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// SurveyResult is one survey's outcome in a dashboard listing. Err is set
// instead of Score when that survey could not be scored.
type SurveyResult struct {
	SurveyID string
	Score    SurveyScore
	Err      error
}

// ScoreAll scores each survey independently with at most workers running at
// once. Results arrive on the returned channel as they complete, in no
// particular order; the channel is closed once every survey has reported.
func ScoreAll(ctx context.Context, src Source, surveyIDs []string, workers int) <-chan SurveyResult {
	results := make(chan SurveyResult, len(surveyIDs))
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)

	go func() {
		defer close(results)
		for _, id := range surveyIDs {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					results <- SurveyResult{SurveyID: id, Err: err}
					return nil
				}
				score, err := ComputeSurveyScore(ctx, src, id)
				results <- SurveyResult{SurveyID: id, Score: score, Err: err}
				return nil
			})
		}
		g.Wait()
	}()

	return results
}
