package resolve

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/roster-cli/internal/model"
)

// DefaultMinSimilarity is the composite score a record must strictly exceed
// to become a candidate.
const DefaultMinSimilarity = 0.6

// ScoreFunc scores one (application, record) pair in [0,1].
type ScoreFunc func(app model.NormalizedApplication, rec model.RosterRecord) float64

// Ranker scans the full roster and keeps the records scoring above a
// threshold, best first.
type Ranker struct {
	score     ScoreFunc
	threshold float64
}

// NewRanker creates a Ranker. A nil score falls back to Score.
func NewRanker(score ScoreFunc, threshold float64) *Ranker {
	if score == nil {
		score = Score
	}
	return &Ranker{score: score, threshold: threshold}
}

// Rank scores app against every roster record using the default composite
// scorer and threshold.
func Rank(app model.NormalizedApplication, roster []model.RosterRecord) []model.CandidateMatch {
	// Background never cancels, so the error is always nil.
	out, _ := NewRanker(Score, DefaultMinSimilarity).Rank(context.Background(), app, roster)
	return out
}

// Rank returns the records whose score is strictly greater than the
// threshold, sorted by score descending. Equal scores keep roster order.
// The context is checked between records so a cancelled batch stops early.
func (r *Ranker) Rank(ctx context.Context, app model.NormalizedApplication, roster []model.RosterRecord) ([]model.CandidateMatch, error) {
	var candidates []model.CandidateMatch
	for i := range roster {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrapf(err, "resolve: rank stopped at record %d of %d", i, len(roster))
		}
		s := r.score(app, roster[i])
		if s > r.threshold {
			candidates = append(candidates, model.CandidateMatch{Record: roster[i], Score: s})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates, nil
}
