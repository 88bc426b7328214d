package resolve

import (
	"context"
	"runtime"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/model"
)

// Roster exposes a read-only roster snapshot. Implementations must return the
// same slice contents for the lifetime of a snapshot and never mutate them.
type Roster interface {
	Records() []model.RosterRecord
}

// StaticRoster is a fixed in-memory roster.
type StaticRoster []model.RosterRecord

// Records returns the roster itself.
func (s StaticRoster) Records() []model.RosterRecord { return s }

// Options configures an Engine. Zero values fall back to defaults.
type Options struct {
	MinSimilarity      float64
	ExactConfidence    float64
	MultipleConfidence float64
	MaxConcurrency     int
	Observer           Observer
}

// Engine verifies applications against an injected roster. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	roster      Roster
	ranker      *Ranker
	classifier  Classifier
	concurrency int
	observer    Observer
}

// NewEngine creates an Engine over roster.
func NewEngine(roster Roster, opts Options) *Engine {
	if opts.MinSimilarity <= 0 {
		opts.MinSimilarity = DefaultMinSimilarity
	}
	if opts.ExactConfidence <= 0 {
		opts.ExactConfidence = DefaultExactConfidence
	}
	if opts.MultipleConfidence <= 0 {
		opts.MultipleConfidence = DefaultMultipleConfidence
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = runtime.NumCPU()
	}
	if opts.Observer == nil {
		opts.Observer = LogObserver{}
	}
	return &Engine{
		roster: roster,
		ranker: NewRanker(Score, opts.MinSimilarity),
		classifier: Classifier{
			ExactConfidence:    opts.ExactConfidence,
			MultipleConfidence: opts.MultipleConfidence,
		},
		concurrency: opts.MaxConcurrency,
		observer:    opts.Observer,
	}
}

// Verify runs the full pipeline for one application. Failures never surface
// as Go errors: they come back as an unverified NONE result with Error set.
func (e *Engine) Verify(ctx context.Context, app model.Application) model.VerificationResult {
	return e.verifyOne(ctx, e.roster.Records(), app)
}

// verifyOne isolates a single item: errors and panics become an unverified
// result carrying the elapsed time.
func (e *Engine) verifyOne(ctx context.Context, roster []model.RosterRecord, app model.Application) (result model.VerificationResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := eris.Errorf("resolve: panic verifying application: %v", r)
			result = e.failed(app, start, err)
		}
	}()

	res, err := e.verify(ctx, roster, app)
	if err != nil {
		return e.failed(app, start, err)
	}
	res.ProcessingTimeSeconds = time.Since(start).Seconds()
	return res
}

func (e *Engine) verify(ctx context.Context, roster []model.RosterRecord, app model.Application) (model.VerificationResult, error) {
	// An application without any scored field scores 0 against every record
	// and ends up NONE like any other non-match.
	norm := NormalizeApplication(app)

	candidates, err := e.ranker.Rank(ctx, norm, roster)
	if err != nil {
		return model.VerificationResult{}, err
	}

	c := e.classifier.Classify(candidates)
	return model.VerificationResult{
		ApplicationID:    app.ApplicationID,
		IsVerified:       c.IsVerified,
		Confidence:       c.Confidence,
		Matches:          c.Matches,
		Verdict:          c.Verdict,
		SimilarityScores: c.SimilarityScores,
	}, nil
}

func (e *Engine) failed(app model.Application, start time.Time, err error) model.VerificationResult {
	zap.L().Warn("verification failed",
		zap.String("component", "resolve"),
		zap.String("application_id", app.ApplicationID),
		zap.Error(err),
	)
	return model.UnverifiedResult(app.ApplicationID, time.Since(start).Seconds(), err.Error())
}

// FindByName returns up to limit roster records whose normalized full name
// contains the normalized text. See FindByName.
func (e *Engine) FindByName(text string, limit int) []model.RosterRecord {
	return FindByName(e.roster.Records(), text, limit)
}
