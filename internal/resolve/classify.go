package resolve

import (
	"math"

	"github.com/sells-group/roster-cli/internal/model"
)

// Default confidence bars (0-100) above which a candidate is verified.
const (
	DefaultExactConfidence    = 90.0
	DefaultMultipleConfidence = 95.0
)

// Classifier maps a ranked candidate list to a verdict.
type Classifier struct {
	ExactConfidence    float64 // single candidate: EXACT and verified above this
	MultipleConfidence float64 // several candidates: verified above this
}

// DefaultClassifier returns a Classifier with the default confidence bars.
func DefaultClassifier() Classifier {
	return Classifier{
		ExactConfidence:    DefaultExactConfidence,
		MultipleConfidence: DefaultMultipleConfidence,
	}
}

// Classification is the verdict part of a VerificationResult.
type Classification struct {
	Verdict          model.Verdict
	Confidence       float64
	IsVerified       bool
	Matches          []model.RosterRecord
	SimilarityScores []float64
}

// Classify applies the default confidence bars to candidates.
func Classify(candidates []model.CandidateMatch) Classification {
	return DefaultClassifier().Classify(candidates)
}

// Classify maps candidates (already ranked) to a verdict:
//   - none: NONE, confidence 0, unverified
//   - one: EXACT when confidence > ExactConfidence, otherwise PARTIAL
//   - several: MULTIPLE, verified only when confidence > MultipleConfidence
//
// Confidence is the top score as a percentage rounded to one decimal.
func (c Classifier) Classify(candidates []model.CandidateMatch) Classification {
	out := Classification{
		Verdict:          model.VerdictNone,
		Matches:          make([]model.RosterRecord, 0, len(candidates)),
		SimilarityScores: make([]float64, 0, len(candidates)),
	}
	for _, cm := range candidates {
		out.Matches = append(out.Matches, cm.Record)
		out.SimilarityScores = append(out.SimilarityScores, cm.Score)
	}
	if len(candidates) == 0 {
		return out
	}

	out.Confidence = Confidence(candidates[0].Score)
	if len(candidates) == 1 {
		out.IsVerified = out.Confidence > c.ExactConfidence
		if out.IsVerified {
			out.Verdict = model.VerdictExact
		} else {
			out.Verdict = model.VerdictPartial
		}
		return out
	}

	out.Verdict = model.VerdictMultiple
	out.IsVerified = out.Confidence > c.MultipleConfidence
	return out
}

// Confidence converts a [0,1] score into a percentage rounded to one decimal
// place, halves away from zero.
func Confidence(score float64) float64 {
	return math.Round(score*1000) / 10
}
