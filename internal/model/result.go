package model

// Verdict classifies the outcome of a verification.
type Verdict string

const (
	VerdictExact    Verdict = "EXACT"    // one candidate above the exact confidence bar
	VerdictPartial  Verdict = "PARTIAL"  // one candidate below it
	VerdictMultiple Verdict = "MULTIPLE" // two or more candidates
	VerdictNone     Verdict = "NONE"     // no candidates, or the item failed
)

// Valid reports whether v is one of the known verdicts.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictExact, VerdictPartial, VerdictMultiple, VerdictNone:
		return true
	}
	return false
}

// CandidateMatch pairs a roster record with its composite score in [0,1].
type CandidateMatch struct {
	Record RosterRecord `json:"record"`
	Score  float64      `json:"score"`
}

// VerificationResult is the outcome of verifying one application.
// Matches and SimilarityScores are parallel and follow ranking order.
type VerificationResult struct {
	ApplicationID         string         `json:"application_id,omitempty"`
	IsVerified            bool           `json:"is_verified"`
	Confidence            float64        `json:"confidence"`
	Matches               []RosterRecord `json:"matches"`
	Verdict               Verdict        `json:"verdict"`
	ProcessingTimeSeconds float64        `json:"processing_time_seconds"`
	SimilarityScores      []float64      `json:"similarity_scores"`
	Error                 string         `json:"error,omitempty"`
}

// Failed reports whether the result stands for a per-item failure rather
// than a genuine no-match.
func (r VerificationResult) Failed() bool {
	return r.Error != ""
}

// UnverifiedResult is the result reported for an application that could not
// be processed. It always carries empty, non-nil match slices.
func UnverifiedResult(applicationID string, elapsedSeconds float64, reason string) VerificationResult {
	return VerificationResult{
		ApplicationID:         applicationID,
		IsVerified:            false,
		Confidence:            0,
		Matches:               []RosterRecord{},
		Verdict:               VerdictNone,
		ProcessingTimeSeconds: elapsedSeconds,
		SimilarityScores:      []float64{},
		Error:                 reason,
	}
}
