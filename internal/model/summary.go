package model

// Summary tallies a batch of results.
type Summary struct {
	Total     int             `json:"total"`
	Verified  int             `json:"verified"`
	Failed    int             `json:"failed"`
	ByVerdict map[Verdict]int `json:"by_verdict"`
}

// Summarize counts results by verdict. Every known verdict is present in
// ByVerdict, zero or not.
func Summarize(results []VerificationResult) Summary {
	s := Summary{
		Total: len(results),
		ByVerdict: map[Verdict]int{
			VerdictExact:    0,
			VerdictPartial:  0,
			VerdictMultiple: 0,
			VerdictNone:     0,
		},
	}
	for _, r := range results {
		if r.IsVerified {
			s.Verified++
		}
		if r.Failed() {
			s.Failed++
		}
		s.ByVerdict[r.Verdict]++
	}
	return s
}
