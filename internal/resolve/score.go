package resolve

import (
	"github.com/sells-group/roster-cli/internal/model"
)

// Field weights for the composite score. They sum to 1.0 when all four
// fields are present on both sides.
const (
	WeightLastName   = 0.4
	WeightFirstName  = 0.3
	WeightMiddleName = 0.2
	WeightAddress    = 0.1
)

// fieldPair is one comparable field of an (application, record) pair.
type fieldPair struct {
	app    string
	record string
	weight float64
}

// Score returns the weighted average similarity between app and rec over the
// fields present on both sides. A field missing on either side is left out of
// both the numerator and the denominator, so the weights renormalize over the
// remaining fields. Returns 0 when no field is shared.
func Score(app model.NormalizedApplication, rec model.RosterRecord) float64 {
	pairs := [...]fieldPair{
		{app.LastName, rec.LastName, WeightLastName},
		{app.FirstName, rec.FirstName, WeightFirstName},
		{app.MiddleName, rec.MiddleName, WeightMiddleName},
		{app.Address, rec.Address, WeightAddress},
	}

	var totalScore, totalWeight float64
	for _, p := range pairs {
		if p.app == "" {
			continue
		}
		recValue := Normalize(p.record)
		if recValue == "" {
			continue
		}
		totalScore += p.weight * Similarity(p.app, recValue)
		totalWeight += p.weight
	}

	if totalWeight > 0 {
		return totalScore / totalWeight
	}
	return 0.0
}
