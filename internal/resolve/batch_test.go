package resolve

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/roster-cli/internal/model"
)

func TestVerifyAll_OrderAndVerdicts(t *testing.T) {
	apps := []model.Application{
		{ApplicationID: "1", FirstName: "LUIS", LastName: "AMURAO", MiddleName: "E", Address: "Bauan, Batangas"},
		{ApplicationID: "2", FirstName: "JOHN", LastName: "NONEXISTENT"},
		{ApplicationID: "3", FirstName: "luis", LastName: "amurao", MiddleName: "e", Address: "bauan,  batangas"},
	}

	results := newTestEngine().VerifyAll(context.Background(), apps)

	require.Len(t, results, 3)
	verified := make([]bool, 0, len(results))
	for i, r := range results {
		assert.Equal(t, apps[i].ApplicationID, r.ApplicationID)
		verified = append(verified, r.IsVerified)
	}
	assert.Equal(t, []bool{true, false, true}, verified)
	assert.Equal(t, model.VerdictExact, results[0].Verdict)
	assert.Equal(t, model.VerdictNone, results[1].Verdict)
	assert.Equal(t, model.VerdictExact, results[2].Verdict)
}

func TestVerifyAll_Empty(t *testing.T) {
	assert.Empty(t, newTestEngine().VerifyAll(context.Background(), nil))
}

func TestVerifyAll_PreservesOrderUnderConcurrency(t *testing.T) {
	e := NewEngine(fixtureRoster(), Options{MaxConcurrency: 4})

	apps := make([]model.Application, 0, 60)
	for i := range 60 {
		app := model.Application{ApplicationID: fmt.Sprintf("app-%02d", i), FirstName: "PEDRO", LastName: "REYES"}
		if i%3 == 0 {
			app = model.Application{ApplicationID: fmt.Sprintf("app-%02d", i), FirstName: "LUIS", LastName: "AMURAO"}
		}
		apps = append(apps, app)
	}

	results := e.VerifyAll(context.Background(), apps)

	require.Len(t, results, len(apps))
	for i, r := range results {
		assert.Equal(t, apps[i].ApplicationID, r.ApplicationID)
		if i%3 == 0 {
			assert.Equal(t, model.VerdictExact, r.Verdict)
		} else {
			assert.Equal(t, model.VerdictMultiple, r.Verdict)
		}
	}
}

func TestVerifyAll_IsolatesFailures(t *testing.T) {
	e := newTestEngine()
	e.ranker = NewRanker(func(app model.NormalizedApplication, rec model.RosterRecord) float64 {
		if app.LastName == "BOOM" {
			panic("scorer exploded")
		}
		return Score(app, rec)
	}, DefaultMinSimilarity)

	apps := []model.Application{
		{ApplicationID: "ok-1", FirstName: "LUIS", LastName: "AMURAO"},
		{ApplicationID: "bad", FirstName: "LUIS", LastName: "BOOM"},
		{ApplicationID: "empty"},
		{ApplicationID: "ok-2", FirstName: "PEDRO", LastName: "REYES"},
	}

	results := e.VerifyAll(context.Background(), apps)

	require.Len(t, results, 4)
	assert.Equal(t, model.VerdictExact, results[0].Verdict)

	assert.Equal(t, model.VerdictNone, results[1].Verdict)
	assert.False(t, results[1].IsVerified)
	assert.Equal(t, 0.0, results[1].Confidence)
	assert.Empty(t, results[1].Matches)
	assert.Contains(t, results[1].Error, "scorer exploded")

	assert.Equal(t, model.VerdictNone, results[2].Verdict)
	assert.False(t, results[2].Failed())
	assert.Equal(t, model.VerdictMultiple, results[3].Verdict)
}

func TestVerifyAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	apps := []model.Application{
		{FirstName: "LUIS", LastName: "AMURAO"},
		{FirstName: "PEDRO", LastName: "REYES"},
	}
	results := newTestEngine().VerifyAll(ctx, apps)

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, model.VerdictNone, r.Verdict)
		assert.True(t, r.Failed())
	}
}

func TestVerifyAll_Observer(t *testing.T) {
	var mu sync.Mutex
	seen := map[int]model.Verdict{}

	e := NewEngine(fixtureRoster(), Options{
		MaxConcurrency: 2,
		Observer: ObserverFunc(func(index, total int, _ model.Application, res model.VerificationResult) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, 3, total)
			seen[index] = res.Verdict
		}),
	})

	e.VerifyAll(context.Background(), []model.Application{
		{FirstName: "LUIS", LastName: "AMURAO"},
		{FirstName: "JOHN", LastName: "NONEXISTENT"},
		{FirstName: "PEDRO", LastName: "REYES"},
	})

	assert.Equal(t, map[int]model.Verdict{
		0: model.VerdictExact,
		1: model.VerdictNone,
		2: model.VerdictMultiple,
	}, seen)
}

func TestVerifyAll_ObserverPanicDoesNotLoseResults(t *testing.T) {
	e := NewEngine(fixtureRoster(), Options{
		MaxConcurrency: 2,
		Observer: ObserverFunc(func(index, _ int, _ model.Application, _ model.VerificationResult) {
			if index == 1 {
				panic("observer failure")
			}
		}),
	})

	var results []model.VerificationResult
	require.NotPanics(t, func() {
		results = e.VerifyAll(context.Background(), []model.Application{
			{FirstName: "LUIS", LastName: "AMURAO"},
			{FirstName: "JOHN", LastName: "NONEXISTENT"},
			{FirstName: "PEDRO", LastName: "REYES"},
		})
	})

	require.Len(t, results, 3)
	assert.Equal(t, model.VerdictExact, results[0].Verdict)
	assert.Equal(t, model.VerdictNone, results[1].Verdict)
	assert.False(t, results[1].Failed())
	assert.Equal(t, model.VerdictMultiple, results[2].Verdict)
}

func TestVerifyAll_MatchesSingleVerify(t *testing.T) {
	e := newTestEngine()
	apps := []model.Application{
		{FirstName: "LUIS", LastName: "AMURAO JR"},
		{FirstName: "GUILLERMO", LastName: "REYES", MiddleName: "S"},
	}

	batch := e.VerifyAll(context.Background(), apps)
	for i, app := range apps {
		single := e.Verify(context.Background(), app)
		single.ProcessingTimeSeconds = 0
		batch[i].ProcessingTimeSeconds = 0
		assert.Equal(t, single, batch[i])
	}
}
