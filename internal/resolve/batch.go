package resolve

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/roster-cli/internal/model"
)

// Observer receives per-item progress from VerifyAll. OnResult is called from
// worker goroutines, so implementations must be safe for concurrent use.
type Observer interface {
	OnResult(index, total int, app model.Application, result model.VerificationResult)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(index, total int, app model.Application, result model.VerificationResult)

// OnResult calls f.
func (f ObserverFunc) OnResult(index, total int, app model.Application, result model.VerificationResult) {
	f(index, total, app, result)
}

// LogObserver logs each finished item at debug level.
type LogObserver struct{}

// OnResult implements Observer.
func (LogObserver) OnResult(index, total int, app model.Application, result model.VerificationResult) {
	zap.L().Debug("application verified",
		zap.String("component", "resolve_batch"),
		zap.Int("index", index),
		zap.Int("total", total),
		zap.String("application_id", app.ApplicationID),
		zap.String("verdict", string(result.Verdict)),
		zap.Float64("confidence", result.Confidence),
		zap.Float64("seconds", result.ProcessingTimeSeconds),
	)
}

// notify hands a finished item to the observer. A panicking observer is
// logged and ignored; the result is already stored.
func (e *Engine) notify(index, total int, app model.Application, res model.VerificationResult) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("observer panicked",
				zap.String("component", "resolve_batch"),
				zap.Int("index", index),
				zap.String("application_id", app.ApplicationID),
				zap.Any("panic", r),
			)
		}
	}()
	e.observer.OnResult(index, total, app, res)
}

// VerifyAll verifies every application and returns one result per input, in
// input order. Items run concurrently on a bounded pool against a single
// roster snapshot. A failing item yields an unverified NONE result and never
// affects the others.
func (e *Engine) VerifyAll(ctx context.Context, apps []model.Application) []model.VerificationResult {
	results := make([]model.VerificationResult, len(apps))
	if len(apps) == 0 {
		return results
	}

	log := zap.L().With(zap.String("component", "resolve_batch"))
	start := time.Now()
	roster := e.roster.Records()

	log.Info("verifying batch",
		zap.Int("applications", len(apps)),
		zap.Int("roster", len(roster)),
		zap.Int("concurrency", e.concurrency),
	)

	var g errgroup.Group
	g.SetLimit(e.concurrency)

	var verified, failed atomic.Int64

	for i, app := range apps {
		g.Go(func() error {
			res := e.verifyOne(ctx, roster, app)
			results[i] = res

			if res.IsVerified {
				verified.Add(1)
			}
			if res.Failed() {
				failed.Add(1)
			}
			e.notify(i, len(apps), app, res)
			return nil // per-item failures live in the result
		})
	}
	_ = g.Wait()

	log.Info("batch complete",
		zap.Int("total", len(apps)),
		zap.Int64("verified", verified.Load()),
		zap.Int64("failed", failed.Load()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results
}
