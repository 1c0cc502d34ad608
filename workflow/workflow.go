// Package workflow drives backend agentic workflows: watching a live run to
// completion, or stepping through a demo sequence on an injected clock.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"caseflow/models"
)

// DemoSteps lists the step sequences shown when a workflow is run in demo
// mode, keyed by workflow name.
var DemoSteps = map[string][]string{
	"report": {
		"Collecting case documents",
		"Extracting income and expenditure",
		"Drafting advice report",
		"Reviewing compliance checklist",
		"Finalizing report",
	},
	"triage": {
		"Reading client intake form",
		"Scoring urgency",
		"Assigning adviser",
	},
}

// StatusFetcher is the slice of the backend client the watcher needs.
type StatusFetcher interface {
	WorkflowStatus(ctx context.Context, runID string) (*models.WorkflowRun, error)
}

// Stepper advances through a fixed step sequence on a clock tick. The clock
// is injected so demo runs are deterministic under test.
type Stepper struct {
	clock    clockwork.Clock
	interval time.Duration
	log      zerolog.Logger
}

// NewStepper creates a stepper that advances one step per interval.
func NewStepper(clock clockwork.Clock, interval time.Duration, log zerolog.Logger) *Stepper {
	return &Stepper{
		clock:    clock,
		interval: interval,
		log:      log.With().Str("component", "workflow").Logger(),
	}
}

// Run reports each step in order, one per interval. It returns early if the
// context is cancelled.
func (s *Stepper) Run(ctx context.Context, steps []string, report func(i int, step string)) error {
	for i, step := range steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(s.interval):
		}
		s.log.Debug().Int("step", i).Str("name", step).Msg("demo step")
		report(i, step)
	}
	return nil
}

// Watcher polls a live workflow run until it reaches a terminal state,
// reporting every step transition it observes.
type Watcher struct {
	api      StatusFetcher
	clock    clockwork.Clock
	interval time.Duration
	log      zerolog.Logger
}

// NewWatcher creates a watcher polling at the given interval.
func NewWatcher(api StatusFetcher, clock clockwork.Clock, interval time.Duration, log zerolog.Logger) *Watcher {
	return &Watcher{
		api:      api,
		clock:    clock,
		interval: interval,
		log:      log.With().Str("component", "workflow").Logger(),
	}
}

// Wait polls the run until it completes or fails. report is invoked on every
// observed step change, including the terminal poll.
func (w *Watcher) Wait(ctx context.Context, runID string, report func(run *models.WorkflowRun)) (*models.WorkflowRun, error) {
	lastStep := -2 // distinct from the backend's -1 "not started"
	for {
		run, err := w.api.WorkflowStatus(ctx, runID)
		if err != nil {
			return nil, fmt.Errorf("failed to poll workflow %s: %w", runID, err)
		}

		if run.Step != lastStep {
			lastStep = run.Step
			if report != nil {
				report(run)
			}
		}

		if run.Terminal() {
			if run.Status == models.WorkflowFailed {
				return run, fmt.Errorf("workflow %s failed: %s", runID, run.Error)
			}
			return run, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-w.clock.After(w.interval):
		}
	}
}
