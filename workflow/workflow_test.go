package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseflow/models"
)

func TestStepperRunsEveryStepInOrder(t *testing.T) {
	clock := clockwork.NewFakeClock()
	stepper := NewStepper(clock, time.Second, zerolog.Nop())
	steps := []string{"collect", "extract", "draft"}

	reported := make(chan string, len(steps))
	done := make(chan error, 1)
	go func() {
		done <- stepper.Run(context.Background(), steps, func(i int, step string) {
			reported <- step
		})
	}()

	for _, want := range steps {
		clock.BlockUntil(1)
		clock.Advance(time.Second)
		assert.Equal(t, want, <-reported)
	}
	require.NoError(t, <-done)
}

func TestStepperStopsOnCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	stepper := NewStepper(clock, time.Second, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- stepper.Run(ctx, []string{"a", "b"}, func(int, string) {
			t.Error("no step should be reported")
		})
	}()

	clock.BlockUntil(1)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

type fakeStatus struct {
	runs []*models.WorkflowRun
	err  error
	i    int
}

func (f *fakeStatus) WorkflowStatus(ctx context.Context, runID string) (*models.WorkflowRun, error) {
	if f.err != nil {
		return nil, f.err
	}
	run := f.runs[f.i]
	if f.i < len(f.runs)-1 {
		f.i++
	}
	return run, nil
}

func TestWatcherReportsStepTransitions(t *testing.T) {
	steps := []string{"collect", "draft", "finalize"}
	api := &fakeStatus{runs: []*models.WorkflowRun{
		{ID: "run-1", Status: models.WorkflowRunning, Step: 0, Steps: steps},
		{ID: "run-1", Status: models.WorkflowRunning, Step: 1, Steps: steps},
		{ID: "run-1", Status: models.WorkflowCompleted, Step: 2, Steps: steps},
	}}

	clock := clockwork.NewFakeClock()
	watcher := NewWatcher(api, clock, time.Second, zerolog.Nop())

	seen := make(chan int, len(steps))
	type result struct {
		run *models.WorkflowRun
		err error
	}
	done := make(chan result, 1)
	go func() {
		run, err := watcher.Wait(context.Background(), "run-1", func(r *models.WorkflowRun) {
			seen <- r.Step
		})
		done <- result{run, err}
	}()

	assert.Equal(t, 0, <-seen)
	clock.BlockUntil(1)
	clock.Advance(time.Second)
	assert.Equal(t, 1, <-seen)
	clock.BlockUntil(1)
	clock.Advance(time.Second)
	assert.Equal(t, 2, <-seen)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, models.WorkflowCompleted, res.run.Status)
}

func TestWatcherRepeatedPollsWithoutProgressReportOnce(t *testing.T) {
	api := &fakeStatus{runs: []*models.WorkflowRun{
		{ID: "run-1", Status: models.WorkflowRunning, Step: 0},
		{ID: "run-1", Status: models.WorkflowRunning, Step: 0},
		{ID: "run-1", Status: models.WorkflowCompleted, Step: 1},
	}}

	clock := clockwork.NewFakeClock()
	watcher := NewWatcher(api, clock, time.Second, zerolog.Nop())

	var reports int
	done := make(chan error, 1)
	go func() {
		_, err := watcher.Wait(context.Background(), "run-1", func(*models.WorkflowRun) {
			reports++
		})
		done <- err
	}()

	for i := 0; i < 2; i++ {
		clock.BlockUntil(1)
		clock.Advance(time.Second)
	}
	require.NoError(t, <-done)
	assert.Equal(t, 2, reports, "unchanged step must not be re-reported")
}

func TestWatcherSurfacesFailure(t *testing.T) {
	api := &fakeStatus{runs: []*models.WorkflowRun{
		{ID: "run-1", Status: models.WorkflowFailed, Step: 0, Error: "llm timeout"},
	}}

	watcher := NewWatcher(api, clockwork.NewFakeClock(), time.Second, zerolog.Nop())
	run, err := watcher.Wait(context.Background(), "run-1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm timeout")
	assert.Equal(t, models.WorkflowFailed, run.Status)
}

func TestWatcherPollError(t *testing.T) {
	api := &fakeStatus{err: errors.New("status 503")}
	watcher := NewWatcher(api, clockwork.NewFakeClock(), time.Second, zerolog.Nop())

	_, err := watcher.Wait(context.Background(), "run-1", nil)
	require.Error(t, err)
}

func TestDemoStepsKnownWorkflows(t *testing.T) {
	require.NotEmpty(t, DemoSteps["report"])
	require.NotEmpty(t, DemoSteps["triage"])
}
