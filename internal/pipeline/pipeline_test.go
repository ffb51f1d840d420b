package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/tidyviz/internal/domain"
	"github.com/couchcryptid/tidyviz/internal/observability"
	"github.com/couchcryptid/tidyviz/internal/pipeline"
)

// --- mocks ---

type stubJob struct {
	name      string
	artifacts []domain.Artifact
	err       error
	ran       bool

	// clock, when set, is advanced by took while the job runs.
	clock *clockwork.FakeClock
	took  time.Duration
}

func (j *stubJob) Name() string { return j.name }

func (j *stubJob) Run(context.Context) ([]domain.Artifact, error) {
	j.ran = true
	if j.clock != nil {
		j.clock.Advance(j.took)
	}
	return j.artifacts, j.err
}

type recordingPublisher struct {
	published []domain.Artifact
	calls     int
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, artifacts []domain.Artifact) error {
	p.calls++
	p.published = append(p.published, artifacts...)
	return p.err
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func artifact(job, name string) domain.Artifact {
	return domain.Artifact{Job: job, Name: name, RenderedAt: time.Date(2023, 9, 12, 0, 0, 0, 0, time.UTC)}
}

// --- tests ---

func TestRunner_Run_AllSucceed(t *testing.T) {
	spam := &stubJob{name: "2023-33", artifacts: []domain.Artifact{
		artifact("2023-33", "RadarChart.png"),
		artifact("2023-33", "17_08.png"),
	}}
	sleep := &stubJob{name: "2023-37", artifacts: []domain.Artifact{artifact("2023-37", "Week_37.png")}}
	pub := &recordingPublisher{}
	metrics := newTestMetrics()

	err := pipeline.NewRunner([]pipeline.Job{spam, sleep}, pub, discardLogger(), metrics).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, spam.ran)
	assert.True(t, sleep.ran)
	assert.Equal(t, 2, pub.calls)
	assert.Len(t, pub.published, 3)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ChartsRendered.WithLabelValues("2023-33")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ChartsRendered.WithLabelValues("2023-37")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.RunInProgress))
}

func TestRunner_Run_FailureDoesNotStopOthers(t *testing.T) {
	boom := errors.New("dataset unreachable")
	spam := &stubJob{name: "2023-33", err: boom}
	sleep := &stubJob{name: "2023-37", artifacts: []domain.Artifact{artifact("2023-37", "Week_37.png")}}
	pub := &recordingPublisher{}
	metrics := newTestMetrics()

	err := pipeline.NewRunner([]pipeline.Job{spam, sleep}, pub, discardLogger(), metrics).Run(context.Background())
	require.Error(t, err)

	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "job 2023-33")
	assert.True(t, sleep.ran, "second job should still run")
	require.Len(t, pub.published, 1)
	assert.Equal(t, "Week_37.png", pub.published[0].Name)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.JobFailures.WithLabelValues("2023-33")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.JobFailures.WithLabelValues("2023-37")))
}

func TestRunner_Run_AllFailJoinsErrors(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	jobs := []pipeline.Job{&stubJob{name: "2023-33", err: errA}, &stubJob{name: "2023-37", err: errB}}

	err := pipeline.NewRunner(jobs, nil, discardLogger(), newTestMetrics()).Run(context.Background())
	assert.True(t, errors.Is(err, errA))
	assert.True(t, errors.Is(err, errB))
}

func TestRunner_Run_PublishErrorIsNotFatal(t *testing.T) {
	job := &stubJob{name: "2023-37", artifacts: []domain.Artifact{artifact("2023-37", "Week_37.png")}}
	pub := &recordingPublisher{err: errors.New("broker down")}

	err := pipeline.NewRunner([]pipeline.Job{job}, pub, discardLogger(), newTestMetrics()).Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, pub.calls)
}

func TestRunner_Run_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := &stubJob{name: "2023-33"}
	err := pipeline.NewRunner([]pipeline.Job{job}, nil, discardLogger(), newTestMetrics()).Run(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, job.ran)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, pipeline.NopPublisher{}.Publish(context.Background(), []domain.Artifact{artifact("x", "y")}))
}

func TestRunner_Run_JobDurationUsesClock(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2023, 9, 12, 0, 0, 0, 0, time.UTC))
	domain.SetClock(clock)
	t.Cleanup(func() { domain.SetClock(nil) })

	metrics := newTestMetrics()
	job := &stubJob{name: "2023-37", clock: clock, took: 90 * time.Second}
	require.NoError(t, pipeline.NewRunner([]pipeline.Job{job}, nil, discardLogger(), metrics).Run(context.Background()))

	var m dto.Metric
	h, ok := metrics.JobDuration.WithLabelValues("2023-37").(prometheus.Histogram)
	require.True(t, ok)
	require.NoError(t, h.Write(&m))
	assert.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
	assert.Equal(t, 90.0, m.GetHistogram().GetSampleSum())
}
