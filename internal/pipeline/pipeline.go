// Package pipeline runs the weekly chart jobs and announces what they render.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/tidyviz/internal/domain"
	"github.com/couchcryptid/tidyviz/internal/observability"
)

// Job renders the charts of one TidyTuesday week.
type Job interface {
	Name() string
	Run(ctx context.Context) ([]domain.Artifact, error)
}

// Publisher announces rendered artifacts to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, artifacts []domain.Artifact) error
}

// NopPublisher discards artifacts. It is used when notifications are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, []domain.Artifact) error { return nil }

// Runner executes jobs one after another.
type Runner struct {
	jobs      []Job
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewRunner creates a Runner. A nil publisher disables notifications.
func NewRunner(jobs []Job, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Runner{
		jobs:      jobs,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run executes every job in order. A failed job is logged and counted, and the
// remaining jobs still run. The returned error joins all job failures.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("run started", "jobs", len(r.jobs))
	r.metrics.RunInProgress.Set(1)
	defer r.metrics.RunInProgress.Set(0)

	var errs []error
	for _, job := range r.jobs {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("run interrupted", "reason", err, "next_job", job.Name())
			errs = append(errs, fmt.Errorf("job %s not started: %w", job.Name(), err))
			break
		}
		if err := r.runJob(ctx, job); err != nil {
			errs = append(errs, err)
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		r.logger.Error("run finished with failures", "failed", len(errs))
	} else {
		r.logger.Info("run finished")
	}
	return err
}

func (r *Runner) runJob(ctx context.Context, job Job) error {
	name := job.Name()
	logger := r.logger.With("job", name)
	logger.Info("job started")

	start := domain.Now()
	artifacts, err := job.Run(ctx)
	elapsed := domain.Now().Sub(start)
	r.metrics.JobDuration.WithLabelValues(name).Observe(elapsed.Seconds())

	if err != nil {
		r.metrics.JobFailures.WithLabelValues(name).Inc()
		logger.Error("job failed", "error", err, "duration", elapsed)
		return fmt.Errorf("job %s: %w", name, err)
	}

	r.metrics.ChartsRendered.WithLabelValues(name).Add(float64(len(artifacts)))
	for _, a := range artifacts {
		logger.Info("chart rendered", "name", a.Name, "path", a.Path, "width", a.Width, "height", a.Height)
	}

	// Notifications are best-effort: the images are already on disk.
	if err := r.publisher.Publish(ctx, artifacts); err != nil {
		logger.Warn("publish artifacts failed", "error", err, "count", len(artifacts))
	}

	logger.Info("job finished", "charts", len(artifacts), "duration", elapsed)
	return nil
}
