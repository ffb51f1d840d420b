package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/couchcryptid/tidyviz/internal/adapter/fetch"
	"github.com/couchcryptid/tidyviz/internal/adapter/filestore"
	"github.com/couchcryptid/tidyviz/internal/dataset"
	"github.com/couchcryptid/tidyviz/internal/domain"
	"github.com/couchcryptid/tidyviz/internal/observability"
	"github.com/couchcryptid/tidyviz/internal/render"
)

// SpamWeek is the job name of the spam email charts.
const SpamWeek = "2023-33"

// Output files of the spam job.
const (
	RadarFile     = "RadarChart.png"
	BoxplotsFile  = "Boxplots.png"
	TitleFile     = "Title.png"
	SpamComposite = "17_08.png"
)

// Composite layout in pixels: top-left corner and size of each panel.
var spamCanvas = image.Pt(4000, 2700)

type placement struct {
	name       string
	x, y, w, h int
}

// Panels are pasted title first. The boxplots run past the right edge and are
// clipped, as are the bottoms of both charts.
var spamLayout = []placement{
	{TitleFile, 0, 0, 4000, 900},
	{BoxplotsFile, 2300, 1000, 2000, 1800},
	{RadarFile, 0, 1000, 2000, 1800},
}

// SpamJob compares spam and regular emails with a radar chart of symbol
// presence and boxplots of message length, merged under a title banner.
type SpamJob struct {
	fetcher fetch.Fetcher
	store   *filestore.Store
	dataURL string
	dpi     int
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewSpamJob creates the spam job writing into store.
func NewSpamJob(fetcher fetch.Fetcher, store *filestore.Store, dataURL string, dpi int, logger *slog.Logger, metrics *observability.Metrics) *SpamJob {
	return &SpamJob{
		fetcher: fetcher,
		store:   store,
		dataURL: dataURL,
		dpi:     dpi,
		logger:  logger.With("job", SpamWeek),
		metrics: metrics,
	}
}

func (j *SpamJob) Name() string { return SpamWeek }

// Run fetches spam.csv, renders the three panels, then reads them back and
// pastes them onto the composite.
func (j *SpamJob) Run(ctx context.Context) ([]domain.Artifact, error) {
	body, err := j.fetcher.Fetch(ctx, j.dataURL)
	if err != nil {
		return nil, fmt.Errorf("fetch spam dataset: %w", err)
	}
	df, err := dataset.LoadSpam(body)
	if err != nil {
		return nil, err
	}

	presence, err := dataset.SymbolPresence(df)
	if err != nil {
		return nil, err
	}
	ham, err := dataset.CharacterCounts(df, domain.ClassHam)
	if err != nil {
		return nil, err
	}
	spam, err := dataset.CharacterCounts(df, domain.ClassSpam)
	if err != nil {
		return nil, err
	}
	rows := df.Nrow()
	j.metrics.RowsProcessed.WithLabelValues(SpamWeek).Add(float64(rows))
	j.logger.Info("spam dataset reshaped", "rows", rows, "not_spam_counts", len(ham), "spam_counts", len(spam))
	j.logBoxStats("not_spam", ham)
	j.logBoxStats("spam", spam)

	radar, err := render.RadarChart(presence)
	if err != nil {
		return nil, err
	}
	boxes, err := render.Boxplots(ham, spam)
	if err != nil {
		return nil, err
	}

	panels := []struct {
		name string
		fig  render.Figure
		rows int
	}{
		{RadarFile, radar, rows},
		{BoxplotsFile, boxes, len(ham) + len(spam)},
		{TitleFile, render.TitlePanel(), 0},
	}

	artifacts := make([]domain.Artifact, 0, len(panels)+1)
	for _, pn := range panels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a, err := j.write(pn.name, pn.fig.Image(j.dpi), pn.rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}

	composite, err := j.compose()
	if err != nil {
		return nil, err
	}
	a, err := j.write(SpamComposite, composite, rows)
	if err != nil {
		return nil, err
	}
	return append(artifacts, a), nil
}

// compose reads the saved panels back from disk so the composite matches the
// files exactly.
func (j *SpamJob) compose() (image.Image, error) {
	layers := make([]render.Layer, 0, len(spamLayout))
	for _, pl := range spamLayout {
		img, err := j.store.ReadPNG(pl.name)
		if err != nil {
			return nil, err
		}
		layers = append(layers, render.At(img, pl.x, pl.y, pl.w, pl.h))
	}
	return render.Compose(spamCanvas, render.SpamBackground, layers), nil
}

func (j *SpamJob) write(name string, img image.Image, rows int) (domain.Artifact, error) {
	path, err := j.store.WritePNG(name, img)
	if err != nil {
		return domain.Artifact{}, err
	}
	b := img.Bounds()
	return domain.NewArtifact(SpamWeek, name, path, b.Dx(), b.Dy(), rows), nil
}

func (j *SpamJob) logBoxStats(class string, values []float64) {
	s, err := domain.Summarize(values)
	if err != nil {
		return
	}
	j.logger.Debug("character counts", "class", class, "n", s.N,
		"q1", s.Q1, "median", s.Median, "q3", s.Q3, "outliers", len(s.Outliers))
}
