package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/couchcryptid/tidyviz/internal/adapter/fetch"
	"github.com/couchcryptid/tidyviz/internal/adapter/filestore"
	"github.com/couchcryptid/tidyviz/internal/dataset"
	"github.com/couchcryptid/tidyviz/internal/domain"
	"github.com/couchcryptid/tidyviz/internal/observability"
	"github.com/couchcryptid/tidyviz/internal/render"
)

// SleepWeek is the job name of the sleep chart.
const SleepWeek = "2023-37"

// SleepFile is the output of the sleep job.
const SleepFile = "Week_37.png"

// SleepSources are the remote inputs of the sleep job.
type SleepSources struct {
	CountriesURL string
	RegionsURL   string
	FlagBaseURL  string
	BedIconPath  string
}

// SleepJob draws average sleep and bed rest per country as a polar bar chart
// decorated with country flags.
type SleepJob struct {
	fetcher fetch.Fetcher
	store   *filestore.Store
	flags   *filestore.Store
	src     SleepSources
	dpi     int
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewSleepJob creates the sleep job. Flags are saved to flags, the chart to store.
func NewSleepJob(fetcher fetch.Fetcher, store, flags *filestore.Store, src SleepSources, dpi int, logger *slog.Logger, metrics *observability.Metrics) *SleepJob {
	return &SleepJob{
		fetcher: fetcher,
		store:   store,
		flags:   flags,
		src:     src,
		dpi:     dpi,
		logger:  logger.With("job", SleepWeek),
		metrics: metrics,
	}
}

func (j *SleepJob) Name() string { return SleepWeek }

// Run reshapes the sleep data, collects whatever flags are available, and
// renders the chart. Missing flags and a missing icon never fail the job.
func (j *SleepJob) Run(ctx context.Context) ([]domain.Artifact, error) {
	rows, err := j.load(ctx)
	if err != nil {
		return nil, err
	}
	j.metrics.RowsProcessed.WithLabelValues(SleepWeek).Add(float64(len(rows)))
	j.logger.Info("sleep dataset reshaped", "countries", len(rows))

	flags, err := j.collectFlags(ctx, rows)
	if err != nil {
		return nil, err
	}

	layout, err := domain.LayoutWedges(rows)
	if err != nil {
		return nil, err
	}
	fig, err := render.SleepChart(layout, render.SleepAssets{
		Flags:   flags,
		BedIcon: j.bedIcon(),
	})
	if err != nil {
		return nil, err
	}

	img := fig.Image(j.dpi)
	path, err := j.store.WritePNG(SleepFile, img)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return []domain.Artifact{
		domain.NewArtifact(SleepWeek, SleepFile, path, b.Dx(), b.Dy(), len(rows)),
	}, nil
}

func (j *SleepJob) load(ctx context.Context) ([]domain.CountrySleep, error) {
	countriesCSV, err := j.fetcher.Fetch(ctx, j.src.CountriesURL)
	if err != nil {
		return nil, fmt.Errorf("fetch countries dataset: %w", err)
	}
	regionsCSV, err := j.fetcher.Fetch(ctx, j.src.RegionsURL)
	if err != nil {
		return nil, fmt.Errorf("fetch regions dataset: %w", err)
	}

	countries, err := dataset.LoadCountries(countriesCSV)
	if err != nil {
		return nil, err
	}
	regions, err := dataset.LoadRegions(regionsCSV)
	if err != nil {
		return nil, err
	}
	return dataset.SleepByCountry(countries, regions)
}

// collectFlags downloads, saves, and rasterizes one flag per distinct ISO2
// code. Any failure skips that flag. Only cancellation aborts.
func (j *SleepJob) collectFlags(ctx context.Context, rows []domain.CountrySleep) (map[string]image.Image, error) {
	codes := domain.DistinctISO2(rows)
	flags := make(map[string]image.Image, len(codes))
	for _, iso2 := range codes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := j.flag(ctx, iso2)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			j.metrics.AssetFetches.WithLabelValues("flag", "skipped").Inc()
			j.logger.Warn("flag skipped", "iso2", iso2, "countries", countriesFor(rows, iso2), "error", err)
			continue
		}
		j.metrics.AssetFetches.WithLabelValues("flag", "success").Inc()
		flags[iso2] = img
	}
	j.logger.Info("flags collected", "available", len(flags), "wanted", len(codes))
	return flags, nil
}

func (j *SleepJob) flag(ctx context.Context, iso2 string) (image.Image, error) {
	svg, err := j.fetcher.Fetch(ctx, fetch.FlagURL(j.src.FlagBaseURL, iso2))
	if err != nil {
		return nil, err
	}
	if _, err := j.flags.WriteFile(iso2+".svg", svg); err != nil {
		return nil, err
	}
	img, err := render.RasterizeSVG(svg, render.FlagPixels)
	if err != nil {
		return nil, fmt.Errorf("flag %s: %w", iso2, err)
	}
	if _, err := j.flags.WritePNG(iso2+".png", img); err != nil {
		return nil, err
	}
	return img, nil
}

func (j *SleepJob) bedIcon() image.Image {
	if j.src.BedIconPath == "" {
		return nil
	}
	img, err := filestore.ReadPNG(j.src.BedIconPath)
	if err != nil {
		j.metrics.AssetFetches.WithLabelValues("icon", "skipped").Inc()
		j.logger.Warn("bed icon skipped", "path", j.src.BedIconPath, "error", err)
		return nil
	}
	j.metrics.AssetFetches.WithLabelValues("icon", "success").Inc()
	return img
}

func countriesFor(rows []domain.CountrySleep, iso2 string) string {
	var names []string
	for _, r := range rows {
		if r.ISO2 == iso2 {
			names = append(names, r.Name)
		}
	}
	return strings.Join(names, ", ")
}
