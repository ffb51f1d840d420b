package domain

import (
	"errors"
	"time"
)

var (
	// ErrEmptyDataset is returned when cleaning leaves no rows to draw.
	ErrEmptyDataset = errors.New("dataset has no usable rows")

	// ErrMissingColumn is returned when a CSV lacks a column a job needs.
	ErrMissingColumn = errors.New("missing column")
)

// Artifact describes one image written by a job.
type Artifact struct {
	Name       string    `json:"name"`
	Job        string    `json:"job"`
	Path       string    `json:"path"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Rows       int       `json:"rows"`
	RenderedAt time.Time `json:"rendered_at"`
}

// NewArtifact stamps an artifact with the package clock.
func NewArtifact(job, name, path string, width, height, rows int) Artifact {
	return Artifact{
		Name:       name,
		Job:        job,
		Path:       path,
		Width:      width,
		Height:     height,
		Rows:       rows,
		RenderedAt: clock.Now(),
	}
}
