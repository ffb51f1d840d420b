package render

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
)

// Display typefaces of the spam title panel.
const (
	HeadingFace font.Typeface = "Abril Fatface"
	SlabFace    font.Typeface = "Alfa Slab One"
	LightFace   font.Typeface = "Handjet Light"
)

// fallbackFont is used for chart text and for display faces that are not
// installed.
var fallbackFont = font.Font{Typeface: "Liberation", Variant: "Sans"}

var fontFiles = []struct {
	face  font.Typeface
	files []string
}{
	{HeadingFace, []string{"AbrilFatface-Regular.ttf", "AbrilFatface.ttf"}},
	{SlabFace, []string{"AlfaSlabOne-Regular.ttf", "AlfaSlabOne.ttf"}},
	{LightFace, []string{"Handjet-Light.ttf", "HandjetLight.ttf"}},
}

// RegisterFonts loads the display typefaces found in dir into gonum's font
// cache and returns how many were registered. Missing files are logged and
// rendered with the fallback face instead. An empty dir registers nothing.
func RegisterFonts(dir string, logger *slog.Logger) (int, error) {
	if dir == "" {
		logger.Info("no font directory configured, using fallback face", "fallback", fallbackFont.Name())
		return 0, nil
	}

	var n int
	for _, ff := range fontFiles {
		data, name, err := readFirst(dir, ff.files)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("display font not found, using fallback face",
				"typeface", ff.face, "dir", dir, "fallback", fallbackFont.Name())
			continue
		}
		if err != nil {
			return n, err
		}

		otf, err := opentype.Parse(data)
		if err != nil {
			return n, fmt.Errorf("parse font %s: %w", name, err)
		}
		font.DefaultCache.Add(font.Collection{{
			Font: font.Font{Typeface: ff.face},
			Face: otf,
		}})
		logger.Debug("display font registered", "typeface", ff.face, "file", name)
		n++
	}
	return n, nil
}

func readFirst(dir string, names []string) ([]byte, string, error) {
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, path, fmt.Errorf("read font %s: %w", path, err)
		}
		return data, path, nil
	}
	return nil, "", fs.ErrNotExist
}

func fontFor(tf font.Typeface, size vg.Length) font.Font {
	fnt := font.Font{Typeface: tf}
	if tf == "" || !font.DefaultCache.Has(fnt) {
		fnt = fallbackFont
	}
	fnt.Size = size
	return fnt
}
