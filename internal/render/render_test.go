package render

import (
	"errors"
	"image"
	"image/color"
	"io"
	"math"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/couchcryptid/tidyviz/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func rgba8(c color.Color) [4]uint8 {
	r, g, b, a := c.RGBA()
	return [4]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func assertNear(t *testing.T, want, got color.Color) {
	t.Helper()
	w, g := rgba8(want), rgba8(got)
	for i := range w {
		assert.InDelta(t, float64(w[i]), float64(g[i]), 2, "channel %d: want %v got %v", i, w, g)
	}
}

func assertNearDelta(t *testing.T, want [3]float64, got color.Color, delta float64) {
	t.Helper()
	g := rgba8(got)
	for i := range want {
		assert.InDelta(t, want[i], float64(g[i]), delta, "channel %d: want %v got %v", i, want, g)
	}
}

// pixelAt maps a data point of fig to raster coordinates at dpi.
func pixelAt(fig Figure, dpi int, x, y float64) image.Point {
	c := draw.New(vgimg.NewWith(vgimg.UseWH(fig.Width, fig.Height), vgimg.UseDPI(dpi)))
	dc := fig.Plot.DataCanvas(c)
	trX, trY := fig.Plot.Transforms(&dc)
	scale := float64(dpi) / float64(vg.Inch)
	return image.Pt(
		int(float64(trX(x))*scale),
		int(float64(fig.Height-trY(y))*scale),
	)
}

// over blends src at alpha onto an opaque dst, per channel.
func over(src, dst color.Color, alpha float64) [3]float64 {
	s, d := rgba8(src), rgba8(dst)
	var out [3]float64
	for i := range out {
		out[i] = alpha*float64(s[i]) + (1-alpha)*float64(d[i])
	}
	return out
}

// --- palette ---

func TestHex(t *testing.T) {
	assert.Equal(t, [4]uint8{0xd2, 0x27, 0x30, 0xff}, rgba8(Hex("#d22730")))
	assert.Equal(t, [4]uint8{0x0c, 0x04, 0x04, 0xff}, rgba8(SpamBackground))
}

func TestHexAlpha(t *testing.T) {
	c := color.NRGBAModel.Convert(HexAlpha("#26ff8f", 0.8)).(color.NRGBA)
	assert.Equal(t, uint8(204), c.A)
	assert.InDelta(t, 0x26, float64(c.R), 1)
	assert.InDelta(t, 0xff, float64(c.G), 1)
	assert.InDelta(t, 0x8f, float64(c.B), 1)
}

func TestWithAlpha(t *testing.T) {
	c := withAlpha(Hex("#00f275"), 0.25).(color.NRGBA)
	assert.Equal(t, color.NRGBA{R: 0x00, G: 0xf2, B: 0x75, A: 64}, c)
}

// --- compositing ---

func TestCompose(t *testing.T) {
	red := solid(10, 10, color.RGBA{R: 255, A: 255})
	blue := solid(4, 4, color.RGBA{B: 255, A: 255})
	bg := color.RGBA{R: 0x0c, G: 0x04, B: 0x04, A: 0xff}

	out := Compose(image.Pt(40, 27), bg, []Layer{
		At(red, 0, 0, 40, 9),
		At(blue, 23, 10, 20, 18), // runs past the right and bottom edges
	})

	assert.Equal(t, image.Rect(0, 0, 40, 27), out.Bounds())
	assertNear(t, color.RGBA{R: 255, A: 255}, out.At(20, 4))
	assertNear(t, bg, out.At(5, 20))
	assertNear(t, color.RGBA{B: 255, A: 255}, out.At(30, 20))
	assertNear(t, color.RGBA{B: 255, A: 255}, out.At(39, 26))
}

func TestCompose_SkipsEmptyLayers(t *testing.T) {
	bg := color.RGBA{G: 255, A: 255}
	out := Compose(image.Pt(5, 5), bg, []Layer{{}, {Image: solid(1, 1, color.Black)}})
	assertNear(t, bg, out.At(2, 2))
}

// --- flags ---

const squareSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
<rect x="0" y="0" width="10" height="10" fill="#d22730"/>
</svg>`

func TestRasterizeSVG(t *testing.T) {
	img, err := RasterizeSVG([]byte(squareSVG), 32)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())
	assertNear(t, Hex("#d22730"), img.At(16, 16))
}

func TestRasterizeSVG_Invalid(t *testing.T) {
	_, err := RasterizeSVG([]byte("not an svg"), 32)
	assert.Error(t, err)

	_, err = RasterizeSVG([]byte(squareSVG), 0)
	assert.Error(t, err)
}

// --- fonts ---

func TestRegisterFonts_EmptyDir(t *testing.T) {
	n, err := RegisterFonts("", discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRegisterFonts_MissingFilesFallBack(t *testing.T) {
	n, err := RegisterFonts(t.TempDir(), discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRegisterFonts_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AbrilFatface-Regular.ttf"), []byte("nope"), 0o644))

	_, err := RegisterFonts(dir, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse font")
}

func TestFontFor_Fallback(t *testing.T) {
	fnt := fontFor("Not Installed", 12)
	assert.Equal(t, font.Typeface("Liberation"), fnt.Typeface)
	assert.Equal(t, font.Variant("Sans"), fnt.Variant)
	assert.Equal(t, vg.Length(12), fnt.Size)
}

// --- charts ---

func testPresence() domain.SymbolPresence {
	return domain.SymbolPresence{
		Labels: []string{"$", "!", "money", "3 zeros", "make"},
		Spam:   []float64{50, 100, 50, 50, 50},
		Ham:    []float64{25, 25, 0, 0, 25},
	}
}

func TestRadarChart(t *testing.T) {
	fig, err := RadarChart(testPresence())
	require.NoError(t, err)

	assert.Equal(t, image.Pt(1200, 1200), fig.Pixels(100))

	img := fig.Image(10)
	assert.Equal(t, image.Rect(0, 0, 120, 120), img.Bounds())
	assertNear(t, SpamBackground, img.At(1, 118))
}

func TestRadarChart_SpamFill(t *testing.T) {
	fig, err := RadarChart(testPresence())
	require.NoError(t, err)

	// Between the last axis and the first, radius 30 lies inside the spam
	// polygon (edge at ~40) and outside the not-spam one (edge at ~20),
	// halfway between the 20 and 40 rings.
	const dpi = 30
	phi := domain.RadarScreenAngle(2 * math.Pi * 0.9)
	pt := pixelAt(fig, dpi, 30*math.Cos(phi), 30*math.Sin(phi))

	img := fig.Image(dpi)
	assertNearDelta(t, over(SpamStyle.General, radarDisc, 64.0/255), img.At(pt.X, pt.Y), 3)
}

func TestRadarChart_Invalid(t *testing.T) {
	_, err := RadarChart(domain.SymbolPresence{Labels: []string{"a", "b"}})
	assert.Error(t, err)

	p := testPresence()
	p.Ham = p.Ham[:3]
	_, err = RadarChart(p)
	assert.Error(t, err)
}

func TestBoxplots(t *testing.T) {
	fig, err := Boxplots([]float64{40, 120, 15, 300, 90}, []float64{278, 1028, 2259, 191, 4000})
	require.NoError(t, err)

	img := fig.Image(10)
	assert.Equal(t, image.Rect(0, 0, 120, 120), img.Bounds())
}

func TestBoxplots_BoxFills(t *testing.T) {
	ham := []float64{40, 120, 15, 300, 90}
	spam := []float64{278, 1028, 2259, 191, 4000}
	fig, err := Boxplots(ham, spam)
	require.NoError(t, err)

	const dpi = 100
	img := fig.Image(dpi)
	for i, c := range []struct {
		values []float64
		fill   color.Color
	}{
		{ham, Hex("#26ff8f")},
		{spam, Hex("#fb0700")},
	} {
		b, err := plotter.NewBoxPlot(boxWidth, float64(i), plotter.Values(c.values))
		require.NoError(t, err)

		pt := pixelAt(fig, dpi, float64(i), (b.Quartile1+b.Median)/2)
		assertNearDelta(t, over(c.fill, SpamBackground, 0.8), img.At(pt.X, pt.Y), 3)
	}
}

func TestBoxplots_Empty(t *testing.T) {
	_, err := Boxplots(nil, []float64{1})
	assert.True(t, errors.Is(err, domain.ErrEmptyDataset))
}

func TestTitlePanel(t *testing.T) {
	fig := TitlePanel()
	assert.Equal(t, image.Pt(1200, 350), fig.Pixels(100))

	img := fig.Image(20)
	assert.Equal(t, image.Rect(0, 0, 240, 70), img.Bounds())
	assertNear(t, SpamBackground, img.At(0, 0))
}

func testLayout(t *testing.T) domain.WedgeLayout {
	t.Helper()
	layout, err := domain.LayoutWedges(domain.PrepareSleep([]domain.CountrySleep{
		{ISO3: "JPN", ISO2: "JP", Name: "Japan", Region: "Eastern Asia", Hours: 8.9},
		{ISO3: "MEX", ISO2: "MX", Name: "Mexico", Region: "Central America", Hours: 9.4},
		{ISO3: "DEU", ISO2: "DE", Name: "Germany", Region: "Western Europe", Hours: 9.1},
		{ISO3: "ZAF", ISO2: "ZA", Name: "South Africa", Region: "Southern Africa", Hours: 9.8},
	}))
	require.NoError(t, err)
	return layout
}

func TestSleepChart(t *testing.T) {
	flag, err := RasterizeSVG([]byte(squareSVG), 16)
	require.NoError(t, err)

	fig, err := SleepChart(testLayout(t), SleepAssets{
		Flags:   map[string]image.Image{"jp": flag, "de": flag},
		BedIcon: solid(10, 10, color.White),
	})
	require.NoError(t, err)
	assert.Equal(t, image.Pt(4000, 4000), fig.Pixels(100))

	img := fig.Image(5)
	assert.Equal(t, image.Rect(0, 0, 200, 200), img.Bounds())
	assertNear(t, SleepBackground, img.At(199, 199))
}

func TestSleepChart_WedgeColor(t *testing.T) {
	layout := testLayout(t)
	fig, err := SleepChart(layout, SleepAssets{})
	require.NoError(t, err)

	// The longest sleeper, South Africa, takes the last slot in the upper right.
	last := layout.Wedges[len(layout.Wedges)-1]
	require.Equal(t, "ZAF", last.Country.ISO3)
	mid := domain.PolarPoint(last.Length-last.BarLength/2, last.Angle, 0)

	const dpi = 10
	pt := pixelAt(fig, dpi, mid.X, mid.Y)
	img := fig.Image(dpi)
	assertNear(t, Hex(domain.RegionColor(domain.RegionAfrica)), img.At(pt.X, pt.Y))
}

func TestSleepChart_Empty(t *testing.T) {
	_, err := SleepChart(domain.WedgeLayout{}, SleepAssets{})
	assert.True(t, errors.Is(err, domain.ErrEmptyDataset))
}

func TestWedgePolygon(t *testing.T) {
	wg := domain.Wedge{Start: 100, End: 104.5, Length: 10, BarLength: 4}
	at := func(p domain.Point) vg.Point { return vg.Point{X: vg.Length(p.X), Y: vg.Length(p.Y)} }

	pts := wedgePolygon(at, wg)
	require.Len(t, pts, 2*(5+1))

	first := domain.PolarPoint(10, 100, 0)
	last := domain.PolarPoint(6, 100, 0)
	assert.InDelta(t, first.X, float64(pts[0].X), 1e-9)
	assert.InDelta(t, first.Y, float64(pts[0].Y), 1e-9)
	assert.InDelta(t, last.X, float64(pts[len(pts)-1].X), 1e-9)
	assert.InDelta(t, last.Y, float64(pts[len(pts)-1].Y), 1e-9)
}
