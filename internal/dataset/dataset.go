// Package dataset reshapes the raw TidyTuesday CSV files into the frames each
// chart needs. Frames are gota DataFrames; results leave the package as
// domain types.
package dataset

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/tidyviz/internal/domain"
)

// Column names used by the jobs.
const (
	colCharacters = "crl.tot"
	colClass      = "yesno"

	colSubcategory = "Subcategory"
	colISO3        = "country_iso3"
	colISO2        = "country_iso2"
	colCountry     = "country_name"
	colRegion      = "region_name"
	colHours       = "hoursPerDayCombined"
)

// LoadSpam parses spam.csv.
func LoadSpam(data []byte) (dataframe.DataFrame, error) {
	types := map[string]series.Type{
		colCharacters: series.Float,
		colClass:      series.String,
	}
	required := []string{colCharacters, colClass}
	for _, f := range domain.SpamFeatures {
		types[f.Column] = series.Float
		required = append(required, f.Column)
	}
	return load("spam", data, types, required)
}

// LoadCountries parses all_countries.csv.
func LoadCountries(data []byte) (dataframe.DataFrame, error) {
	types := map[string]series.Type{
		"Category":     series.String,
		colSubcategory: series.String,
		colISO3:        series.String,
		"region_code":  series.String,
		colHours:       series.Float,
	}
	return load("countries", data, types, []string{colSubcategory, colISO3, colHours})
}

// LoadRegions parses country_regions.csv. Every column is read as text so codes
// such as M49 numbers keep their leading zeros.
func LoadRegions(data []byte) (dataframe.DataFrame, error) {
	types := map[string]series.Type{
		"region_code":      series.String,
		colRegion:          series.String,
		colCountry:         series.String,
		"M49_code":         series.String,
		colISO2:            series.String,
		colISO3:            series.String,
		"alt_country_name": series.String,
	}
	return load("regions", data, types, []string{colISO3, colISO2, colCountry, colRegion})
}

func load(name string, data []byte, types map[string]series.Type, required []string) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(bytes.NewReader(data), dataframe.WithTypes(types))
	if df.Err != nil {
		return df, fmt.Errorf("read %s csv: %w", name, df.Err)
	}
	if err := requireColumns(df, required...); err != nil {
		return df, fmt.Errorf("read %s csv: %w", name, err)
	}
	return df, nil
}

func requireColumns(df dataframe.DataFrame, cols ...string) error {
	have := make(map[string]bool, df.Ncol())
	for _, n := range df.Names() {
		have[n] = true
	}
	var missing []string
	for _, c := range cols {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// nanText is how gota renders a missing cell. A string NA copied by a join
// keeps this text but loses its NA flag.
const nanText = "NaN"

// missing reports whether a cell holds no usable value.
func missing(e series.Element) bool {
	if e.IsNA() {
		return true
	}
	if e.Type() == series.Float {
		return math.IsNaN(e.Float())
	}
	v := strings.TrimSpace(e.String())
	return v == "" || v == nanText
}

// dropMissing keeps the rows with a value in every one of cols.
func dropMissing(df dataframe.DataFrame, cols ...string) dataframe.DataFrame {
	present := func(e series.Element) bool { return !missing(e) }
	filters := make([]dataframe.F, len(cols))
	for i, c := range cols {
		filters[i] = dataframe.F{Colname: c, Comparator: series.CompFunc, Comparando: present}
	}
	return df.FilterAggregation(dataframe.And, filters...)
}

// stringAt returns the trimmed cell value and whether it holds data.
func stringAt(s series.Series, i int) (string, bool) {
	e := s.Elem(i)
	if missing(e) {
		return "", false
	}
	return strings.TrimSpace(e.String()), true
}

// floatAt returns the cell value and whether it is a number.
func floatAt(s series.Series, i int) (float64, bool) {
	e := s.Elem(i)
	if missing(e) {
		return 0, false
	}
	return e.Float(), true
}
