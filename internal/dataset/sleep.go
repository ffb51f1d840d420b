package dataset

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/tidyviz/internal/domain"
)

// SleepByCountry joins the sleep observations with their regions, drops rows
// with any missing field, and returns them prepared for the polar chart.
func SleepByCountry(countries, regions dataframe.DataFrame) ([]domain.CountrySleep, error) {
	sleep := countries.Filter(dataframe.F{
		Colname:    colSubcategory,
		Comparator: series.Eq,
		Comparando: domain.SleepSubcategory,
	})
	if sleep.Err != nil {
		return nil, fmt.Errorf("filter %s: %w", colSubcategory, sleep.Err)
	}
	if sleep.Nrow() == 0 {
		return nil, fmt.Errorf("no %q rows: %w", domain.SleepSubcategory, domain.ErrEmptyDataset)
	}

	// Missing cells are dropped before the join, which does not carry NA
	// flags over to the joined frame.
	sleep = dropMissing(sleep.Select([]string{colISO3, colHours}), colISO3, colHours)
	if sleep.Err != nil {
		return nil, fmt.Errorf("drop missing sleep rows: %w", sleep.Err)
	}
	lookupCols := []string{colISO3, colISO2, colCountry, colRegion}
	lookup := dropMissing(regions.Select(lookupCols), lookupCols...)
	if lookup.Err != nil {
		return nil, fmt.Errorf("drop missing region rows: %w", lookup.Err)
	}
	joined := sleep.LeftJoin(lookup, colISO3)
	if joined.Err != nil {
		return nil, fmt.Errorf("join regions: %w", joined.Err)
	}

	var (
		iso3    = joined.Col(colISO3)
		iso2    = joined.Col(colISO2)
		country = joined.Col(colCountry)
		region  = joined.Col(colRegion)
		hours   = joined.Col(colHours)
	)

	rows := make([]domain.CountrySleep, 0, joined.Nrow())
	for i := 0; i < joined.Nrow(); i++ {
		var r domain.CountrySleep
		var ok [5]bool
		r.ISO3, ok[0] = stringAt(iso3, i)
		r.ISO2, ok[1] = stringAt(iso2, i)
		r.Name, ok[2] = stringAt(country, i)
		r.Region, ok[3] = stringAt(region, i)
		r.Hours, ok[4] = floatAt(hours, i)
		if ok != [5]bool{true, true, true, true, true} {
			continue
		}
		rows = append(rows, r)
	}

	if len(rows) == 0 {
		return nil, domain.ErrEmptyDataset
	}
	return domain.PrepareSleep(rows), nil
}
