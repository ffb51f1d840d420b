package domain

import (
	"regexp"
	"sort"
	"strings"
)

// SleepSubcategory selects the sleep observations in all_countries.csv.
const SleepSubcategory = "Sleep & bedrest"

// Continent-level regions after normalization.
const (
	RegionAsia        = "Asia"
	RegionAmerica     = "America"
	RegionAfrica      = "Africa"
	RegionEurope      = "Europe"
	RegionPacific     = "Western Pacific Islands"
	RegionAustralasia = "Australia and New Zealand"
)

// CountrySleep is one country's average daily hours of sleep and bed rest.
type CountrySleep struct {
	ISO3   string
	ISO2   string
	Name   string
	Region string
	Hours  float64
}

var regionRules = []struct {
	pattern *regexp.Regexp
	region  string
}{
	{regexp.MustCompile(`.*Asia`), RegionAsia},
	{regexp.MustCompile(`.*America|.*Caribbean`), RegionAmerica},
	{regexp.MustCompile(`.*Africa`), RegionAfrica},
	{regexp.MustCompile(`.*Europe`), RegionEurope},
}

// NormalizeRegion collapses a UN sub-region name into its continent. Each rule
// replaces its matches in turn; names no rule matches pass through unchanged.
func NormalizeRegion(name string) string {
	for _, r := range regionRules {
		name = r.pattern.ReplaceAllString(name, r.region)
	}
	return name
}

// RegionLegend is the legend order of the sleep chart.
var RegionLegend = []string{
	RegionAsia,
	RegionAmerica,
	RegionAfrica,
	RegionEurope,
	RegionPacific,
	RegionAustralasia,
}

// RegionColor returns the hex fill for a normalized region. Unlisted regions
// share the Australasia color.
func RegionColor(region string) string {
	switch region {
	case RegionAsia:
		return "#E19898"
	case RegionAmerica:
		return "#A2678A"
	case RegionAfrica:
		return "#4D3C77"
	case RegionEurope:
		return "#3F1D38"
	case RegionPacific:
		return "#EEE2DE"
	default:
		return "#183D3D"
	}
}

// PrepareSleep normalizes regions, lowercases ISO2 codes (flag file names are
// lowercase), and sorts rows by hours ascending, keeping input order for ties.
func PrepareSleep(rows []CountrySleep) []CountrySleep {
	out := make([]CountrySleep, len(rows))
	for i, r := range rows {
		r.Region = NormalizeRegion(r.Region)
		r.ISO2 = strings.ToLower(r.ISO2)
		out[i] = r
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Hours < out[j].Hours })
	return out
}

// DistinctISO2 returns each ISO2 code once, in first-seen order.
func DistinctISO2(rows []CountrySleep) []string {
	seen := make(map[string]bool, len(rows))
	codes := make([]string, 0, len(rows))
	for _, r := range rows {
		if seen[r.ISO2] {
			continue
		}
		seen[r.ISO2] = true
		codes = append(codes, r.ISO2)
	}
	return codes
}
