// Package domain holds the chart arithmetic behind the weekly TidyTuesday renders.
//
// # Data Sources
//
// Datasets are the CSV files published in the rfordatascience/tidytuesday
// repository. Each job downloads its files once per run. Nothing is stored
// except the rendered PNGs and the downloaded flag assets.
//
// # Week 2023-33: Spam E-mail
//
// spam.csv has one row per e-mail sample:
//
//	crl.tot  total length of uninterrupted capital-letter runs
//	dollar   frequency of "$"
//	bang     frequency of "!"
//	money    frequency of "money"
//	n000     frequency of "000"
//	make     frequency of "make"
//	yesno    "y" for spam, "n" for a legitimate e-mail
//
// For the radar chart every feature is reduced to a presence percentage per
// class: the share of rows with a value above zero, rounded to two decimals.
// The boxplots use crl.tot values below [CharacterLimit].
//
// # Week 2023-37: Time Spent Sleeping
//
// all_countries.csv is filtered to the "Sleep & bedrest" subcategory and joined
// with country_regions.csv on country_iso3. Region names are collapsed to
// continents by [NormalizeRegion]:
//
//	".*Asia"                  → Asia
//	".*America|.*Caribbean"   → America
//	".*Africa"                → Africa
//	".*Europe"                → Europe
//
// Rules are tried in order and only the region column is rewritten, so a
// country called "South Africa" keeps its name.
//
// # Polar Geometry
//
// Both chart types use degrees counter-clockwise from the positive x axis,
// except the radar chart whose first axis sits at 12 o'clock and whose axes
// advance clockwise (see [RadarScreenAngle]). The sleep chart spreads one wedge
// per country over [WedgeStartAngle, WedgeEndAngle]; see [LayoutWedges].
package domain
