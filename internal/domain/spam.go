package domain

import "math"

// Spam dataset classes, as written in the yesno column.
const (
	ClassSpam = "y"
	ClassHam  = "n"
)

// CharacterLimit excludes the long tail of crl.tot from the boxplots.
const CharacterLimit = 5000

// Feature is a spam.csv column shown as one radar axis.
type Feature struct {
	Column string
	Label  string
}

// SpamFeatures lists the radar axes in drawing order.
var SpamFeatures = []Feature{
	{Column: "dollar", Label: "$"},
	{Column: "bang", Label: "!"},
	{Column: "money", Label: "money"},
	{Column: "n000", Label: "3 zeros"},
	{Column: "make", Label: "make"},
}

// SymbolPresence is the percentage of e-mails in each class containing each feature.
// Spam and Ham are parallel to Labels.
type SymbolPresence struct {
	Labels []string
	Spam   []float64
	Ham    []float64
}

// Values returns the percentages for a class, or nil for an unknown class.
func (p SymbolPresence) Values(class string) []float64 {
	switch class {
	case ClassSpam:
		return p.Spam
	case ClassHam:
		return p.Ham
	default:
		return nil
	}
}

// PresencePercent returns present/total as a percentage rounded to two decimals.
// An empty class yields 0.
func PresencePercent(present, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round(100*float64(present)/float64(total), 2)
}

// Round rounds half to even at the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(v*p) / p
}
