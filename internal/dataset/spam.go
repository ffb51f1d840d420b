package dataset

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/tidyviz/internal/domain"
)

// SymbolPresence computes, per class, the percentage of e-mails in which each
// feature occurs at least once.
func SymbolPresence(df dataframe.DataFrame) (domain.SymbolPresence, error) {
	p := domain.SymbolPresence{Labels: make([]string, len(domain.SpamFeatures))}
	for i, f := range domain.SpamFeatures {
		p.Labels[i] = f.Label
	}

	rows := 0
	for _, class := range []string{domain.ClassSpam, domain.ClassHam} {
		sub := byClass(df, class)
		if sub.Err != nil {
			return domain.SymbolPresence{}, fmt.Errorf("filter class %q: %w", class, sub.Err)
		}
		total := sub.Nrow()
		rows += total

		values := make([]float64, len(domain.SpamFeatures))
		for i, f := range domain.SpamFeatures {
			values[i] = domain.PresencePercent(countPositive(sub.Col(f.Column)), total)
		}

		if class == domain.ClassSpam {
			p.Spam = values
		} else {
			p.Ham = values
		}
	}

	if rows == 0 {
		return domain.SymbolPresence{}, domain.ErrEmptyDataset
	}
	return p, nil
}

// CharacterCounts returns crl.tot for one class, below domain.CharacterLimit.
func CharacterCounts(df dataframe.DataFrame, class string) ([]float64, error) {
	sub := byClass(df, class)
	if sub.Err != nil {
		return nil, fmt.Errorf("filter class %q: %w", class, sub.Err)
	}
	if sub.Nrow() == 0 {
		return nil, fmt.Errorf("class %q: %w", class, domain.ErrEmptyDataset)
	}

	sub = sub.Filter(dataframe.F{
		Colname:    colCharacters,
		Comparator: series.Less,
		Comparando: float64(domain.CharacterLimit),
	})
	if sub.Err != nil {
		return nil, fmt.Errorf("filter %s: %w", colCharacters, sub.Err)
	}
	if sub.Nrow() == 0 {
		return nil, fmt.Errorf("class %q below %d characters: %w", class, domain.CharacterLimit, domain.ErrEmptyDataset)
	}
	return sub.Col(colCharacters).Float(), nil
}

func byClass(df dataframe.DataFrame, class string) dataframe.DataFrame {
	return df.Filter(dataframe.F{
		Colname:    colClass,
		Comparator: series.Eq,
		Comparando: class,
	})
}

func countPositive(s series.Series) int {
	n := 0
	for i := 0; i < s.Len(); i++ {
		if v, ok := floatAt(s, i); ok && v > 0 {
			n++
		}
	}
	return n
}
