package main

import (
	"fmt"
	"slices"

	"github.com/couchcryptid/tidyviz/internal/domain"
)

// phase tracks pass/fail for one group of checks.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func checkPresence(p domain.SymbolPresence) *phase {
	ph := &phase{name: "Symbol presence within [0, 100]"}
	for _, class := range []string{domain.ClassSpam, domain.ClassHam} {
		values := p.Values(class)
		if len(values) != len(p.Labels) {
			ph.errorf("class %q: %d values for %d labels", class, len(values), len(p.Labels))
			continue
		}
		for i, v := range values {
			if v < 0 || v > 100 {
				ph.errorf("class %q, %s: %.2f%% out of range", class, p.Labels[i], v)
			}
		}
	}
	return ph
}

func checkSleep(rows []domain.CountrySleep) *phase {
	ph := &phase{name: "Sleep hours positive and regions known"}
	for i, r := range rows {
		if r.Hours <= 0 {
			ph.errorf("%s: %.2f hours", r.ISO3, r.Hours)
		}
		if !slices.Contains(domain.RegionLegend, r.Region) {
			ph.errorf("%s: region %q not in legend", r.ISO3, r.Region)
		}
		if i > 0 && rows[i-1].Hours > r.Hours {
			ph.errorf("%s: out of order after %s", r.ISO3, rows[i-1].ISO3)
		}
	}
	return ph
}
