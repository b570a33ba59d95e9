package catalog

import (
	"math"
	"strconv"
	"strings"

	"ad-moderation/pkg/models"
)

// FilterState is the set of catalog constraints. An empty set or a blank
// field means no constraint.
type FilterState struct {
	Status   []string `json:"status"`
	Category []string `json:"category"`
	PriceMin string   `json:"priceMin"`
	PriceMax string   `json:"priceMax"`
	Search   string   `json:"search"`
}

func DefaultFilters() FilterState {
	return FilterState{Status: []string{}, Category: []string{}}
}

func (f FilterState) clone() FilterState {
	f.Status = append([]string{}, f.Status...)
	f.Category = append([]string{}, f.Category...)
	return f
}

// ToggleStatus adds the status when absent and removes it when present.
func (f FilterState) ToggleStatus(status string) FilterState {
	out := f.clone()
	out.Status = toggle(out.Status, status)
	return out
}

func (f FilterState) ToggleCategory(category string) FilterState {
	out := f.clone()
	out.Category = toggle(out.Category, category)
	return out
}

func (f FilterState) WithPriceRange(min, max string) FilterState {
	out := f.clone()
	out.PriceMin = min
	out.PriceMax = max
	return out
}

func (f FilterState) WithSearch(search string) FilterState {
	out := f.clone()
	out.Search = search
	return out
}

// IsZero reports whether the filters impose no constraint at all.
func (f FilterState) IsZero() bool {
	_, hasMin := parseBound(f.PriceMin)
	_, hasMax := parseBound(f.PriceMax)
	return len(f.Status) == 0 && len(f.Category) == 0 && !hasMin && !hasMax && strings.TrimSpace(f.Search) == ""
}

// Matches reports whether the ad passes every constraint.
func (f FilterState) Matches(ad models.Ad) bool {
	return f.compile().matches(ad)
}

// Filter keeps the ads that pass f, preserving their order. The input is not modified.
func Filter(ads []models.Ad, f FilterState) []models.Ad {
	m := f.compile()
	out := make([]models.Ad, 0, len(ads))
	for _, ad := range ads {
		if m.matches(ad) {
			out = append(out, ad)
		}
	}
	return out
}

type matcher struct {
	statuses   map[string]struct{}
	categories map[string]struct{}
	min, max   float64
	hasMin     bool
	hasMax     bool
	search     string
}

func (f FilterState) compile() matcher {
	m := matcher{
		statuses:   foldSet(f.Status),
		categories: foldSet(f.Category),
	}
	m.min, m.hasMin = parseBound(f.PriceMin)
	m.max, m.hasMax = parseBound(f.PriceMax)
	if strings.TrimSpace(f.Search) != "" {
		m.search = strings.ToLower(f.Search)
	}
	return m
}

func (m matcher) matches(ad models.Ad) bool {
	if len(m.statuses) > 0 {
		if _, ok := m.statuses[fold(string(ad.Status))]; !ok {
			return false
		}
	}
	if len(m.categories) > 0 {
		if _, ok := m.categories[fold(ad.Category)]; !ok {
			return false
		}
	}
	// NaN compares false, so an ad without a usable price fails any set bound.
	if m.hasMin && !(ad.Price >= m.min) {
		return false
	}
	if m.hasMax && !(ad.Price <= m.max) {
		return false
	}
	if m.search != "" && !strings.Contains(strings.ToLower(ad.Title), m.search) {
		return false
	}
	return true
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func foldSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[fold(v)] = struct{}{}
	}
	return set
}

// parseBound returns ok=false for blank or unparseable input, which imposes no bound.
func parseBound(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func toggle(values []string, value string) []string {
	for i, v := range values {
		if fold(v) == fold(value) {
			return append(values[:i:i], values[i+1:]...)
		}
	}
	return append(values, value)
}
