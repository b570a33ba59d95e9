package main

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"ad-moderation/pkg/models"
)

const statusDraft models.Status = "draft"

var (
	errAdNotFound     = errors.New("ad not found")
	errReasonRequired = errors.New("reason is required")
)

type decision struct {
	adID       int64
	category   string
	kind       models.DecisionKind
	reason     string
	comment    string
	decidedAt  time.Time
	reviewTime time.Duration
}

// store is the in-memory ads backend.
type store struct {
	mu        sync.RWMutex
	ads       []models.Ad
	decisions []decision
	rnd       *rand.Rand
	now       func() time.Time
}

var seedTitles = map[string][]string{
	models.CategoryElectronics: {"iPhone 13", "Gaming laptop", "Wireless headphones", "4K monitor"},
	models.CategoryRealEstate:  {"Studio near the metro", "Two-room flat", "Country house", "Parking space"},
	models.CategoryTransport:   {"City bike", "Winter tyres", "Used hatchback", "Electric scooter"},
	models.CategoryJobs:        {"Courier wanted", "Junior developer", "Shop assistant", "Night guard"},
	models.CategoryServices:    {"Flat cleaning", "Piano lessons", "Furniture assembly", "Phone repair"},
	models.CategoryAnimals:     {"Kittens for a good home", "Aquarium with fish", "Dog leash", "Parrot cage"},
	models.CategoryFashion:     {"Leather jacket", "Running shoes", "Evening dress", "Wool scarf"},
	models.CategoryKids:        {"Baby stroller", "Lego set", "School backpack", "Kids bicycle"},
}

// newStore generates count ads. One ad gets a malformed createdAt so that
// clients can check how they handle it.
func newStore(count int, seed int64, now func() time.Time) *store {
	s := &store{
		rnd: rand.New(rand.NewSource(seed)),
		now: now,
	}

	categories := models.Categories()
	reasons := []string{"Запрещенный товар", "Неверная категория", "Другое"}
	start := now().UTC()

	for i := 1; i <= count; i++ {
		category := categories[s.rnd.Intn(len(categories))]
		titles := seedTitles[category]

		status := models.StatusPending
		switch n := s.rnd.Intn(10); {
		case n < 2:
			status = models.StatusApproved
		case n < 3:
			status = models.StatusRejected
		}

		priority := models.PriorityNormal
		if s.rnd.Intn(5) == 0 {
			priority = models.PriorityUrgent
		}

		created := start.Add(-time.Duration(s.rnd.Intn(90*24)) * time.Hour)
		ad := models.Ad{
			ID:          int64(i),
			Title:       fmt.Sprintf("%s #%d", titles[s.rnd.Intn(len(titles))], i),
			Price:       float64(s.rnd.Intn(2000)) * 50,
			Category:    category,
			Status:      status,
			Priority:    priority,
			CreatedAt:   created.Format(time.RFC3339),
			Description: fmt.Sprintf("Listing %d in %s. Pick up in person or delivery by arrangement.", i, category),
			Images: []string{
				fmt.Sprintf("https://picsum.photos/seed/ad%d-1/600/400", i),
				fmt.Sprintf("https://picsum.photos/seed/ad%d-2/600/400", i),
			},
		}
		if i == count {
			ad.CreatedAt = "not-a-date"
		}
		s.ads = append(s.ads, ad)

		if status != models.StatusPending {
			d := decision{
				adID:       ad.ID,
				category:   category,
				kind:       models.DecisionApprove,
				decidedAt:  start.Add(-time.Duration(s.rnd.Intn(30*24)) * time.Hour),
				reviewTime: s.reviewTime(),
			}
			if status == models.StatusRejected {
				d.kind = models.DecisionReject
				d.reason = reasons[s.rnd.Intn(len(reasons))]
			}
			s.decisions = append(s.decisions, d)
		}
	}

	return s
}

func (s *store) reviewTime() time.Duration {
	return time.Duration(30+s.rnd.Intn(270)) * time.Second
}

// list returns one page of ads with the given status (all when empty), ordered by id.
func (s *store) list(status models.Status, page, limit int) ([]models.Ad, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Ad, 0, len(s.ads))
	for _, ad := range s.ads {
		if status == "" || ad.Status.Normalize() == status.Normalize() {
			matched = append(matched, ad)
		}
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	from := (page - 1) * limit
	if from >= len(matched) {
		return []models.Ad{}, len(matched)
	}
	to := from + limit
	if to > len(matched) {
		to = len(matched)
	}
	return matched[from:to], len(matched)
}

func (s *store) get(id int64) (models.Ad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ad := range s.ads {
		if ad.ID == id {
			return ad, nil
		}
	}
	return models.Ad{}, errAdNotFound
}

func (s *store) decide(id int64, kind models.DecisionKind, feedback models.DecisionFeedback) (models.Ad, error) {
	if kind == models.DecisionReject && strings.TrimSpace(feedback.Reason) == "" {
		return models.Ad{}, errReasonRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.ads {
		if s.ads[i].ID != id {
			continue
		}
		switch kind {
		case models.DecisionApprove:
			s.ads[i].Status = models.StatusApproved
		case models.DecisionReject:
			s.ads[i].Status = models.StatusRejected
		case models.DecisionRequestChanges:
			s.ads[i].Status = statusDraft
		}
		s.decisions = append(s.decisions, decision{
			adID:       id,
			category:   s.ads[i].Category,
			kind:       kind,
			reason:     feedback.Reason,
			comment:    feedback.Comment,
			decidedAt:  s.now().UTC(),
			reviewTime: s.reviewTime(),
		})
		return s.ads[i], nil
	}
	return models.Ad{}, errAdNotFound
}

func periodDays(period models.Period) int {
	switch period {
	case models.PeriodWeek:
		return 7
	case models.PeriodMonth:
		return 30
	default:
		return 1
	}
}

// since returns the decisions made within the period, counted in whole days
// including today.
func (s *store) since(period models.Period) []decision {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -(periodDays(period) - 1))

	out := make([]decision, 0, len(s.decisions))
	for _, d := range s.decisions {
		if !d.decidedAt.Before(from) {
			out = append(out, d)
		}
	}
	return out
}

func (s *store) summary(period models.Period) models.StatsSummary {
	decisions := s.since(period)
	summary := models.StatsSummary{TotalReviewed: len(decisions)}
	if len(decisions) == 0 {
		return summary
	}

	var approved, rejected int
	var total time.Duration
	for _, d := range decisions {
		switch d.kind {
		case models.DecisionApprove:
			approved++
		case models.DecisionReject:
			rejected++
		}
		total += d.reviewTime
	}
	n := float64(len(decisions))
	summary.ApprovedPercentage = round1(float64(approved) * 100 / n)
	summary.RejectedPercentage = round1(float64(rejected) * 100 / n)
	summary.AverageReviewTime = round1(total.Seconds() / n)
	return summary
}

func (s *store) activity(period models.Period) []models.ActivityPoint {
	days := periodDays(period)
	now := s.now().UTC()
	byDate := make(map[string]*models.ActivityPoint, days)
	points := make([]models.ActivityPoint, days)
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, -(days - 1 - i)).Format("2006-01-02")
		points[i].Date = date
		byDate[date] = &points[i]
	}

	for _, d := range s.since(period) {
		point, ok := byDate[d.decidedAt.Format("2006-01-02")]
		if !ok {
			continue
		}
		switch d.kind {
		case models.DecisionApprove:
			point.Approved++
		case models.DecisionReject:
			point.Rejected++
		case models.DecisionRequestChanges:
			point.RequestChanges++
		}
	}
	return points
}

func (s *store) breakdown(period models.Period) models.DecisionBreakdown {
	var out models.DecisionBreakdown
	for _, d := range s.since(period) {
		switch d.kind {
		case models.DecisionApprove:
			out.Approved++
		case models.DecisionReject:
			out.Rejected++
		case models.DecisionRequestChanges:
			out.RequestChanges++
		}
	}
	return out
}

func (s *store) categories(period models.Period) models.CategoryBreakdown {
	out := models.CategoryBreakdown{}
	for _, d := range s.since(period) {
		out[d.category]++
	}
	return out
}

func (s *store) counts() map[models.Status]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[models.Status]int)
	for _, ad := range s.ads {
		out[ad.Status]++
	}
	return out
}

func sortedStatuses(counts map[models.Status]int) []models.Status {
	out := make([]models.Status, 0, len(counts))
	for status := range counts {
		out = append(out, status)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
