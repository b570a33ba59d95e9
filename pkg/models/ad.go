package models

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var statusLabels = map[Status]string{
	StatusPending:  "Pending review",
	StatusApproved: "Approved",
	StatusRejected: "Rejected",
}

// Normalize folds the status for comparisons; the backend is not consistent about case.
func (s Status) Normalize() Status {
	return Status(strings.ToLower(strings.TrimSpace(string(s))))
}

// Label returns the display label, or the raw value when the status is unknown.
func (s Status) Label() string {
	if label, ok := statusLabels[s.Normalize()]; ok {
		return label
	}
	return string(s)
}

func Statuses() []Status {
	return []Status{StatusPending, StatusApproved, StatusRejected}
}

type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityUrgent Priority = "urgent"
)

var priorityLabels = map[Priority]string{
	PriorityNormal: "Normal",
	PriorityUrgent: "Urgent",
}

func (p Priority) Normalize() Priority {
	return Priority(strings.ToLower(strings.TrimSpace(string(p))))
}

func (p Priority) Label() string {
	if label, ok := priorityLabels[p.Normalize()]; ok {
		return label
	}
	return string(p)
}

func (p Priority) IsUrgent() bool {
	return p.Normalize() == PriorityUrgent
}

// Category values are the ones stored by the ads backend.
const (
	CategoryElectronics = "Электроника"
	CategoryRealEstate  = "Недвижимость"
	CategoryTransport   = "Транспорт"
	CategoryJobs        = "Работа"
	CategoryServices    = "Услуги"
	CategoryAnimals     = "Животные"
	CategoryFashion     = "Мода"
	CategoryKids        = "Детское"
)

func Categories() []string {
	return []string{
		CategoryElectronics,
		CategoryRealEstate,
		CategoryTransport,
		CategoryJobs,
		CategoryServices,
		CategoryAnimals,
		CategoryFashion,
		CategoryKids,
	}
}

const (
	PlaceholderImage      = "img/placeholder.png"
	DateUnavailable       = "date unavailable"
	DisplayDateLayout     = "02 January 2006"
	DisplayDateTimeLayout = "02.01.2006 15:04"
)

var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Ad is a snapshot of a listing as returned by the ads API.
// CreatedAt stays a raw string because the backend does not guarantee its format.
type Ad struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	CreatedAt   string   `json:"createdAt"`
	Images      []string `json:"images"`
	Description string   `json:"description,omitempty"`
}

// CreatedTime parses CreatedAt. ok is false for empty or malformed values.
func (a Ad) CreatedTime() (time.Time, bool) {
	raw := strings.TrimSpace(a.CreatedAt)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (a Ad) DisplayDate() string {
	t, ok := a.CreatedTime()
	if !ok {
		return DateUnavailable
	}
	return t.Format(DisplayDateLayout)
}

func (a Ad) DisplayDateTime() string {
	t, ok := a.CreatedTime()
	if !ok {
		return DateUnavailable
	}
	return t.Format(DisplayDateTimeLayout)
}

func (a Ad) CoverImage() string {
	if len(a.Images) > 0 && a.Images[0] != "" {
		return a.Images[0]
	}
	return PlaceholderImage
}

// ListFilter mirrors the query parameters of GET /api/v1/ads.
type ListFilter struct {
	Status Status
	Page   int
	Limit  int
}
