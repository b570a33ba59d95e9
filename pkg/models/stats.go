package models

type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

func (p Period) IsValid() bool {
	return p == PeriodToday || p == PeriodWeek || p == PeriodMonth
}

type StatsSummary struct {
	TotalReviewed      int     `json:"totalReviewed"`
	ApprovedPercentage float64 `json:"approvedPercentage"`
	RejectedPercentage float64 `json:"rejectedPercentage"`
	AverageReviewTime  float64 `json:"averageReviewTime"`
}

type ActivityPoint struct {
	Date           string `json:"date"`
	Approved       int    `json:"approved"`
	Rejected       int    `json:"rejected"`
	RequestChanges int    `json:"requestChanges"`
}

type DecisionBreakdown struct {
	Approved       int `json:"approved"`
	Rejected       int `json:"rejected"`
	RequestChanges int `json:"requestChanges"`
}

// CategoryBreakdown maps a category name to the number of reviewed ads.
type CategoryBreakdown map[string]int

type StatsReport struct {
	Period     Period            `json:"period"`
	Summary    StatsSummary      `json:"summary"`
	Activity   []ActivityPoint   `json:"activity"`
	Decisions  DecisionBreakdown `json:"decisions"`
	Categories CategoryBreakdown `json:"categories"`
}
