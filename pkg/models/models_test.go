package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Constants(t *testing.T) {
	assert.Equal(t, Status("pending"), StatusPending)
	assert.Equal(t, Status("approved"), StatusApproved)
	assert.Equal(t, Status("rejected"), StatusRejected)
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "Pending review", StatusPending.Label())
	assert.Equal(t, "Approved", Status("APPROVED").Label())
	assert.Equal(t, "Rejected", Status(" rejected ").Label())
	// Unknown values are shown as they came from the API
	assert.Equal(t, "archived", Status("archived").Label())
	assert.Equal(t, "", Status("").Label())
}

func TestPriority_LabelAndUrgency(t *testing.T) {
	assert.Equal(t, "Normal", PriorityNormal.Label())
	assert.Equal(t, "Urgent", Priority("Urgent").Label())
	assert.Equal(t, "asap", Priority("asap").Label())

	assert.True(t, Priority("URGENT").IsUrgent())
	assert.False(t, PriorityNormal.IsUrgent())
	assert.False(t, Priority("").IsUrgent())
}

func TestCategories(t *testing.T) {
	categories := Categories()
	assert.Len(t, categories, 8)
	assert.Contains(t, categories, CategoryElectronics)
	assert.Contains(t, categories, CategoryKids)
}

func TestAd_CreatedTime(t *testing.T) {
	cases := []struct {
		name      string
		createdAt string
		ok        bool
	}{
		{name: "rfc3339", createdAt: "2024-03-15T10:30:00Z", ok: true},
		{name: "rfc3339 nano with offset", createdAt: "2024-03-15T10:30:00.123+03:00", ok: true},
		{name: "no zone", createdAt: "2024-03-15T10:30:00", ok: true},
		{name: "date only", createdAt: "2024-03-15", ok: true},
		{name: "empty", createdAt: "", ok: false},
		{name: "garbage", createdAt: "yesterday", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ad := Ad{CreatedAt: tc.createdAt}
			_, ok := ad.CreatedTime()
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestAd_DisplayDate(t *testing.T) {
	assert.Equal(t, "15 March 2024", Ad{CreatedAt: "2024-03-15T10:30:00Z"}.DisplayDate())
	assert.Equal(t, "15.03.2024 10:30", Ad{CreatedAt: "2024-03-15T10:30:00Z"}.DisplayDateTime())
	assert.Equal(t, DateUnavailable, Ad{CreatedAt: "not-a-date"}.DisplayDate())
	assert.Equal(t, DateUnavailable, Ad{}.DisplayDateTime())
}

func TestAd_CoverImage(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/1.jpg", Ad{Images: []string{"https://cdn.example.com/1.jpg", "https://cdn.example.com/2.jpg"}}.CoverImage())
	assert.Equal(t, PlaceholderImage, Ad{}.CoverImage())
	assert.Equal(t, PlaceholderImage, Ad{Images: []string{""}}.CoverImage())
}

func TestPeriod_IsValid(t *testing.T) {
	assert.True(t, PeriodToday.IsValid())
	assert.True(t, PeriodWeek.IsValid())
	assert.True(t, PeriodMonth.IsValid())
	assert.False(t, Period("year").IsValid())
	assert.False(t, Period("").IsValid())
}
