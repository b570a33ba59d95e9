package catalog

import (
	"math"
	"sort"
	"strings"

	"ad-moderation/pkg/models"
)

type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByPrice     SortField = "price"
	SortByPriority  SortField = "priority"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func SortFields() []SortField {
	return []SortField{SortByCreatedAt, SortByPrice, SortByPriority}
}

func (f SortField) IsValid() bool {
	switch f {
	case SortByCreatedAt, SortByPrice, SortByPriority:
		return true
	}
	return false
}

func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

type SortSpec struct {
	By    SortField `json:"by"`
	Order SortOrder `json:"order"`
}

// DefaultSort shows the newest ads first.
func DefaultSort() SortSpec {
	return SortSpec{By: SortByCreatedAt, Order: SortDesc}
}

// ParseSortSpec falls back to the default field or order for unknown values.
func ParseSortSpec(by, order string) SortSpec {
	spec := DefaultSort()
	if f := SortField(strings.TrimSpace(by)); f.IsValid() {
		spec.By = f
	}
	if o := SortOrder(strings.ToLower(strings.TrimSpace(order))); o.IsValid() {
		spec.Order = o
	}
	return spec
}

type keyedAd struct {
	ad  models.Ad
	key float64
}

// Sort returns a sorted copy of ads. Equal keys keep their input order.
//
// Unparseable dates and prices take the minimum key. Priority is a binary
// rank: urgent ads come first whatever the order.
func Sort(ads []models.Ad, spec SortSpec) []models.Ad {
	if !spec.By.IsValid() {
		spec.By = DefaultSort().By
	}
	if !spec.Order.IsValid() {
		spec.Order = DefaultSort().Order
	}

	keyed := make([]keyedAd, len(ads))
	for i, ad := range ads {
		keyed[i] = keyedAd{ad: ad, key: sortKey(ad, spec.By)}
	}

	desc := spec.Order == SortDesc || spec.By == SortByPriority
	sort.SliceStable(keyed, func(i, j int) bool {
		if desc {
			return keyed[i].key > keyed[j].key
		}
		return keyed[i].key < keyed[j].key
	})

	out := make([]models.Ad, len(keyed))
	for i, k := range keyed {
		out[i] = k.ad
	}
	return out
}

func sortKey(ad models.Ad, by SortField) float64 {
	switch by {
	case SortByPrice:
		if !ad.HasPrice() {
			return math.Inf(-1)
		}
		return ad.Price
	case SortByPriority:
		if ad.Priority.IsUrgent() {
			return 1
		}
		return 0
	default:
		t, ok := ad.CreatedTime()
		if !ok {
			return math.Inf(-1)
		}
		return float64(t.UnixMilli())
	}
}
