package catalog

import "ad-moderation/pkg/models"

// ViewState is the catalog screen state. Methods return modified copies.
type ViewState struct {
	Filters  FilterState `json:"filters"`
	Sort     SortSpec    `json:"sort"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

func NewViewState(pageSize int) ViewState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return ViewState{
		Filters:  DefaultFilters(),
		Sort:     DefaultSort(),
		Page:     1,
		PageSize: pageSize,
	}
}

// WithFilters replaces the filters and returns to the first page.
func (v ViewState) WithFilters(f FilterState) ViewState {
	v.Filters = f.clone()
	v.Page = 1
	return v
}

func (v ViewState) WithSort(s SortSpec) ViewState {
	v.Filters = v.Filters.clone()
	v.Sort = s
	v.Page = 1
	return v
}

func (v ViewState) ResetFilters() ViewState {
	return v.WithFilters(DefaultFilters())
}

// WithPage moves to page p when it lies within [1, totalPages]; otherwise
// the state is returned unchanged.
func (v ViewState) WithPage(p, totalPages int) ViewState {
	if p < 1 || p > totalPages {
		return v
	}
	v.Filters = v.Filters.clone()
	v.Page = p
	return v
}

// Derive computes the visible page: filter, then sort, then paginate.
func Derive(ads []models.Ad, v ViewState) Page {
	return Paginate(Sort(Filter(ads, v.Filters), v.Sort), v.Page, v.PageSize)
}
