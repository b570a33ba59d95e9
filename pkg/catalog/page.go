package catalog

import "ad-moderation/pkg/models"

const DefaultPageSize = 10

type Page struct {
	Visible    []models.Ad
	TotalCount int
	TotalPages int
	Page       int
	PageSize   int
}

// Paginate slices out one page. TotalPages is at least 1 so an empty result
// still has a page to show; a page past the end yields no ads.
func Paginate(ads []models.Ad, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(ads)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	visible := []models.Ad{}
	if page <= totalPages {
		start := (page - 1) * pageSize
		end := start + pageSize
		if end > total {
			end = total
		}
		if start < end {
			visible = append(visible, ads[start:end]...)
		}
	}

	return Page{
		Visible:    visible,
		TotalCount: total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
	}
}
