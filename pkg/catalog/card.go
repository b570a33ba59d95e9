package catalog

import "ad-moderation/pkg/models"

// Card is what a catalog tile shows for one ad.
type Card struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Price         *float64 `json:"price"`
	Category      string   `json:"category"`
	Date          string   `json:"date"`
	Status        string   `json:"status"`
	StatusLabel   string   `json:"statusLabel"`
	Priority      string   `json:"priority"`
	PriorityLabel string   `json:"priorityLabel"`
	Urgent        bool     `json:"urgent"`
	ImageURL      string   `json:"imageUrl"`
}

func NewCard(ad models.Ad) Card {
	card := Card{
		ID:            ad.ID,
		Title:         ad.Title,
		Category:      ad.Category,
		Date:          ad.DisplayDate(),
		Status:        string(ad.Status),
		StatusLabel:   ad.Status.Label(),
		Priority:      string(ad.Priority),
		PriorityLabel: ad.Priority.Label(),
		Urgent:        ad.Priority.IsUrgent(),
		ImageURL:      ad.CoverImage(),
	}
	if ad.HasPrice() {
		price := ad.Price
		card.Price = &price
	}
	return card
}

func NewCards(ads []models.Ad) []Card {
	cards := make([]Card, 0, len(ads))
	for _, ad := range ads {
		cards = append(cards, NewCard(ad))
	}
	return cards
}

// Details is the full view of one ad: its card plus description and gallery.
type Details struct {
	Card
	DateTime    string   `json:"dateTime"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

func NewDetails(ad models.Ad) Details {
	images := ad.Images
	if len(images) == 0 {
		images = []string{models.PlaceholderImage}
	}
	return Details{
		Card:        NewCard(ad),
		DateTime:    ad.DisplayDateTime(),
		Description: ad.Description,
		Images:      images,
	}
}
