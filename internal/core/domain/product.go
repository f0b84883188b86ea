package domain

import "time"

// Review is a single customer rating embedded in a product.
type Review struct {
	Name      string    `json:"name"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	UserID    string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// Product is a catalogue entry.
type Product struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user"`
	Name         string    `json:"name"`
	Image        string    `json:"image"`
	CloudinaryID string    `json:"cloudinaryId"`
	Brand        string    `json:"brand"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Reviews      []Review  `json:"reviews"`
	Rating       float64   `json:"rating"`
	NumReviews   int       `json:"numReviews"`
	Price        float64   `json:"price"`
	CountInStock int       `json:"countInStock"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasReviewFrom reports whether userID already reviewed the product.
func (p *Product) HasReviewFrom(userID string) bool {
	for _, r := range p.Reviews {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// AddReview appends r and recomputes the review count and average rating.
func (p *Product) AddReview(r Review) {
	p.Reviews = append(p.Reviews, r)
	p.NumReviews = len(p.Reviews)

	var sum float64
	for _, rv := range p.Reviews {
		sum += rv.Rating
	}
	p.Rating = sum / float64(p.NumReviews)
}
