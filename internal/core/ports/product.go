package ports

import (
	"context"

	"github.com/ananses3m/shop-api/internal/core/domain"
)

// ProductFilter selects a page of the catalogue.
type ProductFilter struct {
	Keyword string // case-insensitive match on name; empty = all
	Page    int    // 1-based
	Limit   int
}

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// List returns a page of products matching filter and the total count.
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int64, error)
	Top(ctx context.Context, limit int) ([]*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// ProductPage is a page of the catalogue.
type ProductPage struct {
	Products []*domain.Product
	Page     int
	Pages    int
}

// UpdateProductInput carries the editable product fields.
type UpdateProductInput struct {
	Name         string
	Price        float64
	Description  string
	Image        string
	CloudinaryID string
	Brand        string
	Category     string
	CountInStock int
}

// ReviewInput is a customer review submission.
type ReviewInput struct {
	Rating  float64
	Comment string
}

// ProductService defines catalogue use cases.
type ProductService interface {
	List(ctx context.Context, keyword string, page int) (*ProductPage, error)
	Top(ctx context.Context) ([]*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	CreateSample(ctx context.Context, owner *domain.User) (*domain.Product, error)
	Update(ctx context.Context, id string, in UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	AddReview(ctx context.Context, id string, reviewer *domain.User, in ReviewInput) error
}
