package service

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/ananses3m/shop-api/internal/core/domain"
	"github.com/ananses3m/shop-api/internal/core/ports"
)

const (
	productPageSize = 10
	topProductCount = 3

	// maxProductPage keeps the repository skip, (page-1)*productPageSize,
	// inside int range.
	maxProductPage = math.MaxInt / productPageSize
)

type ProductService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewProductService(repo ports.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger, now: time.Now}
}

// List returns one page of products whose name matches keyword.
func (s *ProductService) List(ctx context.Context, keyword string, page int) (*ports.ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if page > maxProductPage {
		page = maxProductPage
	}

	products, total, err := s.repo.List(ctx, ports.ProductFilter{
		Keyword: keyword,
		Page:    page,
		Limit:   productPageSize,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ProductPage{
		Products: products,
		Page:     page,
		Pages:    int((total + productPageSize - 1) / productPageSize),
	}, nil
}

func (s *ProductService) Top(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.Top(ctx, topProductCount)
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateSample inserts a placeholder product owned by owner for the admin
// to edit afterwards.
func (s *ProductService) CreateSample(ctx context.Context, owner *domain.User) (*domain.Product, error) {
	now := s.now().UTC()
	p := &domain.Product{
		UserID:      owner.ID,
		Name:        "Sample name",
		Image:       "/images/sample.jpg",
		Brand:       "Sample brand",
		Category:    "Sample category",
		Description: "Sample description",
		Reviews:     []domain.Review{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, err
	}
	s.logger.Info().Str("product_id", created.ID).Str("user_id", owner.ID).Msg("product created")
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, id string, in ports.UpdateProductInput) (*domain.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = in.Name
	p.Price = in.Price
	p.Description = in.Description
	p.Image = in.Image
	p.CloudinaryID = in.CloudinaryID
	p.Brand = in.Brand
	p.Category = in.Category
	p.CountInStock = in.CountInStock
	p.UpdatedAt = s.now().UTC()

	return s.repo.Update(ctx, p)
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("product_id", id).Msg("product removed")
	return nil
}

// AddReview records one review per user and recomputes the product rating.
func (s *ProductService) AddReview(ctx context.Context, id string, reviewer *domain.User, in ports.ReviewInput) error {
	if in.Rating < 1 || in.Rating > 5 {
		return domain.ErrInvalidInput
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p.HasReviewFrom(reviewer.ID) {
		return domain.ErrAlreadyReviewed
	}

	now := s.now().UTC()
	p.AddReview(domain.Review{
		Name:      reviewer.Name,
		Rating:    in.Rating,
		Comment:   in.Comment,
		UserID:    reviewer.ID,
		CreatedAt: now,
	})
	p.UpdatedAt = now

	_, err = s.repo.Update(ctx, p)
	return err
}
