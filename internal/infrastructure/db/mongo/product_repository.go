package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ananses3m/shop-api/internal/core/domain"
	"github.com/ananses3m/shop-api/internal/core/ports"
)

const collectionProducts = "products"

// ProductRepository implements ports.ProductRepository using MongoDB.
type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(collectionProducts)}
}

type reviewDoc struct {
	Name      string             `bson:"name"`
	Rating    float64            `bson:"rating"`
	Comment   string             `bson:"comment"`
	User      primitive.ObjectID `bson:"user"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type productDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	User         primitive.ObjectID `bson:"user"`
	Name         string             `bson:"name"`
	Image        string             `bson:"image"`
	CloudinaryID string             `bson:"cloudinaryId"`
	Brand        string             `bson:"brand"`
	Category     string             `bson:"category"`
	Description  string             `bson:"description"`
	Reviews      []reviewDoc        `bson:"reviews"`
	Rating       float64            `bson:"rating"`
	NumReviews   int                `bson:"numReviews"`
	Price        float64            `bson:"price"`
	CountInStock int                `bson:"countInStock"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func newProductDoc(p *domain.Product) productDoc {
	reviews := make([]reviewDoc, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		reviews = append(reviews, reviewDoc{
			Name:      r.Name,
			Rating:    r.Rating,
			Comment:   r.Comment,
			User:      optionalID(r.UserID),
			CreatedAt: r.CreatedAt,
		})
	}
	return productDoc{
		User:         optionalID(p.UserID),
		Name:         p.Name,
		Image:        p.Image,
		CloudinaryID: p.CloudinaryID,
		Brand:        p.Brand,
		Category:     p.Category,
		Description:  p.Description,
		Reviews:      reviews,
		Rating:       p.Rating,
		NumReviews:   p.NumReviews,
		Price:        p.Price,
		CountInStock: p.CountInStock,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (d *productDoc) toDomain() *domain.Product {
	reviews := make([]domain.Review, 0, len(d.Reviews))
	for _, r := range d.Reviews {
		reviews = append(reviews, domain.Review{
			Name:      r.Name,
			Rating:    r.Rating,
			Comment:   r.Comment,
			UserID:    hexOrEmpty(r.User),
			CreatedAt: r.CreatedAt.UTC(),
		})
	}
	return &domain.Product{
		ID:           d.ID.Hex(),
		UserID:       hexOrEmpty(d.User),
		Name:         d.Name,
		Image:        d.Image,
		CloudinaryID: d.CloudinaryID,
		Brand:        d.Brand,
		Category:     d.Category,
		Description:  d.Description,
		Reviews:      reviews,
		Rating:       d.Rating,
		NumReviews:   d.NumReviews,
		Price:        d.Price,
		CountInStock: d.CountInStock,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newProductDoc(p)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := parseID(id, domain.ErrProductNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc productDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns one page of products whose name contains filter.Keyword,
// ignoring case, together with the total number of matches.
func (r *ProductRepository) List(ctx context.Context, filter ports.ProductFilter) ([]*domain.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Keyword != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Keyword), Options: "i"}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	products, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Top returns the limit highest-rated products.
func (r *ProductRepository) Top(ctx context.Context, limit int) ([]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}}).SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

func (r *ProductRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*domain.Product, error) {
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cur.Close(ctx)

	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]*domain.Product, 0, len(docs))
	for i := range docs {
		products = append(products, docs[i].toDomain())
	}
	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	oid, err := parseID(p.ID, domain.ErrProductNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newProductDoc(p)
	update := bson.M{"$set": bson.M{
		"name":         doc.Name,
		"image":        doc.Image,
		"cloudinaryId": doc.CloudinaryID,
		"brand":        doc.Brand,
		"category":     doc.Category,
		"description":  doc.Description,
		"reviews":      doc.Reviews,
		"rating":       doc.Rating,
		"numReviews":   doc.NumReviews,
		"price":        doc.Price,
		"countInStock": doc.CountInStock,
		"updatedAt":    doc.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated productDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return updated.toDomain(), nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, domain.ErrProductNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// DeleteAll empties the collection. Used by the seeder.
func (r *ProductRepository) DeleteAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteMany(ctx, bson.M{})
	return err
}

func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "rating", Value: -1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
