package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ananses3m/shop-api/internal/core/domain"
)

const collectionOrders = "orders"

// OrderRepository implements ports.OrderRepository using MongoDB.
type OrderRepository struct {
	col   *mongo.Collection
	users *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		col:   db.Collection(collectionOrders),
		users: db.Collection(collectionUsers),
	}
}

type orderItemDoc struct {
	Name    string             `bson:"name"`
	Qty     int                `bson:"qty"`
	Image   string             `bson:"image"`
	Price   float64            `bson:"price"`
	Product primitive.ObjectID `bson:"product"`
}

type shippingAddressDoc struct {
	Address    string `bson:"address"`
	City       string `bson:"city"`
	PostalCode string `bson:"postalCode"`
	Country    string `bson:"country"`
}

type paymentResultDoc struct {
	ID           string `bson:"id"`
	Status       string `bson:"status"`
	UpdateTime   string `bson:"update_time"`
	EmailAddress string `bson:"email_address"`
}

type orderDoc struct {
	ID              primitive.ObjectID     `bson:"_id,omitempty"`
	User            primitive.ObjectID     `bson:"user"`
	OrderItems      []orderItemDoc         `bson:"orderItems"`
	ShippingAddress shippingAddressDoc     `bson:"shippingAddress"`
	PaymentMethod   string                 `bson:"paymentMethod"`
	PaymentResult   *paymentResultDoc      `bson:"paymentResult,omitempty"`
	ItemsPrice      float64                `bson:"itemsPrice"`
	TaxPrice        float64                `bson:"taxPrice"`
	ShippingPrice   float64                `bson:"shippingPrice"`
	TotalPrice      float64                `bson:"totalPrice"`
	IsPaid          bool                   `bson:"isPaid"`
	PaidAt          *time.Time             `bson:"paidAt,omitempty"`
	IsDelivered     bool                   `bson:"isDelivered"`
	DeliveredAt     *time.Time             `bson:"deliveredAt,omitempty"`
	CreatedAt       time.Time              `bson:"createdAt"`
	UpdatedAt       time.Time              `bson:"updatedAt"`
}

func newOrderDoc(o *domain.Order) orderDoc {
	items := make([]orderItemDoc, 0, len(o.OrderItems))
	for _, it := range o.OrderItems {
		items = append(items, orderItemDoc{
			Name:    it.Name,
			Qty:     it.Qty,
			Image:   it.Image,
			Price:   it.Price,
			Product: optionalID(it.ProductID),
		})
	}

	doc := orderDoc{
		User:            optionalID(o.User.ID),
		OrderItems:      items,
		ShippingAddress: shippingAddressDoc(o.ShippingAddress),
		PaymentMethod:   o.PaymentMethod,
		ItemsPrice:      o.ItemsPrice,
		TaxPrice:        o.TaxPrice,
		ShippingPrice:   o.ShippingPrice,
		TotalPrice:      o.TotalPrice,
		IsPaid:          o.IsPaid,
		PaidAt:          o.PaidAt,
		IsDelivered:     o.IsDelivered,
		DeliveredAt:     o.DeliveredAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if pr := o.PaymentResult; pr != nil {
		doc.PaymentResult = &paymentResultDoc{
			ID:           pr.ID,
			Status:       pr.Status,
			UpdateTime:   pr.UpdateTime,
			EmailAddress: pr.EmailAddress,
		}
	}
	return doc
}

func (d *orderDoc) toDomain() *domain.Order {
	items := make([]domain.OrderItem, 0, len(d.OrderItems))
	for _, it := range d.OrderItems {
		items = append(items, domain.OrderItem{
			Name:      it.Name,
			Qty:       it.Qty,
			Image:     it.Image,
			Price:     it.Price,
			ProductID: hexOrEmpty(it.Product),
		})
	}

	o := &domain.Order{
		ID:              d.ID.Hex(),
		User:            domain.OrderBuyer{ID: hexOrEmpty(d.User)},
		OrderItems:      items,
		ShippingAddress: domain.ShippingAddress(d.ShippingAddress),
		PaymentMethod:   d.PaymentMethod,
		ItemsPrice:      d.ItemsPrice,
		TaxPrice:        d.TaxPrice,
		ShippingPrice:   d.ShippingPrice,
		TotalPrice:      d.TotalPrice,
		IsPaid:          d.IsPaid,
		PaidAt:          d.PaidAt,
		IsDelivered:     d.IsDelivered,
		DeliveredAt:     d.DeliveredAt,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
	if pr := d.PaymentResult; pr != nil {
		o.PaymentResult = &domain.PaymentResult{
			ID:           pr.ID,
			Status:       pr.Status,
			UpdateTime:   pr.UpdateTime,
			EmailAddress: pr.EmailAddress,
		}
	}
	return o
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newOrderDoc(o)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// FindByID returns the order with the buyer's name and email attached.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := parseID(id, domain.ErrOrderNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc orderDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	order := doc.toDomain()
	if err := r.attachBuyer(ctx, doc.User, &order.User); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) attachBuyer(ctx context.Context, userID primitive.ObjectID, buyer *domain.OrderBuyer) error {
	if userID.IsZero() {
		return nil
	}

	var u struct {
		Name  string `bson:"name"`
		Email string `bson:"email"`
	}
	opts := options.FindOne().SetProjection(bson.M{"name": 1, "email": 1})
	err := r.users.FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&u)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil
	case err != nil:
		return fmt.Errorf("find order buyer: %w", err)
	}

	buyer.Name = u.Name
	buyer.Email = u.Email
	return nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []*domain.Order{}, nil
	}
	return r.find(ctx, bson.M{"user": oid})
}

func (r *OrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *OrderRepository) find(ctx context.Context, query bson.M) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cur.Close(ctx)

	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	orders := make([]*domain.Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, docs[i].toDomain())
	}
	return orders, nil
}

// Update persists the payment and delivery state of an order.
func (r *OrderRepository) Update(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	oid, err := parseID(o.ID, domain.ErrOrderNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newOrderDoc(o)
	set := bson.M{
		"isPaid":      doc.IsPaid,
		"paidAt":      doc.PaidAt,
		"isDelivered": doc.IsDelivered,
		"deliveredAt": doc.DeliveredAt,
		"updatedAt":   doc.UpdatedAt,
	}
	if doc.PaymentResult != nil {
		set["paymentResult"] = doc.PaymentResult
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated orderDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order: %w", err)
	}

	order := updated.toDomain()
	order.User = o.User
	return order, nil
}

// DeleteAll empties the collection. Used by the seeder.
func (r *OrderRepository) DeleteAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteMany(ctx, bson.M{})
	return err
}

func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}
