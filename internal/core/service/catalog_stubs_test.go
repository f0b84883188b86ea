package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ananses3m/shop-api/internal/core/domain"
	"github.com/ananses3m/shop-api/internal/core/ports"
)

type stubProductRepo struct {
	mu       sync.Mutex
	seq      int
	products map[string]*domain.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*domain.Product)}
}

func cloneProduct(p *domain.Product) *domain.Product {
	clone := *p
	clone.Reviews = append([]domain.Review(nil), p.Reviews...)
	return &clone
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	copy := cloneProduct(p)
	copy.ID = fmt.Sprintf("product-%02d", r.seq)
	r.products[copy.ID] = cloneProduct(copy)
	return copy, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return cloneProduct(p), nil
}

func (r *stubProductRepo) sorted() []*domain.Product {
	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubProductRepo) List(_ context.Context, f ports.ProductFilter) ([]*domain.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Product
	for _, p := range r.sorted() {
		if f.Keyword == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Keyword)) {
			matched = append(matched, p)
		}
	}
	start := (f.Page - 1) * f.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], int64(len(matched)), nil
}

func (r *stubProductRepo) Top(_ context.Context, limit int) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted()
	sort.SliceStable(all, func(i, j int) bool { return all[i].Rating > all[j].Rating })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return nil, domain.ErrProductNotFound
	}
	r.products[p.ID] = cloneProduct(p)
	return cloneProduct(p), nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

type stubOrderRepo struct {
	mu     sync.Mutex
	seq    int
	orders map[string]*domain.Order
	err    error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*domain.Order)}
}

func cloneOrder(o *domain.Order) *domain.Order {
	clone := *o
	clone.OrderItems = append([]domain.OrderItem(nil), o.OrderItems...)
	return &clone
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.seq++
	copy := cloneOrder(o)
	copy.ID = fmt.Sprintf("order-%d", r.seq)
	r.orders[copy.ID] = cloneOrder(copy)
	return copy, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) ListByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.orders {
		if o.User.ID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (r *stubOrderRepo) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, cloneOrder(o))
	}
	return out, nil
}

func (r *stubOrderRepo) Update(_ context.Context, o *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.ID]; !ok {
		return nil, domain.ErrOrderNotFound
	}
	r.orders[o.ID] = cloneOrder(o)
	return cloneOrder(o), nil
}

type stubUploader struct {
	gotPreset string
	err       error
}

func (u *stubUploader) Upload(_ context.Context, file ports.MediaFile, preset string) (*domain.UploadedMedia, error) {
	u.gotPreset = preset
	if u.err != nil {
		return nil, u.err
	}
	return &domain.UploadedMedia{
		SecureURL: "https://media.test/" + file.Filename,
		PublicID:  "store_uploads/" + file.Filename,
	}, nil
}

type stubCollector struct {
	got       domain.PaymentRequest
	payErr    error
	lookupErr error
}

func (c *stubCollector) RequestToPay(_ context.Context, req domain.PaymentRequest) (string, error) {
	c.got = req
	if c.payErr != nil {
		return "", c.payErr
	}
	return "ref-1", nil
}

func (c *stubCollector) Transaction(_ context.Context, ref string) (*domain.Transaction, error) {
	if c.lookupErr != nil {
		return nil, c.lookupErr
	}
	return &domain.Transaction{
		ReferenceID: ref,
		Amount:      c.got.Amount,
		Currency:    c.got.Currency,
		ExternalID:  c.got.ExternalID,
		Payer:       c.got.Payer,
		Status:      "SUCCESSFUL",
	}, nil
}

var errBoom = errors.New("boom")
