package domain

import "time"

// OrderItem is one line of an order.
type OrderItem struct {
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	ProductID string  `json:"product"`
}

// ShippingAddress is where an order is delivered.
type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PaymentResult is the confirmation returned by the payment provider.
type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// OrderBuyer is the subset of the owning user returned with an order.
type OrderBuyer struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Order is a customer purchase.
type Order struct {
	ID              string          `json:"id"`
	User            OrderBuyer      `json:"user"`
	OrderItems      []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentResult   *PaymentResult  `json:"paymentResult,omitempty"`
	ItemsPrice      float64         `json:"itemsPrice"`
	TaxPrice        float64         `json:"taxPrice"`
	ShippingPrice   float64         `json:"shippingPrice"`
	TotalPrice      float64         `json:"totalPrice"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	IsDelivered     bool            `json:"isDelivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ComputeTotals recalculates ItemsPrice from the order lines and TotalPrice
// from items, tax and shipping.
func (o *Order) ComputeTotals() {
	var items float64
	for _, it := range o.OrderItems {
		items += it.Price * float64(it.Qty)
	}
	o.ItemsPrice = roundCents(items)
	o.TotalPrice = roundCents(o.ItemsPrice + o.TaxPrice + o.ShippingPrice)
}

func roundCents(v float64) float64 {
	if v < 0 {
		return -roundCents(-v)
	}
	return float64(int64(v*100+0.5)) / 100
}
