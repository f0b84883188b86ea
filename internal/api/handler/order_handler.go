package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ananses3m/shop-api/internal/api/metrics"
	"github.com/ananses3m/shop-api/internal/core/domain"
	"github.com/ananses3m/shop-api/internal/core/ports"
)

type OrderHandler struct {
	orders ports.OrderService
}

func NewOrderHandler(orders ports.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type orderItemRequest struct {
	Name      string  `json:"name" validate:"required"`
	Qty       int     `json:"qty" validate:"gt=0"`
	Image     string  `json:"image"`
	Price     float64 `json:"price" validate:"gte=0"`
	ProductID string  `json:"product" validate:"required"`
}

type shippingAddressRequest struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

type createOrderRequest struct {
	OrderItems      []orderItemRequest     `json:"orderItems" validate:"dive"`
	ShippingAddress shippingAddressRequest `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required"`
	TaxPrice        float64                `json:"taxPrice" validate:"gte=0"`
	ShippingPrice   float64                `json:"shippingPrice" validate:"gte=0"`
}

type paymentResultRequest struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// Create places an order for the authenticated user.
//
// @Summary      Create order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order"
// @Success      201   {object}  domain.Order
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	buyer, err := mustUser(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	items := make([]domain.OrderItem, 0, len(req.OrderItems))
	for _, it := range req.OrderItems {
		items = append(items, domain.OrderItem(it))
	}

	order, err := h.orders.Create(c.Request().Context(), buyer, ports.CreateOrderInput{
		OrderItems:      items,
		ShippingAddress: domain.ShippingAddress(req.ShippingAddress),
		PaymentMethod:   req.PaymentMethod,
		TaxPrice:        req.TaxPrice,
		ShippingPrice:   req.ShippingPrice,
	})
	if err != nil {
		return err
	}
	metrics.OrdersCreatedTotal.WithLabelValues(order.PaymentMethod).Inc()

	return c.JSON(http.StatusCreated, order)
}

// Mine lists the authenticated user's orders.
//
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Order
// @Failure      401  {object}  map[string]string
// @Router       /orders/myorders [get]
func (h *OrderHandler) Mine(c echo.Context) error {
	buyer, err := mustUser(c)
	if err != nil {
		return err
	}

	orders, err := h.orders.Mine(c.Request().Context(), buyer.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// Get returns an order owned by the caller. Admins can read any order.
//
// @Summary      Get order by id
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  domain.Order
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	viewer, err := mustUser(c)
	if err != nil {
		return err
	}

	order, err := h.orders.Get(c.Request().Context(), c.Param("id"), viewer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Pay records the payment provider's confirmation on an order.
//
// @Summary      Mark order paid
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Order ID"
// @Param        body  body      paymentResultRequest  true  "Payment confirmation"
// @Success      200   {object}  domain.Order
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /orders/{id}/pay [put]
func (h *OrderHandler) Pay(c echo.Context) error {
	viewer, err := mustUser(c)
	if err != nil {
		return err
	}

	var req paymentResultRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orders.MarkPaid(c.Request().Context(), c.Param("id"), viewer, domain.PaymentResult(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Deliver marks an order as delivered.
//
// @Summary      Mark order delivered
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  domain.Order
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /orders/{id}/deliver [put]
func (h *OrderHandler) Deliver(c echo.Context) error {
	order, err := h.orders.MarkDelivered(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// List returns every order.
//
// @Summary      List orders
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Order
// @Failure      403  {object}  map[string]string
// @Router       /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.orders.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}
