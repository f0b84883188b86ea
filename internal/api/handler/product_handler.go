package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ananses3m/shop-api/internal/core/ports"
)

type ProductHandler struct {
	products ports.ProductService
}

func NewProductHandler(products ports.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

type updateProductRequest struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price" validate:"gte=0"`
	Description  string  `json:"description"`
	Image        string  `json:"image"`
	CloudinaryID string  `json:"cloudinaryId"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	CountInStock int     `json:"countInStock" validate:"gte=0"`
}

type reviewRequest struct {
	Rating  float64 `json:"rating" validate:"gte=1,lte=5"`
	Comment string  `json:"comment"`
}

type productPageResponse struct {
	Products any `json:"products"`
	Page     int `json:"page"`
	Pages    int `json:"pages"`
}

// List returns one page of the catalogue, optionally filtered by name.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        keyword     query     string  false  "Case-insensitive name filter"
// @Param        pageNumber  query     int     false  "1-based page number"
// @Success      200         {object}  productPageResponse
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	page := 1
	if raw := c.QueryParam("pageNumber"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "pageNumber must be a number")
		}
		page = n
	}

	result, err := h.products.List(c.Request().Context(), c.QueryParam("keyword"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productPageResponse{
		Products: result.Products,
		Page:     result.Page,
		Pages:    result.Pages,
	})
}

// Top returns the highest-rated products.
//
// @Summary      Top rated products
// @Tags         products
// @Produce      json
// @Success      200  {array}  domain.Product
// @Router       /products/top [get]
func (h *ProductHandler) Top(c echo.Context) error {
	products, err := h.products.Top(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// Get returns a single product.
//
// @Summary      Get product by id
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  domain.Product
// @Failure      404  {object}  map[string]string
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.products.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// Create adds a placeholder product owned by the calling admin.
//
// @Summary      Create sample product
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  domain.Product
// @Failure      403  {object}  map[string]string
// @Router       /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	owner, err := mustUser(c)
	if err != nil {
		return err
	}

	product, err := h.products.CreateSample(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

// Update replaces the editable fields of a product.
//
// @Summary      Update product
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Product ID"
// @Param        body  body      updateProductRequest  true  "Product fields"
// @Success      200   {object}  domain.Product
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	var req updateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.products.Update(c.Request().Context(), c.Param("id"), ports.UpdateProductInput{
		Name:         req.Name,
		Price:        req.Price,
		Description:  req.Description,
		Image:        req.Image,
		CloudinaryID: req.CloudinaryID,
		Brand:        req.Brand,
		Category:     req.Category,
		CountInStock: req.CountInStock,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// Delete removes a product.
//
// @Summary      Delete product
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.products.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product removed"})
}

// CreateReview adds the caller's review to a product.
//
// @Summary      Review a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Product ID"
// @Param        body  body      reviewRequest  true  "Rating and comment"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /products/{id}/reviews [post]
func (h *ProductHandler) CreateReview(c echo.Context) error {
	reviewer, err := mustUser(c)
	if err != nil {
		return err
	}

	var req reviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err = h.products.AddReview(c.Request().Context(), c.Param("id"), reviewer, ports.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: "Review added"})
}
