package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/apperr"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/model"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/repository"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/service"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/pkg/logger"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/prometheus"
)

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	ProductCode string              `json:"productCode"`
	ProductName string              `json:"productName"`
	Description string              `json:"description"`
	CategoryID  *uint               `json:"categoryId"`
	Status      model.ProductStatus `json:"status"`
}

// ProductHandler exposes the product operations over HTTP
type ProductHandler struct {
	products *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// Search handles retrieving products with optional filtering and pagination
func (h *ProductHandler) Search(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	page, size, err := paging(c)
	if err != nil {
		return err
	}
	minPrice, err := optionalFloat(c, "minPrice")
	if err != nil {
		return err
	}
	maxPrice, err := optionalFloat(c, "maxPrice")
	if err != nil {
		return err
	}

	params := repository.SearchParams{
		ProductName: c.QueryParam("productName"),
		ProductCode: c.QueryParam("productCode"),
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
	}

	log.Info("Searching products",
		zap.String("product_name", params.ProductName),
		zap.String("product_code", params.ProductCode),
		zap.Int("page", page),
		zap.Int("size", size))

	result, err := h.products.SearchProducts(params, page, size)
	if err != nil {
		return err
	}

	prometheus.RecordProductOperation("search")
	log.Info("Products retrieved", zap.Int64("total", result.TotalElements))
	return c.JSON(http.StatusOK, result)
}

// Get handles retrieving a single product by ID
func (h *ProductHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	id, err := pathID(c)
	if err != nil {
		return err
	}
	log.Info("Getting product", zap.Uint("product_id", id))

	detail, err := h.products.GetProduct(id)
	if err != nil {
		return err
	}

	prometheus.RecordProductOperation("get")
	return c.JSON(http.StatusOK, detail)
}

// Create handles creating a new product
func (h *ProductHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("insert")(time.Now())

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidArgument("invalid request body")
	}

	log.Info("Creating product",
		zap.String("product_code", req.ProductCode),
		zap.String("product_name", req.ProductName))

	detail, err := h.products.CreateProduct(service.CreateProductInput{
		ProductCode: req.ProductCode,
		ProductName: req.ProductName,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Status:      req.Status,
	}, c.Request().Header.Get(changedByHeader))
	if err != nil {
		return err
	}

	prometheus.RecordProductOperation("create")
	return c.JSON(http.StatusCreated, detail)
}

// Update handles updating an existing product. The product code is
// immutable and ignored if present in the body.
func (h *ProductHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("update")(time.Now())

	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidArgument("invalid request body")
	}

	log.Info("Updating product",
		zap.Uint("product_id", id),
		zap.String("product_name", req.ProductName))

	detail, err := h.products.UpdateProduct(id, service.UpdateProductInput{
		ProductName: req.ProductName,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Status:      req.Status,
	}, c.Request().Header.Get(changedByHeader))
	if err != nil {
		return err
	}

	prometheus.RecordProductOperation("update")
	return c.JSON(http.StatusOK, detail)
}

// Delete handles deleting a product (soft delete)
func (h *ProductHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("delete")(time.Now())

	id, err := pathID(c)
	if err != nil {
		return err
	}
	log.Info("Deleting product", zap.Uint("product_id", id))

	if err := h.products.DeleteProduct(id, c.Request().Header.Get(changedByHeader)); err != nil {
		return err
	}

	prometheus.RecordProductOperation("delete")
	return c.NoContent(http.StatusNoContent)
}
