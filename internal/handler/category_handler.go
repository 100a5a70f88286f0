package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/service"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/pkg/logger"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/prometheus"
)

// CategoryHandler exposes category listing over HTTP
type CategoryHandler struct {
	products *service.ProductService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(products *service.ProductService) *CategoryHandler {
	return &CategoryHandler{products: products}
}

// List retrieves all categories in tree display order
func (h *CategoryHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("query")(time.Now())
	log.Info("Listing categories")

	categories, err := h.products.ListCategories()
	if err != nil {
		return err
	}

	prometheus.RecordCategoryOperation("list")
	log.Info("Categories retrieved", zap.Int("count", len(categories)))
	return c.JSON(http.StatusOK, categories)
}
