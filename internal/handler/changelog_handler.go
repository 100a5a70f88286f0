package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/apperr"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/model"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/service"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/pkg/logger"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/prometheus"
)

// ChangeLogHandler exposes the change-log queries over HTTP
type ChangeLogHandler struct {
	changeLogs *service.ChangeLogService
}

// NewChangeLogHandler creates a new change-log handler
func NewChangeLogHandler(changeLogs *service.ChangeLogService) *ChangeLogHandler {
	return &ChangeLogHandler{changeLogs: changeLogs}
}

// Query handles retrieving change-log entries by product, change type or
// time window, paginated and newest first
func (h *ChangeLogHandler) Query(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	page, size, err := paging(c)
	if err != nil {
		return err
	}
	productID, err := optionalUint(c, "productId")
	if err != nil {
		return err
	}
	startDate, err := optionalTime(c, "startDate")
	if err != nil {
		return err
	}
	endDate, err := optionalTime(c, "endDate")
	if err != nil {
		return err
	}

	var changeType *model.ChangeType
	if raw := c.QueryParam("changeType"); raw != "" {
		t := model.ChangeType(raw)
		if !t.Valid() {
			return apperr.InvalidArgument("changeType must be CREATE, UPDATE or DELETE")
		}
		changeType = &t
	}

	log.Info("Querying change logs", zap.Int("page", page), zap.Int("size", size))

	result, err := h.changeLogs.GetChangeLogs(service.SearchCondition{
		ProductID:  productID,
		ChangeType: changeType,
		StartDate:  startDate,
		EndDate:    endDate,
	}, page, size)
	if err != nil {
		return err
	}

	prometheus.RecordChangeLogOperation("query")
	log.Info("Change logs retrieved", zap.Int64("total", result.TotalElements))
	return c.JSON(http.StatusOK, result)
}

// Recent handles retrieving change-log entries changed at or after startDate
func (h *ChangeLogHandler) Recent(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	page, size, err := paging(c)
	if err != nil {
		return err
	}
	startDate, err := optionalTime(c, "startDate")
	if err != nil {
		return err
	}
	if startDate == nil {
		return apperr.InvalidArgument("startDate is required")
	}

	log.Info("Querying recent change logs", zap.Time("start_date", *startDate))

	result, err := h.changeLogs.GetRecentChangeLogs(*startDate, page, size)
	if err != nil {
		return err
	}

	prometheus.RecordChangeLogOperation("recent")
	return c.JSON(http.StatusOK, result)
}
