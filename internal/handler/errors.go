package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/apperr"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/pkg/logger"
)

// HTTPErrorHandler renders business errors as {code, message} JSON. Only
// the stable code and message cross the interface; unexpected failures are
// logged with their cause and returned as an opaque SERVER_001.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	log := logger.FromContext(c)

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			log.Error("Request failed",
				zap.String("code", appErr.Code),
				zap.Error(err))
		} else {
			// business-rule outcomes are not error conditions
			log.Warn("Request rejected",
				zap.String("code", appErr.Code),
				zap.String("message", appErr.Message))
		}
		_ = c.JSON(appErr.Status, appErr)
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		_ = c.JSON(httpErr.Code, echo.Map{"code": "COMMON_001", "message": httpErr.Message})
		return
	}

	log.Error("Unhandled error", zap.Error(err))
	internal := apperr.Internal(err)
	_ = c.JSON(internal.Status, internal)
}
