package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/apperr"
)

// header carrying the audit actor on mutating requests
const changedByHeader = "X-Changed-By"

// timestamps are accepted with or without a zone offset
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperr.InvalidArgument("id must be a positive integer")
	}
	return uint(id), nil
}

func paging(c echo.Context) (page, size int, err error) {
	page, size = 0, 10
	if raw := c.QueryParam("page"); raw != "" {
		if page, err = strconv.Atoi(raw); err != nil {
			return 0, 0, apperr.InvalidArgument("page must be an integer")
		}
	}
	if raw := c.QueryParam("size"); raw != "" {
		if size, err = strconv.Atoi(raw); err != nil {
			return 0, 0, apperr.InvalidArgument("size must be an integer")
		}
	}
	return page, size, nil
}

func optionalFloat(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.InvalidArgument(name + " must be a number")
	}
	return &value, nil
}

func optionalUint(c echo.Context, name string) (*uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, apperr.InvalidArgument(name + " must be a positive integer")
	}
	id := uint(value)
	return &id, nil
}

func optionalTime(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if value, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return &value, nil
		}
	}
	return nil, apperr.InvalidArgument(name + " must be an ISO-8601 timestamp")
}
