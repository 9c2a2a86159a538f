package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/pulsegram/backend/internal/apperrors"
	"github.com/anonto42/pulsegram/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the authenticated user's id set by the JWT
// middleware.
func getUserIDFromContext(c echo.Context) (uint, error) {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims.UserID == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication")
	}
	return claims.UserID, nil
}

// httpError translates a service error into the matching HTTP status.
func httpError(err error) error {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		return echo.NewHTTPError(http.StatusNotFound, apperrors.MessageOf(err))
	case apperrors.KindForbidden:
		return echo.NewHTTPError(http.StatusForbidden, apperrors.MessageOf(err))
	case apperrors.KindInvalidArgument:
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.MessageOf(err))
	case apperrors.KindConflict:
		return echo.NewHTTPError(http.StatusConflict, apperrors.MessageOf(err))
	case apperrors.KindUnavailable:
		return echo.NewHTTPError(http.StatusServiceUnavailable, apperrors.MessageOf(err))
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, apperrors.MessageOf(err))
	}
}

// parseUintParam parses a numeric path parameter.
func parseUintParam(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(value), nil
}

// parsePagination reads limit/offset query parameters, leaving clamping to
// the service layer.
func parsePagination(c echo.Context) (limit, offset int) {
	if raw := c.QueryParam("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			offset = v
		}
	}
	return limit, offset
}
