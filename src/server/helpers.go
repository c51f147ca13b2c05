package server

import (
	"context"
	"errors"
	"net/http"

	"covid-dashboard/src/dashboard"
	"covid-dashboard/src/helpers"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------

// errorStatus maps the dashboard error family onto HTTP status codes.
func errorStatus(err error) int {
	var validation *helpers.ValidationError
	var catalog *helpers.CatalogError
	var render *helpers.RenderError

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrStaleSelection):
		return http.StatusConflict
	case errors.As(err, &catalog):
		return http.StatusBadGateway
	case errors.As(err, &render):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// -----------------------------------------------------------------------------

func errorBody(err error) gin.H {
	return gin.H{"error": err.Error()}
}
