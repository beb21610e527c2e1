package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"github.com/andresuchdata/salescast/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const invalidJSONMessage = "Request must be JSON"

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *domain.ValidationError
		stockErr      *domain.InsufficientStockError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": stockErr.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			respondError(c, domain.NewValidationError(typeErr.Field, "must be of type "+typeName(typeErr.Type)))
			return false
		}
		log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidJSONMessage})
		return false
	}
	return true
}

func typeName(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	return t.String()
}

func required(field string) error {
	return domain.NewValidationError(field, "is required")
}
