package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"windstruck-api/internal/domain"
)

// writeError maps domain errors to status codes. notFound is the detail sent
// for ErrNotFound; empty means "Not found".
func writeError(c *gin.Context, logger logrus.FieldLogger, err error, notFound string) {
	_ = c.Error(err)

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid order", "errors": verr.Fields})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		if notFound == "" {
			notFound = "Not found"
		}
		c.JSON(http.StatusNotFound, gin.H{"detail": notFound})
	case errors.Is(err, domain.ErrStoreUnavailable):
		logger.WithError(err).Error("store unavailable")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "store unavailable"})
	default:
		logger.WithError(err).Error("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	}
}
