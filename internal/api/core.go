package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"affiliate-backend/internal/affiliate"
	"affiliate-backend/internal/logging"
)

// fail maps the service error taxonomy to HTTP statuses. Anything outside the
// taxonomy is an operational error: logged, reported as 500.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, affiliate.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, affiliate.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, affiliate.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logging.Logger.Error(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func memberIdParam(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return 0, false
	}
	return uint(id), true
}

func pageParams(c *gin.Context) (page int, size int, ok bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return 0, 0, false
	}
	size, err = strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, 0, false
	}
	if size < 1 || size > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errors.New("maximum size is 100").Error()})
		return 0, 0, false
	}
	return page, size, true
}
