package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/database"
	"backoffice/internal/middleware"
)

func respondWithError(c *gin.Context, log logrus.FieldLogger, status int, route string, message string) {
	middleware.Logger(c, log).WithField("route", route).Debugf("returning error %d: %s", status, message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// respondServerError logs the failure at the boundary and answers 500 with the
// raw error as detail.
func respondServerError(c *gin.Context, log logrus.FieldLogger, route string, err error) {
	middleware.Logger(c, log).WithField("route", route).WithError(err).Error("store error")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error":   "server error",
		"details": err.Error(),
	})
}

func respondStoreError(c *gin.Context, log logrus.FieldLogger, route, resource string, err error) {
	if errors.Is(err, database.ErrNotFound) {
		respondWithError(c, log, http.StatusNotFound, route, resource+" not found")
		return
	}
	respondServerError(c, log, route, err)
}

func respondValidation(c *gin.Context, details ...string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":   "validation failed",
		"details": details,
	})
}

// pathID parses the :id parameter. A malformed id is answered with 400.
func pathID(c *gin.Context, log logrus.FieldLogger, route string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondWithError(c, log, http.StatusBadRequest, route, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// payload returns the body bound by middleware.BindJSON. Its absence means the
// route was wired without the binder.
func payload[T any](c *gin.Context, log logrus.FieldLogger, route string) (*T, bool) {
	req := middleware.Payload[T](c)
	if req == nil {
		respondWithError(c, log, http.StatusBadRequest, route, "invalid body")
		return nil, false
	}
	return req, true
}
