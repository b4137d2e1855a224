package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"backoffice/internal/models"
)

type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=50"`
}

func ListCategories(store CategoryStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories"

		opts, err := listOptions(c)
		if err != nil {
			respondWithError(c, log, http.StatusBadRequest, route, err.Error())
			return
		}

		categories, err := store.List(c.Request.Context(), opts)
		if err != nil {
			respondServerError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func GetCategory(store CategoryStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories/:id"

		id, ok := pathID(c, log, route)
		if !ok {
			return
		}

		category, err := store.Get(c.Request.Context(), id)
		if err != nil {
			respondStoreError(c, log, route, "category", err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func CreateCategory(store CategoryStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /categories"

		req, ok := payload[CategoryRequest](c, log, route)
		if !ok {
			return
		}

		category := models.Category{Name: req.Name}
		if err := store.Create(c.Request.Context(), &category); err != nil {
			respondServerError(c, log, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "category created", "category": category})
	}
}

func UpdateCategory(store CategoryStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /categories/:id"

		id, ok := pathID(c, log, route)
		if !ok {
			return
		}
		req, ok := payload[CategoryRequest](c, log, route)
		if !ok {
			return
		}

		category, err := store.Update(c.Request.Context(), id, req.Name)
		if err != nil {
			respondStoreError(c, log, route, "category", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "category updated", "category": category})
	}
}

func DeleteCategory(store CategoryStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /categories/:id"

		id, ok := pathID(c, log, route)
		if !ok {
			return
		}

		category, err := store.Delete(c.Request.Context(), id)
		if err != nil {
			respondStoreError(c, log, route, "category", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "category deleted", "category": category})
	}
}
