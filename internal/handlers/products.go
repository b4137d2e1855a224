package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"backoffice/internal/database"
	"backoffice/internal/middleware"
	"backoffice/internal/models"
)

// ProductRequest is the full product payload used by create and update.
type ProductRequest struct {
	Name     string   `json:"name" binding:"required,min=3,max=100"`
	Price    *float64 `json:"price" binding:"required"`
	Category string   `json:"category" binding:"required,min=3,max=100"`
	Desc     string   `json:"desc" binding:"required,min=3,max=500"`
}

func (r ProductRequest) fields() database.ProductFields {
	return database.ProductFields{
		Name:     r.Name,
		Price:    *r.Price,
		Category: r.Category,
		Desc:     r.Desc,
	}
}

func ListProducts(store ProductStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"

		opts, err := listOptions(c)
		if err != nil {
			respondWithError(c, log, http.StatusBadRequest, route, err.Error())
			return
		}

		products, err := store.List(c.Request.Context(), opts)
		if err != nil {
			respondServerError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func GetProduct(store ProductStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"

		id, ok := pathID(c, log, route)
		if !ok {
			return
		}

		product, err := store.Get(c.Request.Context(), id)
		if err != nil {
			respondStoreError(c, log, route, "product", err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// CreateProduct stores a new product. A name collision surfaces as a server
// error carrying the store's message.
func CreateProduct(store ProductStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products"

		req, ok := payload[ProductRequest](c, log, route)
		if !ok {
			return
		}

		f := req.fields()
		product := models.Product{
			Name:     f.Name,
			Price:    f.Price,
			Category: f.Category,
			Desc:     f.Desc,
		}
		if err := store.Create(c.Request.Context(), &product); err != nil {
			respondServerError(c, log, route, err)
			return
		}

		middleware.Logger(c, log).WithField("productId", product.ID.Hex()).Info("product created")
		c.JSON(http.StatusCreated, gin.H{"message": "product created", "product": product})
	}
}

func UpdateProduct(store ProductStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /products/:id"

		id, ok := pathID(c, log, route)
		if !ok {
			return
		}
		req, ok := payload[ProductRequest](c, log, route)
		if !ok {
			return
		}

		product, err := store.Update(c.Request.Context(), id, req.fields())
		if err != nil {
			respondStoreError(c, log, route, "product", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "product updated", "product": product})
	}
}

func DeleteProduct(store ProductStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /products/:id"

		id, ok := pathID(c, log, route)
		if !ok {
			return
		}

		product, err := store.Delete(c.Request.Context(), id)
		if err != nil {
			respondStoreError(c, log, route, "product", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "product deleted", "product": product})
	}
}
