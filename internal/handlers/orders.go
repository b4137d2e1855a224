package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/database"
	"backoffice/internal/events"
	"backoffice/internal/middleware"
	"backoffice/internal/models"
)

type OrderLineRequest struct {
	ProductID string `json:"productId" binding:"required,mongodb"`
	Quantity  *int   `json:"quantity" binding:"required,min=1"`
}

type OrderRequest struct {
	UserID     string             `json:"userId" binding:"required,mongodb"`
	Products   []OrderLineRequest `json:"products" binding:"required,min=1,dive"`
	TotalPrice *float64           `json:"totalPrice" binding:"required"`
}

// OrderUpdateRequest is a partial order; only the fields present are changed.
type OrderUpdateRequest struct {
	UserID     *string            `json:"userId" binding:"omitempty,mongodb"`
	Products   []OrderLineRequest `json:"products" binding:"omitempty,min=1,dive"`
	Status     *string            `json:"status" binding:"omitempty,oneof=pending confirmed shipped delivered canceled"`
	TotalPrice *float64           `json:"totalPrice"`
}

type OrderDeps struct {
	Store     OrderStore
	Populator OrderPopulator
	Events    events.Publisher
	Log       logrus.FieldLogger
}

func (d OrderDeps) publish(c *gin.Context, t events.Type, order models.Order) {
	if d.Events == nil {
		return
	}
	if err := d.Events.PublishOrder(c.Request.Context(), events.NewOrderEvent(t, order)); err != nil {
		middleware.Logger(c, d.Log).WithError(err).WithField("orderId", order.ID.Hex()).
			Warnf("[ORDER] publish %s failed", t)
	}
}

func orderLines(lines []OrderLineRequest) ([]models.OrderLine, error) {
	out := make([]models.OrderLine, 0, len(lines))
	for i, line := range lines {
		productID, err := primitive.ObjectIDFromHex(line.ProductID)
		if err != nil {
			return nil, errors.New("products[" + strconv.Itoa(i) + "].productId must be a valid id")
		}
		out = append(out, models.OrderLine{ProductID: productID, Quantity: *line.Quantity})
	}
	return out, nil
}

func ListOrders(d OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"

		opts, err := listOptions(c)
		if err != nil {
			respondWithError(c, d.Log, http.StatusBadRequest, route, err.Error())
			return
		}

		includeCanceled := false
		if raw := c.Query("includeCanceled"); raw != "" {
			includeCanceled, err = strconv.ParseBool(raw)
			if err != nil {
				respondWithError(c, d.Log, http.StatusBadRequest, route, "includeCanceled must be boolean")
				return
			}
		}

		orders, err := d.Store.List(c.Request.Context(), opts, includeCanceled)
		if err != nil {
			respondServerError(c, d.Log, route, err)
			return
		}

		views, err := d.Populator.Populate(c.Request.Context(), orders)
		if err != nil {
			respondServerError(c, d.Log, route, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

func GetOrder(d OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"

		id, ok := pathID(c, d.Log, route)
		if !ok {
			return
		}

		order, err := d.Store.Get(c.Request.Context(), id)
		if err != nil {
			respondStoreError(c, d.Log, route, "order", err)
			return
		}

		views, err := d.Populator.Populate(c.Request.Context(), []models.Order{order})
		if err != nil {
			respondServerError(c, d.Log, route, err)
			return
		}
		c.JSON(http.StatusOK, views[0])
	}
}

// CreateOrder stores the order as submitted; totalPrice is not recomputed and
// referenced users and products are not looked up. Non-admin callers may only
// order for themselves.
func CreateOrder(d OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"

		req, ok := payload[OrderRequest](c, d.Log, route)
		if !ok {
			return
		}

		userID, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			respondValidation(c, "userId must be a valid id")
			return
		}
		lines, err := orderLines(req.Products)
		if err != nil {
			respondValidation(c, err.Error())
			return
		}

		identity, _ := middleware.CurrentIdentity(c)
		if !identity.HasRole(models.RoleAdmin) && identity.UserID != userID {
			respondWithError(c, d.Log, http.StatusForbidden, route, "forbidden")
			return
		}

		order := models.Order{
			UserID:     userID,
			Products:   lines,
			Status:     models.OrderPending,
			TotalPrice: *req.TotalPrice,
		}
		if err := d.Store.Create(c.Request.Context(), &order); err != nil {
			respondServerError(c, d.Log, route, err)
			return
		}

		middleware.Logger(c, d.Log).WithFields(logrus.Fields{
			"orderId": order.ID.Hex(),
			"userId":  userID.Hex(),
		}).Info("[ORDER] order created")
		d.publish(c, events.OrderCreated, order)

		c.JSON(http.StatusCreated, gin.H{"message": "order created", "order": order})
	}
}

func UpdateOrder(d OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /orders/:id"

		id, ok := pathID(c, d.Log, route)
		if !ok {
			return
		}
		req, ok := payload[OrderUpdateRequest](c, d.Log, route)
		if !ok {
			return
		}

		var patch database.OrderPatch
		if req.UserID != nil {
			userID, err := primitive.ObjectIDFromHex(*req.UserID)
			if err != nil {
				respondValidation(c, "userId must be a valid id")
				return
			}
			patch.UserID = &userID
		}
		if req.Products != nil {
			if len(req.Products) == 0 {
				respondValidation(c, "products must be at least 1 item(s)")
				return
			}
			lines, err := orderLines(req.Products)
			if err != nil {
				respondValidation(c, err.Error())
				return
			}
			patch.Products = lines
		}
		if req.Status != nil {
			status := models.OrderStatus(*req.Status)
			if !status.Valid() {
				respondValidation(c, "status must be one of [pending, confirmed, shipped, delivered, canceled]")
				return
			}
			patch.Status = &status
		}
		patch.TotalPrice = req.TotalPrice

		if patch.Empty() {
			respondWithError(c, d.Log, http.StatusBadRequest, route, "no fields to update")
			return
		}

		order, err := d.Store.Update(c.Request.Context(), id, patch)
		if err != nil {
			respondStoreError(c, d.Log, route, "order", err)
			return
		}

		d.publish(c, events.OrderUpdated, order)
		c.JSON(http.StatusOK, gin.H{"message": "order updated", "order": order})
	}
}

// CancelOrder moves an order to canceled, keeping the document. Only pending
// and confirmed orders can be canceled; non-admin callers may only cancel
// their own orders.
func CancelOrder(d OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders/:id/cancel"

		id, ok := pathID(c, d.Log, route)
		if !ok {
			return
		}

		identity, _ := middleware.CurrentIdentity(c)
		if !identity.HasRole(models.RoleAdmin) {
			existing, err := d.Store.Get(c.Request.Context(), id)
			if err != nil {
				respondStoreError(c, d.Log, route, "order", err)
				return
			}
			if existing.UserID != identity.UserID {
				respondWithError(c, d.Log, http.StatusForbidden, route, "forbidden")
				return
			}
		}

		order, err := d.Store.Cancel(c.Request.Context(), id)
		var statusErr *database.StatusError
		if errors.As(err, &statusErr) {
			middleware.Logger(c, d.Log).WithField("route", route).Debug(statusErr.Error())
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":  "order cannot be canceled",
				"status": statusErr.Status,
			})
			return
		}
		if err != nil {
			respondStoreError(c, d.Log, route, "order", err)
			return
		}

		d.publish(c, events.OrderCanceled, order)
		c.JSON(http.StatusOK, gin.H{"message": "order canceled", "order": order})
	}
}

func DeleteOrder(d OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /orders/:id"

		id, ok := pathID(c, d.Log, route)
		if !ok {
			return
		}

		order, err := d.Store.Delete(c.Request.Context(), id)
		if err != nil {
			respondStoreError(c, d.Log, route, "order", err)
			return
		}

		d.publish(c, events.OrderDeleted, order)
		c.JSON(http.StatusOK, gin.H{"message": "order deleted", "order": order})
	}
}
