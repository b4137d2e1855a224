package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/database"
	"backoffice/internal/models"
)

type CategoryStore interface {
	List(ctx context.Context, opts database.ListOptions) ([]models.Category, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, id primitive.ObjectID, name string) (models.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.Category, error)
}

type ProductStore interface {
	List(ctx context.Context, opts database.ListOptions) ([]models.Product, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, fields database.ProductFields) (models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.Product, error)
}

type OrderStore interface {
	List(ctx context.Context, opts database.ListOptions, includeCanceled bool) ([]models.Order, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, id primitive.ObjectID, patch database.OrderPatch) (models.Order, error)
	Cancel(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.Order, error)
}

// OrderPopulator resolves order references to display names.
type OrderPopulator interface {
	Populate(ctx context.Context, orders []models.Order) ([]models.OrderView, error)
}

type UserStore interface {
	List(ctx context.Context, opts database.ListOptions) ([]models.User, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id primitive.ObjectID, patch database.UserPatch) (models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.User, error)
}
