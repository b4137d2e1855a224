package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/models"
)

// Populator resolves order references to display names.
type Populator struct {
	Users    *UserStore
	Products *ProductStore
}

func (p Populator) Populate(ctx context.Context, orders []models.Order) ([]models.OrderView, error) {
	userIDs := make([]primitive.ObjectID, 0, len(orders))
	productIDs := make([]primitive.ObjectID, 0, len(orders))
	for _, order := range orders {
		userIDs = append(userIDs, order.UserID)
		for _, line := range order.Products {
			productIDs = append(productIDs, line.ProductID)
		}
	}

	usernames, err := p.Users.Usernames(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	productNames, err := p.Products.Names(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, order.View(usernames, productNames))
	}
	return views, nil
}
