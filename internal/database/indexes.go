package database

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureProductIndexes(db *mongo.Database, log logrus.FieldLogger) error {
	return ensureIndexes(db, ProductsCollection, log, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("name_unique").SetUnique(true),
	})
}

func EnsureUserIndexes(db *mongo.Database, log logrus.FieldLogger) error {
	return ensureIndexes(db, UsersCollection, log,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("username_unique").SetUnique(true),
		},
	)
}

func EnsureOrderIndexes(db *mongo.Database, log logrus.FieldLogger) error {
	return ensureIndexes(db, OrdersCollection, log, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("userId_index"),
	})
}

func ensureIndexes(db *mongo.Database, collection string, log logrus.FieldLogger, models ...mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry := log.WithField("collection", collection)
	entry.Infof("creating %d index(es)", len(models))

	names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
	if err != nil {
		entry.WithError(err).Error("index creation failed")
		return err
	}
	entry.WithField("indexes", names).Info("indexes ready")
	return nil
}
