package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	CategoriesCollection = "categories"
	ProductsCollection   = "products"
	OrdersCollection     = "orders"
	UsersCollection      = "users"
)

var (
	// ErrNotFound is returned when no document matches the given identifier.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate wraps unique index violations.
	ErrDuplicate = errors.New("duplicate key")
)

func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// Ping checks that the primary is reachable.
func Ping(ctx context.Context, db *mongo.Database) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.Client().Ping(checkCtx, readpref.Primary())
}

// ListOptions restricts a listing to one page. A zero Limit lists everything.
type ListOptions struct {
	Skip  int64
	Limit int64
}

func (o ListOptions) findOptions() *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if o.Limit > 0 {
		opts.SetSkip(o.Skip).SetLimit(o.Limit)
	}
	return opts
}

// docStore holds the collection plumbing shared by the typed stores.
type docStore[T any] struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func newDocStore[T any](db *mongo.Database, name string, timeout time.Duration) docStore[T] {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return docStore[T]{coll: db.Collection(name), timeout: timeout}
}

func (s docStore[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s docStore[T]) find(ctx context.Context, filter bson.M, opts ListOptions) ([]T, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cursor, err := s.coll.Find(ctx, filter, opts.findOptions())
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", s.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.coll.Name(), err)
	}
	return docs, nil
}

func (s docStore[T]) findByID(ctx context.Context, id primitive.ObjectID) (T, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var doc T
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	return doc, s.wrap("find", err)
}

func (s docStore[T]) findOne(ctx context.Context, filter bson.M) (T, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var doc T
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	return doc, s.wrap("find", err)
}

func (s docStore[T]) insert(ctx context.Context, doc *T) (primitive.ObjectID, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, s.wrap("insert", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("insert %s: unexpected id type %T", s.coll.Name(), res.InsertedID)
	}
	return id, nil
}

func (s docStore[T]) updateOne(ctx context.Context, filter, set bson.M) (T, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var doc T
	err := s.coll.FindOneAndUpdate(
		ctx,
		filter,
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	return doc, s.wrap("update", err)
}

func (s docStore[T]) deleteByID(ctx context.Context, id primitive.ObjectID) (T, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var doc T
	err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc)
	return doc, s.wrap("delete", err)
}

// stringsByIDs maps each found _id to the string value of field. Unknown ids
// are simply absent from the result.
func (s docStore[T]) stringsByIDs(ctx context.Context, ids []primitive.ObjectID, field string) (map[primitive.ObjectID]string, error) {
	out := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cursor, err := s.coll.Find(
		ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{field: 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", s.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		id, ok := cursor.Current.Lookup("_id").ObjectIDOK()
		if !ok {
			continue
		}
		value, _ := cursor.Current.Lookup(field).StringValueOK()
		out[id] = value
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.coll.Name(), err)
	}
	return out, nil
}

func (s docStore[T]) wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s %s: %w: %v", op, s.coll.Name(), ErrDuplicate, err)
	default:
		return fmt.Errorf("%s %s: %w", op, s.coll.Name(), err)
	}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// uniqueIDs returns ids without duplicates, preserving first-seen order.
func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
