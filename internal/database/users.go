package database

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backoffice/internal/models"
)

// UserPatch carries the user fields to change; nil fields are left untouched.
type UserPatch struct {
	Username *string
	Email    *string
	Role     *string
}

func (p UserPatch) Empty() bool {
	return p.Username == nil && p.Email == nil && p.Role == nil
}

type UserStore struct {
	docs docStore[models.User]
}

func NewUserStore(db *mongo.Database, timeout time.Duration) *UserStore {
	return &UserStore{docs: newDocStore[models.User](db, UsersCollection, timeout)}
}

func (s *UserStore) List(ctx context.Context, opts ListOptions) ([]models.User, error) {
	return s.docs.find(ctx, bson.M{}, opts)
}

func (s *UserStore) Get(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return s.docs.findByID(ctx, id)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.docs.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

// Create inserts the user. A taken email or username yields ErrDuplicate.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	ts := now()
	user.ID = primitive.NilObjectID
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.CreatedAt = ts
	user.UpdatedAt = ts

	id, err := s.docs.insert(ctx, user)
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

func (s *UserStore) Update(ctx context.Context, id primitive.ObjectID, patch UserPatch) (models.User, error) {
	set := bson.M{"updatedAt": now()}
	if patch.Username != nil {
		set["username"] = strings.TrimSpace(*patch.Username)
	}
	if patch.Email != nil {
		set["email"] = strings.ToLower(strings.TrimSpace(*patch.Email))
	}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}
	return s.docs.updateOne(ctx, bson.M{"_id": id}, set)
}

func (s *UserStore) Delete(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return s.docs.deleteByID(ctx, id)
}

// Usernames maps user ids to usernames for display.
func (s *UserStore) Usernames(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	return s.docs.stringsByIDs(ctx, uniqueIDs(ids), "username")
}
