package memstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/database"
	"backoffice/internal/models"
)

// UserStore enforces unique emails and usernames. Emails are stored lowercased.
type UserStore struct {
	mu   sync.RWMutex
	rows table[models.User]
}

func NewUserStore() *UserStore {
	return &UserStore{rows: newTable[models.User]()}
}

func (s *UserStore) List(_ context.Context, opts database.ListOptions) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows.list(opts, nil), nil
}

func (s *UserStore) Get(_ context.Context, id primitive.ObjectID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows.get(id)
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = normalizeEmail(email)
	user, ok := s.rows.find(func(u models.User) bool { return u.Email == email })
	if !ok {
		return models.User{}, database.ErrNotFound
	}
	return user, nil
}

func (s *UserStore) conflict(user models.User) error {
	_, taken := s.rows.find(func(u models.User) bool {
		return u.ID != user.ID && (u.Email == user.Email || u.Username == user.Username)
	})
	if taken {
		return fmt.Errorf("%w: user %q", database.ErrDuplicate, user.Email)
	}
	return nil
}

func (s *UserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = primitive.NilObjectID
	user.Email = normalizeEmail(user.Email)
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if err := s.conflict(*user); err != nil {
		return err
	}

	ts := now()
	user.CreatedAt = ts
	user.UpdatedAt = ts
	user.ID = s.rows.insert(*user)
	s.rows.set(user.ID, *user)
	return nil
}

func (s *UserStore) Update(_ context.Context, id primitive.ObjectID, patch database.UserPatch) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.rows.get(id)
	if err != nil {
		return models.User{}, err
	}
	if patch.Username != nil {
		user.Username = strings.TrimSpace(*patch.Username)
	}
	if patch.Email != nil {
		user.Email = normalizeEmail(*patch.Email)
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if err := s.conflict(user); err != nil {
		return models.User{}, err
	}

	user.UpdatedAt = now()
	s.rows.set(id, user)
	return user, nil
}

func (s *UserStore) Delete(_ context.Context, id primitive.ObjectID) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows.remove(id)
}

func (s *UserStore) Usernames(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make(map[primitive.ObjectID]string, len(ids))
	for _, id := range ids {
		if user, err := s.rows.get(id); err == nil {
			names[id] = user.Username
		}
	}
	return names, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
