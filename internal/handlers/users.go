package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"backoffice/internal/database"
	"backoffice/internal/middleware"
	"backoffice/internal/models"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72" trim:"-"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required" trim:"-"`
}

type UserUpdateRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Role     *string `json:"role" binding:"omitempty,oneof=user admin"`
}

type UserDeps struct {
	Store     UserStore
	JWTSecret string
	TokenTTL  time.Duration
	Log       logrus.FieldLogger
}

func issueUserToken(user models.User, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		middleware.ClaimUserID:   user.ID.Hex(),
		middleware.ClaimUsername: user.Username,
		middleware.ClaimRole:     user.Role,
		"exp":                    time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func respondUserConflict(c *gin.Context, d UserDeps, route string, err error) bool {
	if !errors.Is(err, database.ErrDuplicate) {
		return false
	}
	respondWithError(c, d.Log, http.StatusConflict, route, "username or email already taken")
	return true
}

// Register creates a regular user account and returns it with an access token.
func Register(d UserDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /users/register"

		req, ok := payload[RegisterRequest](c, d.Log, route)
		if !ok {
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondServerError(c, d.Log, route, err)
			return
		}

		user := models.User{
			Username:     req.Username,
			Email:        req.Email,
			Role:         models.RoleUser,
			PasswordHash: string(hash),
		}
		if err := d.Store.Create(c.Request.Context(), &user); err != nil {
			if respondUserConflict(c, d, route, err) {
				return
			}
			respondServerError(c, d.Log, route, err)
			return
		}

		token, err := issueUserToken(user, d.JWTSecret, d.TokenTTL)
		if err != nil {
			respondServerError(c, d.Log, route, err)
			return
		}

		middleware.Logger(c, d.Log).WithField("userId", user.ID.Hex()).Info("[AUTH] user registered")
		c.JSON(http.StatusCreated, gin.H{"message": "user registered", "user": user, "token": token})
	}
}

func Login(d UserDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /users/login"

		req, ok := payload[LoginRequest](c, d.Log, route)
		if !ok {
			return
		}

		user, err := d.Store.GetByEmail(c.Request.Context(), req.Email)
		if errors.Is(err, database.ErrNotFound) {
			respondWithError(c, d.Log, http.StatusUnauthorized, route, "invalid credentials")
			return
		}
		if err != nil {
			respondServerError(c, d.Log, route, err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			middleware.Logger(c, d.Log).WithField("userId", user.ID.Hex()).Warn("[AUTH] login invalid credentials")
			respondWithError(c, d.Log, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		token, err := issueUserToken(user, d.JWTSecret, d.TokenTTL)
		if err != nil {
			respondServerError(c, d.Log, route, err)
			return
		}

		middleware.Logger(c, d.Log).WithField("userId", user.ID.Hex()).Info("[AUTH] login succeeded")
		c.JSON(http.StatusOK, gin.H{"token": token, "role": user.Role, "user": user})
	}
}

func ListUsers(d UserDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /users"

		opts, err := listOptions(c)
		if err != nil {
			respondWithError(c, d.Log, http.StatusBadRequest, route, err.Error())
			return
		}

		users, err := d.Store.List(c.Request.Context(), opts)
		if err != nil {
			respondServerError(c, d.Log, route, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

func GetUser(d UserDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /users/:id"

		id, ok := pathID(c, d.Log, route)
		if !ok {
			return
		}

		user, err := d.Store.Get(c.Request.Context(), id)
		if err != nil {
			respondStoreError(c, d.Log, route, "user", err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func UpdateUser(d UserDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /users/:id"

		id, ok := pathID(c, d.Log, route)
		if !ok {
			return
		}
		req, ok := payload[UserUpdateRequest](c, d.Log, route)
		if !ok {
			return
		}

		patch := database.UserPatch{Username: req.Username, Email: req.Email, Role: req.Role}
		if patch.Empty() {
			respondWithError(c, d.Log, http.StatusBadRequest, route, "no fields to update")
			return
		}

		user, err := d.Store.Update(c.Request.Context(), id, patch)
		if err != nil {
			if respondUserConflict(c, d, route, err) {
				return
			}
			respondStoreError(c, d.Log, route, "user", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "user updated", "user": user})
	}
}

func DeleteUser(d UserDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /users/:id"

		id, ok := pathID(c, d.Log, route)
		if !ok {
			return
		}

		if identity, _ := middleware.CurrentIdentity(c); identity.UserID == id {
			respondWithError(c, d.Log, http.StatusBadRequest, route, "cannot delete own account")
			return
		}

		user, err := d.Store.Delete(c.Request.Context(), id)
		if err != nil {
			respondStoreError(c, d.Log, route, "user", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "user deleted", "user": user})
	}
}

// EnsureAdmin creates the bootstrap admin account when no user with the given
// email exists. An existing account is left untouched, and a username held by
// another account only logs a warning.
func EnsureAdmin(ctx context.Context, store UserStore, username, email, password string, log logrus.FieldLogger) error {
	if email == "" || password == "" {
		return nil
	}

	_, err := store.GetByEmail(ctx, email)
	if err == nil {
		log.WithField("email", email).Debug("[AUTH] admin account already present")
		return nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Username:     username,
		Email:        email,
		Role:         models.RoleAdmin,
		PasswordHash: string(hash),
	}
	if err := store.Create(ctx, &admin); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			log.WithError(err).WithField("username", username).
				Warn("[AUTH] admin account not created: username already taken")
			return nil
		}
		return fmt.Errorf("create admin: %w", err)
	}

	log.WithFields(logrus.Fields{"userId": admin.ID.Hex(), "email": admin.Email}).Info("[AUTH] admin account created")
	return nil
}

