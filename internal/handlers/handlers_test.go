package handlers

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"backoffice/internal/database"
	"backoffice/internal/memstore"
	"backoffice/internal/middleware"
	"backoffice/internal/models"
)

func queryContext(rawQuery string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/items?"+rawQuery, nil)
	return c
}

func TestListOptions(t *testing.T) {
	tests := []struct {
		query   string
		want    database.ListOptions
		wantErr bool
	}{
		{query: "", want: database.ListOptions{}},
		{query: "page=1&limit=10", want: database.ListOptions{Skip: 0, Limit: 10}},
		{query: "page=3&limit=25", want: database.ListOptions{Skip: 50, Limit: 25}},
		{query: "page=2", wantErr: true},
		{query: "limit=5", wantErr: true},
		{query: "page=0&limit=5", wantErr: true},
		{query: "page=1&limit=501", wantErr: true},
		{query: "page=x&limit=5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := listOptions(queryContext(tt.query))
			if tt.wantErr {
				assert.ErrorIs(t, err, errInvalidPagination)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIssueUserTokenClaims(t *testing.T) {
	user := models.User{ID: primitive.NewObjectID(), Username: "frank", Role: models.RoleAdmin}
	token, err := issueUserToken(user, "s3cret", time.Minute)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("s3cret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)

	assert.Equal(t, user.ID.Hex(), claims[middleware.ClaimUserID])
	assert.Equal(t, "frank", claims[middleware.ClaimUsername])
	assert.Equal(t, models.RoleAdmin, claims[middleware.ClaimRole])
	assert.Contains(t, claims, "exp")
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	log, hook := test.NewNullLogger()
	users := memstore.NewUserStore()

	require.NoError(t, EnsureAdmin(ctx, users, "admin", "", "", log))
	all, err := users.List(ctx, database.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, EnsureAdmin(ctx, users, "admin", "Admin@Example.com", "changeme", log))
	admin, err := users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("changeme")))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "[AUTH] admin account created", hook.LastEntry().Message)

	require.NoError(t, EnsureAdmin(ctx, users, "admin", "admin@example.com", "other", log))
	all, err = users.List(ctx, database.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEnsureAdminTakenUsernameOnlyWarns(t *testing.T) {
	ctx := context.Background()
	log, hook := test.NewNullLogger()
	users := memstore.NewUserStore()

	require.NoError(t, users.Create(ctx, &models.User{Username: "admin", Email: "someone@example.com"}))

	require.NoError(t, EnsureAdmin(ctx, users, "admin", "admin@example.com", "changeme", log))
	_, err := users.GetByEmail(ctx, "admin@example.com")
	assert.ErrorIs(t, err, database.ErrNotFound)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}
