package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func signed(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func guardedEngine(t *testing.T, roles ...string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, _ := test.NewNullLogger()

	r := gin.New()
	r.GET("/private", AuthGuard(testSecret, log, roles...), func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"userId": identity.UserID.Hex(), "role": identity.Role})
	})
	return r
}

func call(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthGuard(t *testing.T) {
	userID := primitive.NewObjectID()
	valid := jwt.MapClaims{
		ClaimUserID:   userID.Hex(),
		ClaimUsername: "alice",
		ClaimRole:     "user",
		"exp":         time.Now().Add(time.Hour).Unix(),
	}
	expired := jwt.MapClaims{
		ClaimUserID: userID.Hex(),
		ClaimRole:   "user",
		"exp":       time.Now().Add(-time.Hour).Unix(),
	}
	noRole := jwt.MapClaims{
		ClaimUserID: userID.Hex(),
		"exp":       time.Now().Add(time.Hour).Unix(),
	}

	tests := []struct {
		name          string
		roles         []string
		authorization string
		wantStatus    int
		wantError     string
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized, wantError: "missing token"},
		{name: "not bearer", authorization: "Basic abc", wantStatus: http.StatusUnauthorized, wantError: "invalid token"},
		{name: "garbage token", authorization: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized, wantError: "unauthorized"},
		{
			name:          "wrong secret",
			authorization: "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("other"), valid),
			wantStatus:    http.StatusUnauthorized,
			wantError:     "unauthorized",
		},
		{
			name:          "wrong algorithm",
			authorization: "Bearer " + signed(t, jwt.SigningMethodHS512, []byte(testSecret), valid),
			wantStatus:    http.StatusUnauthorized,
			wantError:     "unauthorized",
		},
		{
			name:          "expired",
			authorization: "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(testSecret), expired),
			wantStatus:    http.StatusUnauthorized,
			wantError:     "unauthorized",
		},
		{
			name:          "missing role claim",
			authorization: "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(testSecret), noRole),
			wantStatus:    http.StatusUnauthorized,
			wantError:     "unauthorized",
		},
		{
			name:          "role not allowed",
			roles:         []string{"admin"},
			authorization: "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(testSecret), valid),
			wantStatus:    http.StatusForbidden,
			wantError:     "forbidden",
		},
		{
			name:          "valid",
			authorization: "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(testSecret), valid),
			wantStatus:    http.StatusOK,
		},
		{
			name:          "valid with allowed role",
			roles:         []string{"user", "admin"},
			authorization: "bearer " + signed(t, jwt.SigningMethodHS256, []byte(testSecret), valid),
			wantStatus:    http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(guardedEngine(t, tt.roles...), tt.authorization)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantError != "" {
				assert.JSONEq(t, `{"error":"`+tt.wantError+`"}`, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), userID.Hex())
			}
		})
	}
}

func TestCurrentIdentityWithoutGuard(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := CurrentIdentity(c)
	assert.False(t, ok)
}

