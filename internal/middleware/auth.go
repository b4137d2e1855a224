package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const identityKey = "identity"

// Claim names carried by access tokens.
const (
	ClaimUserID   = "userId"
	ClaimUsername = "username"
	ClaimRole     = "role"
)

// Identity is the authenticated caller attached to the request.
type Identity struct {
	UserID   primitive.ObjectID
	Username string
	Role     string
}

func (i Identity) HasRole(role string) bool {
	return i.Role == role
}

// AuthGuard requires a valid HS256 bearer token. When allowedRoles is not
// empty the token's role must be one of them.
func AuthGuard(secret string, log logrus.FieldLogger, allowedRoles ...string) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			log.Warn("[AUTH] missing token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			log.Warn("[AUTH] invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims := jwt.MapClaims{}
		token, err := parser.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			log.WithError(err).Warn("[AUTH] token validation failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		identity, ok := identityFromClaims(claims)
		if !ok {
			log.Warn("[AUTH] token claims invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if len(allowedRoles) > 0 && !slices.Contains(allowedRoles, identity.Role) {
			log.WithFields(logrus.Fields{"userId": identity.UserID.Hex(), "role": identity.Role}).
				Warn("[AUTH] role not allowed")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func identityFromClaims(claims jwt.MapClaims) (Identity, bool) {
	rawID, _ := claims[ClaimUserID].(string)
	userID, err := primitive.ObjectIDFromHex(strings.TrimSpace(rawID))
	if err != nil {
		return Identity{}, false
	}

	role, _ := claims[ClaimRole].(string)
	if role == "" {
		return Identity{}, false
	}
	username, _ := claims[ClaimUsername].(string)

	return Identity{UserID: userID, Username: username, Role: role}, true
}

// CurrentIdentity returns the caller set by AuthGuard.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	identity, ok := v.(Identity)
	return identity, ok
}
