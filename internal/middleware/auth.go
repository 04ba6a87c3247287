package middleware

import (
	"net/http"
	"strings"

	"github.com/dentaheal/booking-api/internal/models"
	"github.com/dentaheal/booking-api/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const actorKey = "actor"
const tokenClaimsKey = "tokenClaims"

// AuthMiddleware validates the bearer token, rejects revoked tokens, and
// puts the resolved Actor on the context for handlers to use.
func AuthMiddleware(secret []byte, sessions *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authorization header required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateJWT(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid token"})
			return
		}
		if utils.IsTokenRevoked(c.Request.Context(), sessions, claims.ID) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Token has been revoked"})
			return
		}

		actor, err := actorFromClaims(claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid token claims"})
			return
		}

		c.Set(actorKey, actor)
		c.Set(tokenClaimsKey, claims)
		c.Next()
	}
}

// Authorize allows only the given roles past; it must run after
// AuthMiddleware. Policy denials inside services return 403 as well, so the
// two layers stay consistent.
func Authorize(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Not authenticated"})
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient role"})
	}
}

// CurrentActor returns the Actor placed on the context by AuthMiddleware.
func CurrentActor(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}

// CurrentClaims exposes the raw claims, used by the logout handler to
// revoke the token's JTI.
func CurrentClaims(c *gin.Context) (*utils.Claims, bool) {
	v, ok := c.Get(tokenClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok
}

func actorFromClaims(claims *utils.Claims) (models.Actor, error) {
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return models.Actor{}, err
	}
	actor := models.Actor{ID: id, Role: models.Role(claims.Role)}
	if !actor.Role.Valid() {
		actor.Role = models.RoleUser
	}
	if claims.DentistID != "" {
		if dentistID, err := primitive.ObjectIDFromHex(claims.DentistID); err == nil {
			actor.DentistID = dentistID
		}
	}
	return actor, nil
}
