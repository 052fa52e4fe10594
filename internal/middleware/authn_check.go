package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	firebaseutil "jp.promiseasync.commboard/internal/firebase"
	usermodels "jp.promiseasync.commboard/internal/models/account"
)

// AuthMiddleware verifies the bearer token and sets uid and short_id in the
// request context. Token verification itself is delegated to the identity
// provider; verified identities are cached in Redis and mirrored into the
// users table so later requests skip the provider round-trip.
func AuthMiddleware(firebaseApp *firebase.App, postgres *pgxpool.Pool, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		// Check if header starts with "Bearer "
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with 'Bearer '"})
			c.Abort()
			return
		}

		// Extract token
		token := strings.TrimPrefix(authHeader, bearerPrefix)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
			c.Abort()
			return
		}

		ctx := context.Background()
		cacheKey := fmt.Sprintf("auth:%s", token)

		// Step 1: Try the Redis identity cache
		var user usermodels.User
		if cached, err := redisClient.Get(ctx, cacheKey).Result(); err == nil {
			if err := json.Unmarshal([]byte(cached), &user); err != nil {
				user = usermodels.User{}
			}
		}

		// Step 2: If not cached, try the local users table
		if user.UID == "" {
			query := `SELECT uid, email, short_id FROM users WHERE token = $1`
			if err := postgres.QueryRow(ctx, query, token).Scan(&user.UID, &user.Email, &user.ShortID); err != nil {
				user = usermodels.User{}
			}
		}

		// Step 3: Fall back to the identity provider
		if user.UID == "" {
			authClient, err := firebaseutil.GetAuthClient(firebaseApp)
			if err == nil {
				if idToken, err := authClient.VerifyIDToken(ctx, token); err == nil {
					record, err := authClient.GetUser(ctx, idToken.UID)
					if err == nil && record.Email != "" {
						user = usermodels.User{
							UID:         idToken.UID,
							Email:       record.Email,
							DisplayName: record.DisplayName,
							ShortID:     shortIDFromEmail(record.Email),
							Token:       token,
						}
						// Mirror the verified identity locally; a failure
						// here only costs the cache, not the request
						upsert := `
							INSERT INTO users (uid, email, display_name, short_id, token)
							VALUES ($1, $2, $3, $4, $5)
							ON CONFLICT (uid)
							DO UPDATE SET
								email = EXCLUDED.email,
								display_name = EXCLUDED.display_name,
								short_id = EXCLUDED.short_id,
								token = EXCLUDED.token,
								updated_at = NOW()`
						_, _ = postgres.Exec(ctx, upsert, user.UID, user.Email, user.DisplayName, user.ShortID, token)
					}
				}
			}
		}

		if user.UID == "" || user.ShortID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		if userJSON, err := json.Marshal(user); err == nil {
			redisClient.Set(ctx, cacheKey, userJSON, time.Hour)
		}

		// Set identity in context for use in handlers
		c.Set("uid", user.UID)
		c.Set("short_id", user.ShortID)
		c.Next()
	}
}

// shortIDFromEmail derives the human-readable handle from an email address.
func shortIDFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
