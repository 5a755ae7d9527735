package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	LoginMaxAttempts = 5
	LoginCooldown    = 15 * time.Minute
)

// LoginRateLimit limite les tentatives de connexion par identifiant.
// Sans client Redis, le middleware laisse tout passer.
func LoginRateLimit(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		username := loginUsername(c)
		if username == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "login_attempts:" + username
		cooldownKey := "login_cooldown:" + username

		if rdb.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := rdb.TTL(ctx, cooldownKey).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de tentatives échouées. Réessayez dans %d minutes", int(ttl.Minutes())+1),
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		attempts, _ := rdb.Get(ctx, key).Int()
		if attempts >= LoginMaxAttempts {
			rdb.Set(ctx, cooldownKey, "1", LoginCooldown)
			rdb.Del(ctx, key)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de tentatives échouées. Compte bloqué pendant %d minutes", int(LoginCooldown.Minutes())),
				"retry_after": int(LoginCooldown.Seconds()),
			})
			c.Abort()
			return
		}

		// tentatives restantes, celle-ci comprise
		c.Header("X-RateLimit-Remaining", strconv.Itoa(LoginMaxAttempts-attempts))
		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			rdb.Incr(ctx, key)
			rdb.Expire(ctx, key, LoginCooldown)
		case http.StatusOK:
			rdb.Del(ctx, key, cooldownKey)
		}
	}
}

// loginUsername lit l'identifiant sans consommer le corps de la requête.
func loginUsername(c *gin.Context) string {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return ""
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		var input struct {
			Username string `json:"username"`
		}
		if err := json.Unmarshal(body, &input); err != nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(input.Username))
	}
	return strings.ToLower(strings.TrimSpace(c.PostForm("username")))
}
