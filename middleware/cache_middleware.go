package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hanifahuq/MelloBackend/cache"
	"github.com/hanifahuq/MelloBackend/models"
	"github.com/hanifahuq/MelloBackend/utils"
)

type CachedResponse struct {
	Status      int         `json:"status"`
	ContentType string      `json:"content_type"`
	Body        []byte      `json:"body"`
	Headers     http.Header `json:"headers"`
}

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyLogWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheMiddleware кэширует успешные GET-ответы на время duration,
// с раздельными ключами по пользователю.
func CacheMiddleware(duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		userID := uint(0)
		if userInterface, exists := c.Get("user"); exists {
			if user, ok := userInterface.(models.User); ok {
				userID = user.ID
			}
		}

		cacheKey := fmt.Sprintf("cache:%d:%s?%s", userID, c.Request.URL.Path, c.Request.URL.RawQuery)

		var cachedResponse CachedResponse
		if err := cache.Get(cacheKey, &cachedResponse); err == nil {
			utils.Logger.Info("cache_hit", zap.String("key", cacheKey))
			for key, values := range cachedResponse.Headers {
				for _, value := range values {
					c.Header(key, value)
				}
			}
			c.Header("X-Cache", "HIT")
			c.Data(cachedResponse.Status, cachedResponse.ContentType, cachedResponse.Body)
			c.Abort()
			return
		}

		c.Header("X-Cache", "MISS")

		blw := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			cachedResp := CachedResponse{
				Status:      c.Writer.Status(),
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        blw.body.Bytes(),
				Headers:     c.Writer.Header(),
			}
			if err := cache.Set(cacheKey, cachedResp, duration); err != nil {
				utils.Logger.Warn("cache_set_failed", zap.Error(err), zap.String("key", cacheKey))
			}
		}
	}
}

// InvalidateUserCache сбрасывает все закэшированные GET-ответы пользователя.
func InvalidateUserCache(userID uint) error {
	pattern := fmt.Sprintf("cache:%d:*", userID)
	utils.Logger.Info("invalidating_user_cache", zap.Uint("user_id", userID))
	return cache.DeletePattern(pattern)
}

// RateLimitMiddleware ограничивает частоту запросов через счётчики в Redis.
// Висит на /api/mimi/ask, чтобы не жечь бюджет text-generation API.
func RateLimitMiddleware(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		key := fmt.Sprintf("rate_limit:%s:%s", c.FullPath(), clientIP)

		count, err := cache.IncrementCounter(key, window)
		if err != nil {
			// Redis лёг - пропускаем без лимита, а не валим запрос
			if err != cache.ErrUnavailable {
				utils.Logger.Error("rate_limit_error", zap.Error(err))
			}
			c.Next()
			return
		}

		if count > int64(maxRequests) {
			utils.Logger.Warn("rate_limit_exceeded",
				zap.String("client_ip", clientIP),
				zap.Int64("count", count))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, slow down"})
			return
		}

		c.Next()
	}
}
