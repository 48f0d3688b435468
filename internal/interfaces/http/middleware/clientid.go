package middleware

import (
	"strings"

	"z-copy-ai-api/internal/domain/service"
	"z-copy-ai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	// ClientIDHeader 调用方标识头，用于限流与用量归属
	ClientIDHeader = "X-Client-ID"
)

// ClientID 调用方标识注入中间件。
// 未携带标识的请求归入 anonymous，不做拒绝。
func ClientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := strings.TrimSpace(c.GetHeader(ClientIDHeader))
		if clientID == "" {
			clientID = "anonymous"
		}

		c.Set("client_id", clientID)

		ctx := service.WithClient(c.Request.Context(), clientID)
		ctx = logger.WithContext(ctx, logger.ClientIDKey, clientID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
