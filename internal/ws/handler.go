package ws

import (
	"net/http"

	"webapp_validator/internal/logger"
	"webapp_validator/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// HandleWS upgrades the request and serves verify requests until the peer
// goes away. allowedOrigin "*" accepts any Origin.
func HandleWS(verifier *service.VerifyService, allowedOrigin string, readLimit int64) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" || allowedOrigin == "*" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.WithContext(c.Request.Context()).Warn("ws upgrade error", "error", err)
			return
		}

		client := NewClient(c.Request.Context(), conn, verifier, readLimit)
		client.Run()
	}
}
