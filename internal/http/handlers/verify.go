package handlers

import (
	"io"
	"net/http"

	"webapp_validator/internal/domain"
	"webapp_validator/internal/logger"

	"github.com/gin-gonic/gin"
)

const transportHTTP = "http"

// Verify checks the initData in a {"initData": "..."} body. Every outcome,
// including unreadable bodies, is a 200 with a status envelope.
func (h *Handler) Verify(c *gin.Context) {
	if h.MaxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBodyBytes)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.WithContext(c.Request.Context()).Warn("failed to read verify body", "error", err)
		c.JSON(http.StatusOK, h.Verifier.MalformedResponse())
		return
	}

	resp, _ := h.Verifier.HandleBody(c.Request.Context(), body, transportHTTP)
	c.JSON(http.StatusOK, resp)
}

// MethodNotAllowed answers non-POST requests on the verify routes.
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, domain.ErrorResponse("method not allowed"))
}
