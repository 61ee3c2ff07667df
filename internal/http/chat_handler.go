package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"companion-chat/internal/repository"
	"companion-chat/internal/service"
)

// DefaultUserID es la clave de sesion usada por la API de un solo usuario.
const DefaultUserID = "default_user"

// ChatHandler expone el pipeline de respuesta por HTTP.
type ChatHandler struct {
	logger   *zap.Logger
	composer *service.ResponseComposer
	userID   string
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, composer *service.ResponseComposer) *ChatHandler {
	return &ChatHandler{logger: logger, composer: composer, userID: DefaultUserID}
}

// PostMessage maneja POST /api/chat/message.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid post message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	turn, err := h.composer.Handle(c.Request.Context(), h.userID, req.Message)
	if errors.Is(err, service.ErrEmptyMessage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		// Solo llega aca si el request se cancelo; se responde igual con texto de respaldo.
		h.logger.Error("chat turn failed", zap.Error(err), zap.String("request_id", c.GetString("request_id")))
		c.JSON(http.StatusOK, gin.H{"response": h.composer.FallbackReply()})
		return
	}

	h.logger.Debug("chat turn",
		zap.String("outcome", turn.Outcome),
		zap.String("emotion", string(turn.Emotion)),
		zap.String("request_id", c.GetString("request_id")),
	)
	c.JSON(http.StatusOK, gin.H{"response": turn.Reply})
}

// HealthHandler reporta el estado del proceso.
type HealthHandler struct {
	sessions repository.SessionStore
}

func NewHealthHandler(sessions repository.SessionStore) *HealthHandler {
	return &HealthHandler{sessions: sessions}
}

// Health maneja GET /healthz.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.sessions.Len()})
}
