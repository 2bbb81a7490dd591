package ws

import (
	"net/http"
	"strings"

	"shebeka_backend/internal/logger"
	"shebeka_backend/internal/middleware"
	"shebeka_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	manager  *WebSocketManager
	resolver middleware.TokenResolver
	upgrader websocket.Upgrader
}

// NewWebSocketHandler; пустой allowedOrigins разрешает любой origin
func NewWebSocketHandler(manager *WebSocketManager, resolver middleware.TokenResolver, allowedOrigins []string) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	return &WebSocketHandler{
		manager:  manager,
		resolver: resolver,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || allowed["*"] || origin == "" || allowed[origin]
			},
		},
	}
}

// ServeWS godoc
// @Summary      Notification stream
// @Description  Upgrades to a websocket that receives {"type":"notification","data":{...}} events
// @Tags         notifications
// @Param        token  query  string  true  "JWT token"
// @Success      101
// @Failure      401  {object}  apperrors.ErrorResponse
// @Router       /ws [get]
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	if token == "" {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("No token, authorization denied"))
		return
	}

	user, err := h.resolver.ResolveToken(c.Request.Context(), token)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "WebSocket upgrade failed", err)
		return
	}

	client := newClient(h.manager, user.ID, conn)
	if !h.manager.register(client) {
		_ = conn.Close()
		return
	}

	logger.CtxInfo(c.Request.Context(), "WebSocket client connected", "user_id", user.ID)

	go client.writePump()
	go client.readPump()
}
