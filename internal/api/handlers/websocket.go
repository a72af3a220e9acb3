package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/dmcalister/gridiron/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub *services.LiveHub
}

func NewWebSocketHandler(hub *services.LiveHub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// Connect upgrades the request and subscribes the client to live league events
func (h *WebSocketHandler) Connect(c *gin.Context) {
	leagueID, _ := strconv.ParseUint(c.DefaultQuery("league_id", "1"), 10, 32)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	h.hub.NewClient(conn, uint(leagueID))
}
