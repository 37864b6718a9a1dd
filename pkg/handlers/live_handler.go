package handlers

import (
	"github.com/fasthttp/websocket"
	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/backsoul/quizgate/pkg/models"
	"github.com/backsoul/quizgate/pkg/services"
	websocketHub "github.com/backsoul/quizgate/pkg/websocket"
)

// LiveHandler expone el estado del quiz por websocket
type LiveHandler struct {
	quizService *services.QuizService
	hub         *websocketHub.Hub
	log         *zap.Logger
}

func NewLiveHandler(quizService *services.QuizService, hub *websocketHub.Hub, log *zap.Logger) *LiveHandler {
	return &LiveHandler{
		quizService: quizService,
		hub:         hub,
		log:         log,
	}
}

var upgrader = websocket.FastHTTPUpgrader{
	CheckOrigin: func(ctx *fasthttp.RequestCtx) bool {
		return true
	},
}

// HandleWebSocket maneja las conexiones WebSocket
func (h *LiveHandler) HandleWebSocket(ctx *fasthttp.RequestCtx) {
	status, statusErr := h.quizService.Status(ctx)

	err := upgrader.Upgrade(ctx, func(ws *websocket.Conn) {
		defer ws.Close()

		// Enviar estado actual antes de registrar para no escribir en paralelo con el hub
		if statusErr == nil {
			data, _ := json.Marshal(websocketHub.Message{Type: models.MessageQuizState, Data: status})
			if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}

		h.hub.Register(ws)
		defer h.hub.Unregister(ws)

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				h.log.Debug("🔌 WebSocket cerrado", zap.Error(err))
				break
			}
		}
	})

	if err != nil {
		h.log.Warn("⚠️ Error upgrading to WebSocket", zap.Error(err))
	}
}
