package events

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	ws "github.com/gokatarajesh/trivia-api/pkg/http/ws"
)

// FeedHandler serves the live question feed at GET /ws/questions.
type FeedHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewFeedHandler builds the websocket endpoint. Origins are not checked: the API
// itself allows every origin.
func NewFeedHandler(hub *ws.Hub, logger zerolog.Logger) *FeedHandler {
	return &FeedHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.With().Str("component", "question_feed").Logger(),
	}
}

// HandleWebSocket upgrades the request and streams question events until the client leaves.
func (f *FeedHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := ws.NewConnection(conn, f.logger)
	id := f.hub.Register(c)
	go c.WritePump()

	c.ReadPump(func(msg ws.Message) error {
		if msg.Type == ws.TypePing {
			return c.Send(ws.Message{Type: ws.TypePong, RequestID: msg.RequestID})
		}
		return nil
	})
	f.hub.Unregister(id)
}
