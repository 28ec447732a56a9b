package handlers

import (
	"net/http"

	"memehub/internal/websocket"

	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func (s *Server) upgrader() *ws.Upgrader {
	return &ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range s.AllowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}
}

// HandleWebSocket handles GET /ws. Listeners receive every mutation event as
// JSON; ?meme=<id> narrows the stream to one meme.
func (s *Server) HandleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Hub == nil {
			http.Error(w, "live updates are disabled", http.StatusServiceUnavailable)
			return
		}
		conn, err := s.upgrader().Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error.
			s.Logger.Debug("websocket upgrade failed", zap.Error(err))
			return
		}
		websocket.NewClient(s.Hub, conn, r.URL.Query().Get("meme")).Serve()
	}
}
