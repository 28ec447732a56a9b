package handlers

import (
	"net/http"
	"time"

	"memehub/internal/engine/actors"
)

type healthResponse struct {
	Status     string    `json:"status"`
	Memes      int       `json:"memes"`
	Comments   int       `json:"comments"`
	Version    uint64    `json:"version"`
	Listeners  int       `json:"listeners"`
	Uptime     string    `json:"uptime,omitempty"`
	ServerTime time.Time `json:"serverTime"`
}

// HandleHealth handles health check requests
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.ask(s.Engine.QueryActor(), &actors.GetCountsMsg{})
		if err != nil {
			s.respondError(w, err)
			return
		}
		counts := result.(*actors.Counts)

		resp := healthResponse{
			Status:     "healthy",
			Memes:      counts.Memes,
			Comments:   counts.Comments,
			Version:    counts.Version,
			ServerTime: s.now().UTC(),
		}
		if s.Hub != nil {
			resp.Listeners = s.Hub.Connected()
		}
		if s.Metrics != nil {
			resp.Uptime = s.Metrics.Uptime().Round(time.Second).String()
		}
		s.respondJSON(w, http.StatusOK, resp)
	}
}
