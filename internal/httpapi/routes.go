package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/wordrush/wordrush-backend/internal/hub"
	"github.com/wordrush/wordrush-backend/internal/stats"
	"github.com/wordrush/wordrush-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, counter stats.Counter, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Post("/lobbies", CreateLobby(h))
	r.Get("/stats", Stats(counter))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))
	return r
}
