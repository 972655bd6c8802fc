package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/wordrush/wordrush-backend/internal/hub"
	"github.com/wordrush/wordrush-backend/internal/lobby"
	"github.com/wordrush/wordrush-backend/internal/stats"
)

// CreateLobby reserves a private lobby and returns its code; the creator
// then joins over the websocket with that code.
func CreateLobby(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan *lobby.Lobby, 1)
		h.Inbox() <- hub.CreateLobby{Private: true, Reply: reply}
		lb := <-reply
		if lb == nil {
			http.Error(w, "failed to create lobby", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			Code string `json:"code"`
		}{Code: lb.Code})
	}
}

// Stats reports the cross-lobby rounds-played total.
func Stats(counter stats.Counter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total, err := counter.Read()
		if err != nil {
			http.Error(w, "stats unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			TotalRounds int64 `json:"totalRounds"`
		}{TotalRounds: total})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
