// Package hub owns the lobby registry. Like the lobbies it manages, the
// hub is an actor: one goroutine, one inbox, no shared maps.
package hub

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wordrush/wordrush-backend/internal/chat"
	"github.com/wordrush/wordrush-backend/internal/config"
	"github.com/wordrush/wordrush-backend/internal/dictionary"
	"github.com/wordrush/wordrush-backend/internal/engine"
	"github.com/wordrush/wordrush-backend/internal/lobby"
	"github.com/wordrush/wordrush-backend/internal/session"
	"github.com/wordrush/wordrush-backend/internal/stats"
)

var botNames = []string{"Robo", "Lexi", "Byte", "Vexa", "Quill", "Zumi", "Pico"}

type HubMsg interface{ isHubMsg() }

type CreateLobby struct {
	Private bool
	Reply   chan *lobby.Lobby
}

// CreateBotLobby builds a private lobby pre-seeded with ready bots.
type CreateBotLobby struct {
	Difficulty engine.Difficulty
	Count      int
	Reply      chan *lobby.Lobby
}

type GetLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

// QuickJoin finds a public lobby with a free seat that is not mid-round,
// creating one when none qualifies.
type QuickJoin struct {
	Reply chan *lobby.Lobby
}

type RemoveLobby struct{ Code string }

type ShutdownHub struct{}

func (CreateLobby) isHubMsg()    {}
func (CreateBotLobby) isHubMsg() {}
func (GetLobby) isHubMsg()       {}
func (QuickJoin) isHubMsg()      {}
func (RemoveLobby) isHubMsg()    {}
func (ShutdownHub) isHubMsg()    {}

type Hub struct {
	inbox   chan HubMsg
	lobbies map[string]*lobby.Lobby

	cfg     config.Config
	dict    *dictionary.Dictionary
	filter  *chat.Filter
	counter stats.Counter
	log     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, cfg config.Config, dict *dictionary.Dictionary, filter *chat.Filter, counter stats.Counter, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		lobbies: make(map[string]*lobby.Lobby),
		cfg:     cfg,
		dict:    dict,
		filter:  filter,
		counter: counter,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateLobby:
				msg.Reply <- h.newLobby(msg.Private)

			case CreateBotLobby:
				msg.Reply <- h.newBotLobby(msg.Difficulty, msg.Count)

			case GetLobby:
				msg.Reply <- h.lobbies[msg.Code] // may be nil

			case QuickJoin:
				if lb := h.findOpenLobby(); lb != nil {
					msg.Reply <- lb
					break
				}
				msg.Reply <- h.newLobby(false)

			case RemoveLobby:
				delete(h.lobbies, msg.Code)

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) newLobby(private bool) *lobby.Lobby {
	code := h.uniqueCode()
	eng := h.newEngine(code, private)
	lb := h.wrap(eng)
	h.lobbies[code] = lb
	h.log.Info("lobby created", zap.String("lobby", code), zap.Bool("private", private))
	return lb
}

func (h *Hub) newBotLobby(diff engine.Difficulty, count int) *lobby.Lobby {
	if count < 1 {
		count = 1
	}
	if count > h.cfg.MaxPlayers-1 {
		count = h.cfg.MaxPlayers - 1
	}

	code := h.uniqueCode()
	eng := h.newEngine(code, true)
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("%s (bot)", botNames[i%len(botNames)])
		if _, err := eng.AddBot(uuid.NewString(), name, diff); err != nil {
			break
		}
	}
	lb := h.wrap(eng)
	h.lobbies[code] = lb
	h.log.Info("bot lobby created",
		zap.String("lobby", code),
		zap.String("difficulty", string(diff)),
		zap.Int("bots", count))
	return lb
}

func (h *Hub) newEngine(code string, private bool) *engine.Lobby {
	rng := mrand.New(mrand.NewSource(time.Now().UnixNano()))
	builder := session.NewBuilder(h.dict, rng)
	cfg := engine.Config{
		RoundDuration:  h.cfg.RoundDuration,
		LobbyCountdown: h.cfg.LobbyCountdown,
		ResetDelay:     h.cfg.ResetDelay,
		GracePeriod:    h.cfg.GracePeriod,
		MaxPlayers:     h.cfg.MaxPlayers,
	}
	return engine.NewLobby(code, private, cfg, h.dict, builder, h.filter, rng)
}

func (h *Hub) wrap(eng *engine.Lobby) *lobby.Lobby {
	return lobby.New(h.ctx, eng, h.counter, h.cfg.ChatBurst, h.cfg.ChatWindow, h.log,
		func(code string) { h.inbox <- RemoveLobby{Code: code} })
}

// findOpenLobby polls public lobbies for a free seat. A lobby that is
// shutting down may never answer, so each query carries a short timeout.
func (h *Hub) findOpenLobby() *lobby.Lobby {
	for _, lb := range h.lobbies {
		reply := make(chan lobby.View, 1)
		lb.Inbox() <- lobby.GetState{Reply: reply}

		select {
		case v := <-reply:
			if lb.Private() || v.Snapshot.Status != engine.StatusLobby ||
				len(v.Snapshot.Players) >= h.cfg.MaxPlayers {
				continue
			}
			return lb
		case <-time.After(250 * time.Millisecond):
		}
	}
	return nil
}

func (h *Hub) uniqueCode() string {
	for {
		code, err := generateCode()
		if err != nil {
			continue
		}
		if _, exists := h.lobbies[code]; !exists {
			return code
		}
	}
}

func generateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

func (h *Hub) shutdown() {
	for _, lb := range h.lobbies {
		lb.Inbox() <- lobby.Shutdown{}
	}
	clear(h.lobbies)
	h.cancel()
}
