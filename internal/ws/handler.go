package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wordrush/wordrush-backend/internal/engine"
	"github.com/wordrush/wordrush-backend/internal/hub"
	"github.com/wordrush/wordrush-backend/internal/lobby"
	"github.com/wordrush/wordrush-backend/internal/types"
)

const maxNameLen = 20

// readTimeout bounds each websocket read so a silently dead connection
// ends the session and starts the grace window promptly.
const readTimeout = 30 * time.Second

// Handler upgrades the connection and runs one client session. The first
// client message must be a lobby-entry intent (createPrivateLobby, join,
// or playWithBots); everything after that flows into the joined lobby's
// inbox.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		s := &session{
			conn:     conn,
			clientID: uuid.NewString(),
			hub:      h,
			log:      log,
		}
		s.run(r.Context())
	}
}

type session struct {
	conn     *websocket.Conn
	clientID string
	hub      *hub.Hub
	lobby    *lobby.Lobby
	outbox   chan types.ServerMessage
	log      *zap.Logger
}

func (s *session) run(ctx context.Context) {
	if !s.enterLobby(ctx) {
		return
	}
	defer func() {
		// Reader gone: report a disconnect so the grace window applies.
		// An explicit leaveLobby already removed the player; the engine
		// treats the repeat as a no-op.
		s.lobby.Inbox() <- lobby.Disconnect{ClientID: s.clientID}
	}()

	writeCtx, writeCancel := context.WithCancel(ctx)
	defer writeCancel()
	go s.writer(writeCtx)

	for {
		var cm types.ClientMessage
		if err := s.read(ctx, &cm); err != nil {
			return
		}

		switch cm.Type {
		case types.MsgSetReady:
			s.lobby.Inbox() <- lobby.SetReady{ClientID: s.clientID, Ready: cm.Ready}
		case types.MsgSubmitWord:
			s.lobby.Inbox() <- lobby.SubmitWord{ClientID: s.clientID, Word: cm.Word}
		case types.MsgChat:
			s.lobby.Inbox() <- lobby.Chat{ClientID: s.clientID, Body: cm.Message}
		case types.MsgReturnToLobby:
			s.lobby.Inbox() <- lobby.ReturnToLobby{ClientID: s.clientID}
		case types.MsgLeaveLobby:
			s.lobby.Inbox() <- lobby.Leave{ClientID: s.clientID}
			return
		default:
			s.send(ctx, types.ServerMessage{Type: types.MsgSubmissionError, Error: "unknown type"})
		}
	}
}

// enterLobby handles the first intent and seats the player. It reports
// whether the session may continue.
func (s *session) enterLobby(ctx context.Context) bool {
	var cm types.ClientMessage
	if err := s.read(ctx, &cm); err != nil {
		return false
	}

	name := strings.TrimSpace(cm.Name)
	if name == "" || len(name) > maxNameLen {
		s.send(ctx, types.ServerMessage{Type: types.MsgJoinError, Error: "invalid name"})
		return false
	}

	var lb *lobby.Lobby
	reply := make(chan *lobby.Lobby, 1)

	switch cm.Type {
	case types.MsgCreatePrivateLobby:
		s.hub.Inbox() <- hub.CreateLobby{Private: true, Reply: reply}
		lb = <-reply
	case types.MsgPlayWithBots:
		count := cm.BotCount
		if count == 0 {
			count = 3
		}
		s.hub.Inbox() <- hub.CreateBotLobby{
			Difficulty: engine.ParseDifficulty(cm.Difficulty),
			Count:      count,
			Reply:      reply,
		}
		lb = <-reply
	case types.MsgJoin:
		if cm.LobbyID != "" {
			s.hub.Inbox() <- hub.GetLobby{Code: strings.ToUpper(cm.LobbyID), Reply: reply}
		} else {
			s.hub.Inbox() <- hub.QuickJoin{Reply: reply}
		}
		lb = <-reply
	default:
		s.send(ctx, types.ServerMessage{Type: types.MsgJoinError, Error: "join first"})
		return false
	}

	if lb == nil {
		s.send(ctx, types.ServerMessage{Type: types.MsgJoinError, Error: "lobby not found"})
		return false
	}

	s.outbox = make(chan types.ServerMessage, 16)
	errReply := make(chan error, 1)
	lb.Inbox() <- lobby.Join{
		ClientID: s.clientID,
		Name:     name,
		Outbox:   s.outbox,
		Reply:    errReply,
	}
	if err := <-errReply; err != nil {
		msgType := types.MsgJoinError
		if errors.Is(err, engine.ErrLobbyFull) {
			msgType = types.MsgLobbyFull
		}
		s.send(ctx, types.ServerMessage{Type: msgType, Error: err.Error()})
		return false
	}

	s.lobby = lb
	return true
}

func (s *session) writer(ctx context.Context) {
	for msg := range s.outbox {
		wctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := s.send(wctx, msg)
		cancel()
		if err != nil {
			return
		}
	}
}

func (s *session) read(ctx context.Context, cm *types.ClientMessage) error {
	rctx, cancel := context.WithTimeout(ctx, readTimeout)
	_, data, err := s.conn.Read(rctx)
	cancel()
	if err != nil {
		// Clean close or network drop: either way the session ends and the
		// deferred Disconnect starts the grace window.
		return err
	}
	if err := json.Unmarshal(data, cm); err != nil {
		*cm = types.ClientMessage{}
	}
	return nil
}

func (s *session) send(ctx context.Context, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Error("marshal server message", zap.Error(err))
		return err
	}
	return s.conn.Write(ctx, websocket.MessageText, payload)
}
