// Package lobby runs one game lobby as an actor: a goroutine owning the
// engine state, fed by a typed message inbox and a short ticker. Handlers
// run to completion, so no lock guards the engine.
package lobby

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wordrush/wordrush-backend/internal/chat"
	"github.com/wordrush/wordrush-backend/internal/engine"
	"github.com/wordrush/wordrush-backend/internal/stats"
	"github.com/wordrush/wordrush-backend/internal/types"
	"github.com/wordrush/wordrush-backend/internal/view"
)

const tickInterval = 200 * time.Millisecond

type Msg interface{ isLobbyMsg() }

type Join struct {
	ClientID string
	Name     string
	Outbox   chan types.ServerMessage
	Reply    chan error
}

// Leave is an explicit departure: no grace record is kept.
type Leave struct{ ClientID string }

// Disconnect is a transport drop: the player's state is parked for the
// grace window.
type Disconnect struct{ ClientID string }

type SetReady struct {
	ClientID string
	Ready    bool
}

type SubmitWord struct {
	ClientID string
	Word     string
}

type Chat struct {
	ClientID string
	Body     string
}

type ReturnToLobby struct{ ClientID string }

type GetState struct{ Reply chan View }

type Shutdown struct{}

func (Join) isLobbyMsg()          {}
func (Leave) isLobbyMsg()         {}
func (Disconnect) isLobbyMsg()    {}
func (SetReady) isLobbyMsg()      {}
func (SubmitWord) isLobbyMsg()    {}
func (Chat) isLobbyMsg()          {}
func (ReturnToLobby) isLobbyMsg() {}
func (GetState) isLobbyMsg()      {}
func (Shutdown) isLobbyMsg()      {}

// View reflects internal state for the hub and for tests without racing
// the actor.
type View struct {
	NumClients int
	Snapshot   engine.Snapshot
}

type Lobby struct {
	Code string

	private  bool
	inbox    chan Msg
	eng      *engine.Lobby
	clients  map[string]chan types.ServerMessage
	limiters map[string]*chat.Limiter

	chatBurst  int
	chatWindow time.Duration

	counter   stats.Counter
	log       *zap.Logger
	onDestroy func(code string)

	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, eng *engine.Lobby, counter stats.Counter, chatBurst int, chatWindow time.Duration, log *zap.Logger, onDestroy func(code string)) *Lobby {
	ctx, cancel := context.WithCancel(parent)
	l := &Lobby{
		Code:       eng.ID,
		private:    eng.Private,
		inbox:      make(chan Msg, 64),
		eng:        eng,
		clients:    make(map[string]chan types.ServerMessage),
		limiters:   make(map[string]*chat.Limiter),
		chatBurst:  chatBurst,
		chatWindow: chatWindow,
		counter:    counter,
		log:        log.With(zap.String("lobby", eng.ID)),
		onDestroy:  onDestroy,
		ctx:        ctx,
		cancel:     cancel,
	}
	go l.loop()
	return l
}

// Inbox exposes the message channel to the ws layer and tests.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

// Private reports whether quick-join matchmaking should skip this lobby.
// Set at creation, never mutated, so it is safe to read from any goroutine.
func (l *Lobby) Private() bool { return l.private }

func (l *Lobby) loop() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case now := <-ticker.C:
			if l.dispatch(now, l.eng.Tick(now)) {
				return
			}

		case m := <-l.inbox:
			if l.handle(m) {
				return
			}
		}
	}
}

// handle processes one message; true means the lobby is gone.
func (l *Lobby) handle(m Msg) bool {
	now := time.Now()

	switch msg := m.(type) {
	case Join:
		_, events, err := l.eng.Join(msg.ClientID, msg.Name, now)
		if err != nil {
			msg.Reply <- err
			return false
		}
		l.clients[msg.ClientID] = msg.Outbox
		l.limiters[msg.ClientID] = chat.NewLimiter(l.chatBurst, l.chatWindow)
		msg.Reply <- nil
		return l.dispatch(now, events)

	case Leave:
		l.dropClient(msg.ClientID)
		return l.dispatch(now, l.eng.Leave(msg.ClientID, now))

	case Disconnect:
		l.dropClient(msg.ClientID)
		return l.dispatch(now, l.eng.Disconnect(msg.ClientID, now))

	case SetReady:
		events, err := l.eng.SetReady(msg.ClientID, msg.Ready, now)
		if err != nil {
			return false
		}
		return l.dispatch(now, events)

	case SubmitWord:
		events, err := l.eng.SubmitWord(msg.ClientID, msg.Word, now)
		done := l.dispatch(now, events)
		if err != nil {
			l.sendTo(msg.ClientID, types.ServerMessage{
				Type:  types.MsgSubmissionError,
				Error: err.Error(),
			})
		}
		return done

	case Chat:
		return l.handleChat(msg, now)

	case ReturnToLobby:
		events, err := l.eng.ReturnToLobby(msg.ClientID)
		if err != nil {
			return false
		}
		return l.dispatch(now, events)

	case GetState:
		msg.Reply <- View{NumClients: len(l.clients), Snapshot: l.eng.Snapshot(now)}
		return false

	case Shutdown:
		l.shutdown()
		return true
	}
	return false
}

func (l *Lobby) handleChat(msg Chat, now time.Time) bool {
	lim, ok := l.limiters[msg.ClientID]
	if !ok {
		return false
	}
	if allowed, wait := lim.Allow(); !allowed {
		secs := int((wait + time.Second - 1) / time.Second)
		until := now.Add(wait).UnixMilli()
		l.sendTo(msg.ClientID, types.ServerMessage{
			Type:    types.MsgChatBlocked,
			Seconds: &secs,
			Until:   &until,
		})
		return false
	}
	events, err := l.eng.AppendChat(msg.ClientID, msg.Body)
	if err != nil {
		return false
	}
	return l.dispatch(now, events)
}

// dispatch fans engine events out to connections. Multiple EvtState in one
// batch collapse into a single per-player projection pass. The return
// value reports whether the lobby destroyed itself.
func (l *Lobby) dispatch(now time.Time, events []engine.Event) bool {
	stateNeeded := false
	destroyed := false

	for _, ev := range events {
		switch ev.Type {
		case engine.EvtState:
			stateNeeded = true

		case engine.EvtTick:
			tl := ev.TimeLeft
			l.broadcast(types.ServerMessage{Type: types.MsgTick, TimeLeft: &tl})

		case engine.EvtLobbyCountdown:
			l.broadcast(types.ServerMessage{Type: types.MsgLobbyCountdown, Seconds: ev.Seconds})

		case engine.EvtResetCountdown:
			l.broadcast(types.ServerMessage{Type: types.MsgResetCountdown, Seconds: ev.Seconds})

		case engine.EvtChatMessage:
			m := ev.Chat
			l.broadcast(types.ServerMessage{Type: types.MsgChatMessage, Chat: &m})

		case engine.EvtChatHistory:
			l.sendTo(ev.PlayerID, types.ServerMessage{Type: types.MsgChatHistory, ChatHistory: ev.History})

		case engine.EvtSubmissionOK:
			pts := ev.Points
			l.sendTo(ev.PlayerID, types.ServerMessage{
				Type:   types.MsgSubmissionAccepted,
				Word:   ev.Word,
				Points: &pts,
			})

		case engine.EvtRoundCompleted:
			total, err := l.counter.Increment()
			if err != nil {
				l.log.Warn("rounds-played increment failed", zap.Error(err))
			} else {
				l.log.Info("round completed", zap.Int64("totalRounds", total))
			}

		case engine.EvtDestroyed:
			destroyed = true
		}
	}

	if stateNeeded {
		snap := l.eng.Snapshot(now)
		for id := range l.clients {
			pv := view.Project(snap, id)
			l.sendTo(id, types.ServerMessage{Type: types.MsgState, State: &pv})
		}
	}

	if destroyed {
		l.log.Info("lobby destroyed")
		if l.onDestroy != nil {
			l.onDestroy(l.Code)
		}
		l.shutdown()
		return true
	}
	return false
}

func (l *Lobby) broadcast(msg types.ServerMessage) {
	for id := range l.clients {
		l.sendTo(id, msg)
	}
}

// sendTo drops a client whose outbox is full rather than blocking the
// actor; the dropped connection then counts as a disconnect so the grace
// window applies.
func (l *Lobby) sendTo(id string, msg types.ServerMessage) {
	ch, ok := l.clients[id]
	if !ok {
		return
	}
	select {
	case ch <- msg:
	default:
		l.log.Warn("dropping slow client", zap.String("client", id))
		l.dropClient(id)
		go func() { l.inbox <- Disconnect{ClientID: id} }()
	}
}

func (l *Lobby) dropClient(id string) {
	if ch, ok := l.clients[id]; ok {
		close(ch)
		delete(l.clients, id)
	}
	delete(l.limiters, id)
}

func (l *Lobby) shutdown() {
	for id, ch := range l.clients {
		close(ch)
		delete(l.clients, id)
	}
	l.cancel()
}
