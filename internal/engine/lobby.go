package engine

import (
	"math/rand"
	"time"

	"github.com/wordrush/wordrush-backend/internal/chat"
	"github.com/wordrush/wordrush-backend/internal/dictionary"
	"github.com/wordrush/wordrush-backend/internal/session"
)

// colorPalette is assigned by join order, wrapping when exhausted.
var colorPalette = []string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#9a6324",
}

// Lobby is one isolated game instance. It exclusively owns every map and
// slice below; the snapshot/projection path copies, never aliases.
type Lobby struct {
	ID      string
	Private bool

	status       Status
	letters      []rune
	sessionWords []string

	players   []*Player
	colorSeq  int
	revealed  map[string]map[int]bool    // player id -> revealed word indices
	submitted map[string]map[string]bool // player id -> normalized words scored
	ledger    map[string][]Submission    // player id -> accepted submissions

	disconnected map[string]*DisconnectedRecord // keyed by display name

	chatLog *chat.Log
	filter  *chat.Filter

	// Countdown and reset deadlines are zero when inactive; endsAt is the
	// absolute round end while status is active.
	countdownEndsAt time.Time
	endsAt          time.Time
	resetAt         time.Time
	lastTickSecond  int

	winner *WinnerSummary

	tasks []task

	version int
	cfg     Config
	dict    *dictionary.Dictionary
	builder *session.Builder
	rng     *rand.Rand
}

func NewLobby(id string, private bool, cfg Config, dict *dictionary.Dictionary, builder *session.Builder, filter *chat.Filter, rng *rand.Rand) *Lobby {
	return &Lobby{
		ID:           id,
		Private:      private,
		status:       StatusLobby,
		revealed:     make(map[string]map[int]bool),
		submitted:    make(map[string]map[string]bool),
		ledger:       make(map[string][]Submission),
		disconnected: make(map[string]*DisconnectedRecord),
		chatLog:      chat.NewLog(chat.HistorySize),
		filter:       filter,
		cfg:          cfg,
		dict:         dict,
		builder:      builder,
		rng:          rng,
	}
}

func (l *Lobby) Status() Status { return l.status }

// Player returns the live roster entry for id.
func (l *Lobby) Player(id string) (*Player, bool) {
	for _, p := range l.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

func (l *Lobby) playerByName(name string) (*Player, bool) {
	for _, p := range l.players {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

func (l *Lobby) humanCount() int {
	n := 0
	for _, p := range l.players {
		if !p.IsBot {
			n++
		}
	}
	return n
}

// HasRoom reports whether another player fits under the cap.
func (l *Lobby) HasRoom() bool { return len(l.players) < l.cfg.MaxPlayers }

// ShouldDestroy reports whether nothing keeps this lobby alive: no humans
// on the roster and no disconnected player waiting out a grace period.
func (l *Lobby) ShouldDestroy() bool {
	return l.humanCount() == 0 && len(l.disconnected) == 0
}

// Join adds a player under a fresh transport id. A display name matching a
// disconnected record within its grace window reconnects instead: score,
// streak, and the revealed set carry over under the new id.
func (l *Lobby) Join(id, name string, now time.Time) (*Player, []Event, error) {
	if rec, ok := l.disconnected[name]; ok {
		delete(l.disconnected, name)
		p := rec.Player
		p.ID = id
		l.players = append(l.players, &p)
		l.revealed[id] = rec.Revealed
		l.submitted[id] = make(map[string]bool)
		l.ledger[id] = rec.Submissions
		l.bumpVersion()
		return &p, l.joinEvents(id), nil
	}

	if !l.HasRoom() {
		return nil, nil, ErrLobbyFull
	}
	if _, taken := l.playerByName(name); taken {
		return nil, nil, ErrNameTaken
	}

	p := &Player{
		ID:    id,
		Name:  name,
		Color: colorPalette[l.colorSeq%len(colorPalette)],
	}
	l.colorSeq++
	l.players = append(l.players, p)
	l.revealed[id] = make(map[int]bool)
	l.submitted[id] = make(map[string]bool)
	l.bumpVersion()
	return p, l.joinEvents(id), nil
}

func (l *Lobby) joinEvents(id string) []Event {
	events := []Event{{Type: EvtState}}
	if history := l.chatLog.Messages(); len(history) > 0 {
		events = append(events, Event{Type: EvtChatHistory, PlayerID: id, History: history})
	}
	return events
}

// AddBot seats a simulated player. Bots join ready and stay ready across
// resets.
func (l *Lobby) AddBot(id, name string, diff Difficulty) (*Player, error) {
	if !l.HasRoom() {
		return nil, ErrLobbyFull
	}
	p := &Player{
		ID:         id,
		Name:       name,
		Color:      colorPalette[l.colorSeq%len(colorPalette)],
		Ready:      true,
		IsBot:      true,
		Difficulty: diff,
	}
	l.colorSeq++
	l.players = append(l.players, p)
	l.revealed[id] = make(map[int]bool)
	l.submitted[id] = make(map[string]bool)
	l.bumpVersion()
	return p, nil
}

// Leave removes a player for good: no grace record is kept.
func (l *Lobby) Leave(id string, now time.Time) []Event {
	if _, ok := l.Player(id); !ok {
		return nil
	}
	l.removePlayer(id)
	return l.afterDeparture(now)
}

// Disconnect removes a player from the roster but parks their state in a
// grace record keyed by display name, restored if they rejoin in time.
func (l *Lobby) Disconnect(id string, now time.Time) []Event {
	p, ok := l.Player(id)
	if !ok {
		return nil
	}
	if !p.IsBot {
		name := p.Name
		l.disconnected[name] = &DisconnectedRecord{
			Player:      *p,
			Revealed:    l.revealed[id],
			Submissions: l.ledger[id],
			Deadline:    now.Add(l.cfg.GracePeriod),
		}
		l.schedule(now.Add(l.cfg.GracePeriod), func(now time.Time) []Event {
			rec, ok := l.disconnected[name]
			if !ok || now.Before(rec.Deadline) {
				return nil
			}
			delete(l.disconnected, name)
			if l.ShouldDestroy() {
				return []Event{{Type: EvtDestroyed}}
			}
			return nil
		})
	}
	l.removePlayer(id)
	return l.afterDeparture(now)
}

func (l *Lobby) removePlayer(id string) {
	for i, p := range l.players {
		if p.ID == id {
			l.players = append(l.players[:i], l.players[i+1:]...)
			break
		}
	}
	delete(l.revealed, id)
	delete(l.submitted, id)
	delete(l.ledger, id)
	l.bumpVersion()
}

// afterDeparture re-evaluates the lobby after a leave or disconnect:
// cancel a countdown, abort a humanless round, destroy an empty lobby.
// Any departure during a countdown cancels it, even when everyone left
// behind is still ready; they restart it by readying up again.
func (l *Lobby) afterDeparture(now time.Time) []Event {
	var events []Event

	if l.humanCount() == 0 && (l.status == StatusActive || !l.countdownEndsAt.IsZero()) {
		events = append(events, l.abortRound()...)
	} else if !l.countdownEndsAt.IsZero() {
		events = append(events, l.cancelCountdown()...)
	}

	events = append(events, Event{Type: EvtState})
	if l.ShouldDestroy() {
		events = append(events, Event{Type: EvtDestroyed})
	}
	return events
}

// SetReady flips a player's ready flag. When at least two players are
// seated and all are ready, the countdown starts and the session is built
// immediately so letters can be shown before play begins. Un-readying
// cancels a running countdown.
func (l *Lobby) SetReady(id string, ready bool, now time.Time) ([]Event, error) {
	p, ok := l.Player(id)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if l.status != StatusLobby {
		return []Event{{Type: EvtState}}, nil
	}
	p.Ready = ready
	l.bumpVersion()

	var events []Event
	if ready && l.readyToStart() && l.countdownEndsAt.IsZero() {
		l.countdownEndsAt = now.Add(l.cfg.LobbyCountdown)
		sess := l.builder.Build()
		l.letters = sess.Letters
		l.sessionWords = sess.Words
		secs := int(l.cfg.LobbyCountdown / time.Second)
		events = append(events, Event{Type: EvtLobbyCountdown, Seconds: secondsPtr(secs)})
	} else if !ready && !l.countdownEndsAt.IsZero() {
		events = append(events, l.cancelCountdown()...)
	}
	events = append(events, Event{Type: EvtState})
	return events, nil
}

func (l *Lobby) readyToStart() bool {
	return len(l.players) >= 2 && l.allReady() && l.humanCount() > 0
}

func (l *Lobby) allReady() bool {
	if len(l.players) < 2 {
		return false
	}
	for _, p := range l.players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// cancelCountdown is idempotent: a second call emits nothing.
func (l *Lobby) cancelCountdown() []Event {
	if l.countdownEndsAt.IsZero() {
		return nil
	}
	l.countdownEndsAt = time.Time{}
	l.letters = nil
	l.sessionWords = nil
	l.bumpVersion()
	return []Event{{Type: EvtLobbyCountdown, Seconds: nil}}
}

// ReturnToLobby acknowledges the results screen for one player: their
// ready flag clears and they get a fresh view. The timed reset still moves
// the lobby itself back to the lobby state. Like an explicit unready, it
// cancels a running countdown.
func (l *Lobby) ReturnToLobby(id string) ([]Event, error) {
	p, ok := l.Player(id)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	p.Ready = false
	l.bumpVersion()
	events := l.cancelCountdown()
	return append(events, Event{Type: EvtState}), nil
}

// AppendChat masks the body and sender name, records the message, and
// broadcasts it. Rate limiting happens upstream, per connection.
func (l *Lobby) AppendChat(id, body string) ([]Event, error) {
	p, ok := l.Player(id)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	msg := chat.Message{
		From: l.filter.Mask(p.Name),
		Body: l.filter.Mask(body),
	}
	l.chatLog.Append(msg)
	return []Event{{Type: EvtChatMessage, Chat: msg}}, nil
}

func (l *Lobby) schedule(fireAt time.Time, run func(now time.Time) []Event) {
	l.tasks = append(l.tasks, task{fireAt: fireAt, run: run})
}

func (l *Lobby) bumpVersion() { l.version++ }
