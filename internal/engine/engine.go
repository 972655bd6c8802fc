// Package engine owns one lobby's state machine: roster, round lifecycle,
// word submission, bot scheduling, and disconnect grace handling. All
// methods are synchronous and take the current time as a parameter, so the
// machine can be driven deterministically in tests. The actor layer in
// internal/lobby serializes calls and dispatches the emitted events.
package engine

import (
	"errors"
	"time"

	"github.com/wordrush/wordrush-backend/internal/chat"
	"github.com/wordrush/wordrush-backend/internal/scoring"
)

var ErrLobbyFull = errors.New("lobby is full")
var ErrNameTaken = errors.New("name already in use")
var ErrPlayerNotFound = errors.New("player not found")
var ErrRoundNotActive = errors.New("round not active")
var ErrWordTooShort = errors.New("word too short")
var ErrNotAWord = errors.New("not a word")
var ErrLettersUnavailable = errors.New("letters unavailable")
var ErrAlreadyRevealed = errors.New("word already revealed")
var ErrAlreadySubmitted = errors.New("word already submitted")

type Status string

const (
	StatusLobby  Status = "lobby"
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

type Player struct {
	ID     string
	Name   string
	Color  string
	Score  int
	Streak scoring.Streak
	Ready  bool

	// AllClear is set once the per-round all-hidden-words bonus has been
	// granted, so it cannot be granted twice.
	AllClear bool

	IsBot      bool
	Difficulty Difficulty
}

// Submission is one accepted word and the points it earned, kept for the
// end-of-round top-words display.
type Submission struct {
	Word   string `json:"word"`
	Points int    `json:"points"`
}

// DisconnectedRecord preserves a departed player for the grace window.
// It is keyed by display name: the transport id changes on reconnect, the
// name is the durable identity.
type DisconnectedRecord struct {
	Player      Player
	Revealed    map[int]bool
	Submissions []Submission
	Deadline    time.Time
}

type WinnerSummary struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Config carries the timing and capacity knobs a lobby runs with.
type Config struct {
	RoundDuration  time.Duration
	LobbyCountdown time.Duration
	ResetDelay     time.Duration
	GracePeriod    time.Duration
	MaxPlayers     int
}

type EventType string

const (
	// EvtState tells the actor to re-project and fan out per-player views.
	EvtState EventType = "State"
	// EvtTick carries the remaining round seconds.
	EvtTick EventType = "Tick"
	// EvtLobbyCountdown and EvtResetCountdown carry the countdown seconds,
	// or nil once the countdown is cancelled.
	EvtLobbyCountdown EventType = "LobbyCountdown"
	EvtResetCountdown EventType = "ResetCountdown"
	EvtChatMessage    EventType = "ChatMessage"
	EvtChatHistory    EventType = "ChatHistory"
	EvtSubmissionOK   EventType = "SubmissionAccepted"
	// EvtRoundCompleted fires only on a normal round end, never on an
	// abort, and drives the rounds-played counter.
	EvtRoundCompleted EventType = "RoundCompleted"
	// EvtDestroyed tells the actor to tear the lobby down.
	EvtDestroyed EventType = "Destroyed"
)

// Event is what the state machine emits for the actor layer to dispatch.
// A non-empty PlayerID targets a single connection; otherwise the event is
// lobby-wide.
type Event struct {
	Type     EventType
	PlayerID string
	Word     string
	Points   int
	TimeLeft int
	Seconds  *int
	Chat     chat.Message
	History  []chat.Message
}

// task is one scheduled action on the lobby's internal queue: bot
// submission attempts and grace-period expiries. The queue is drained by
// Tick, so there is exactly one scheduler per lobby.
type task struct {
	fireAt time.Time
	bot    bool // bot tasks are dropped on round end or abort
	run    func(now time.Time) []Event
}

func secondsPtr(n int) *int { return &n }
