package types

import (
	"github.com/wordrush/wordrush-backend/internal/chat"
	"github.com/wordrush/wordrush-backend/internal/view"
)

type ClientMessage struct {
	Type       string `json:"type"`
	Name       string `json:"name,omitempty"`
	LobbyID    string `json:"lobbyId,omitempty"`
	Ready      bool   `json:"ready,omitempty"`
	Word       string `json:"word,omitempty"`
	Message    string `json:"message,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	BotCount   int    `json:"botCount,omitempty"`
}

type ServerMessage struct {
	Type        string           `json:"type"`
	State       *view.PlayerView `json:"state,omitempty"`
	TimeLeft    *int             `json:"timeLeft,omitempty"`
	Seconds     *int             `json:"seconds,omitempty"`
	Chat        *chat.Message    `json:"chat,omitempty"`
	ChatHistory []chat.Message   `json:"chatHistory,omitempty"`
	Word        string           `json:"word,omitempty"`
	Points      *int             `json:"points,omitempty"`
	Until       *int64           `json:"until,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// Server message type tags.
const (
	MsgState              = "state"
	MsgTick               = "tick"
	MsgLobbyCountdown     = "lobbyCountdown"
	MsgResetCountdown     = "resetCountdown"
	MsgChatMessage        = "chatMessage"
	MsgChatHistory        = "chatHistory"
	MsgSubmissionAccepted = "submissionAccepted"
	MsgSubmissionError    = "submissionError"
	MsgJoinError          = "joinError"
	MsgLobbyFull          = "lobbyFull"
	MsgChatBlocked        = "chatBlocked"
)

// Client message type tags.
const (
	MsgCreatePrivateLobby = "createPrivateLobby"
	MsgJoin               = "join"
	MsgPlayWithBots       = "playWithBots"
	MsgSetReady           = "setReady"
	MsgSubmitWord         = "submitWord"
	MsgChat               = "chatMessage"
	MsgReturnToLobby      = "returnToLobby"
	MsgLeaveLobby         = "leaveLobby"
)
