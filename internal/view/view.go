// Package view turns a lobby snapshot into the personalized state one
// player is allowed to see. Projection is pure: word visibility is
// per-player until the round ends, so state fan-out is one projection per
// connection rather than a single broadcast.
package view

import (
	"sort"

	"github.com/wordrush/wordrush-backend/internal/engine"
)

// TopWordCount is how many of a player's best submissions the end-of-round
// view shows.
const TopWordCount = 5

// WordCard is one hidden-word slot as seen by one player: the literal word
// only appears once that player has revealed it or the round is over.
type WordCard struct {
	Index    int    `json:"index"`
	Length   int    `json:"length"`
	Revealed bool   `json:"revealed"`
	Word     string `json:"word,omitempty"`
}

type PlayerView struct {
	Version          int                   `json:"version"`
	LobbyID          string                `json:"lobbyId"`
	You              string                `json:"you"`
	Status           engine.Status         `json:"status"`
	Letters          []string              `json:"letters,omitempty"`
	TimeLeft         int                   `json:"timeLeft"`
	CountdownSeconds *int                  `json:"lobbyCountdown,omitempty"`
	ResetSeconds     *int                  `json:"resetCountdown,omitempty"`
	Players          []engine.PlayerInfo   `json:"players"`
	Cards            []WordCard            `json:"words"`
	TopWords         []engine.Submission   `json:"topWords,omitempty"`
	Winner           *engine.WinnerSummary `json:"winner,omitempty"`
}

// Project computes playerID's view of snap.
func Project(snap engine.Snapshot, playerID string) PlayerView {
	v := PlayerView{
		Version:          snap.Version,
		LobbyID:          snap.ID,
		You:              playerID,
		Status:           snap.Status,
		Letters:          snap.Letters,
		TimeLeft:         snap.TimeLeft,
		CountdownSeconds: snap.CountdownSeconds,
		ResetSeconds:     snap.ResetSeconds,
		Players:          snap.Players,
		Winner:           snap.Winner,
	}

	mine := make(map[int]bool, len(snap.Revealed[playerID]))
	for _, i := range snap.Revealed[playerID] {
		mine[i] = true
	}

	ended := snap.Status == engine.StatusEnded
	for i, word := range snap.SessionWords {
		card := WordCard{Index: i, Length: len(word)}
		if mine[i] || ended {
			card.Revealed = true
			card.Word = word
		}
		v.Cards = append(v.Cards, card)
	}

	if ended {
		v.TopWords = topWords(snap.Ledger[playerID])
	}
	return v
}

// topWords returns the highest-scoring submissions, best first.
func topWords(subs []engine.Submission) []engine.Submission {
	out := append([]engine.Submission(nil), subs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	if len(out) > TopWordCount {
		out = out[:TopWordCount]
	}
	return out
}
