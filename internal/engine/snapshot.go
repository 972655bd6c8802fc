package engine

import "time"

// PlayerInfo is the public slice of a player carried in snapshots.
type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Score  int    `json:"score"`
	Streak int    `json:"streak"`
	Ready  bool   `json:"ready"`
	IsBot  bool   `json:"isBot"`
}

// Snapshot is a versioned value copy of everything the projector needs.
// Nothing in it aliases lobby-owned maps, so it can cross the actor
// boundary safely.
type Snapshot struct {
	Version          int
	ID               string
	Status           Status
	Letters          []string
	SessionWords     []string
	Players          []PlayerInfo
	Revealed         map[string][]int
	Ledger           map[string][]Submission
	TimeLeft         int
	CountdownSeconds *int
	ResetSeconds     *int
	Winner           *WinnerSummary
}

func (l *Lobby) Snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		Version:      l.version,
		ID:           l.ID,
		Status:       l.status,
		SessionWords: append([]string(nil), l.sessionWords...),
		Revealed:     make(map[string][]int, len(l.revealed)),
		Ledger:       make(map[string][]Submission, len(l.ledger)),
	}

	for _, r := range l.letters {
		snap.Letters = append(snap.Letters, string(r))
	}
	for _, p := range l.players {
		snap.Players = append(snap.Players, PlayerInfo{
			ID:     p.ID,
			Name:   p.Name,
			Color:  p.Color,
			Score:  p.Score,
			Streak: p.Streak.Count,
			Ready:  p.Ready,
			IsBot:  p.IsBot,
		})
	}
	for id, set := range l.revealed {
		indices := make([]int, 0, len(set))
		for i := range set {
			indices = append(indices, i)
		}
		snap.Revealed[id] = indices
	}
	for id, subs := range l.ledger {
		snap.Ledger[id] = append([]Submission(nil), subs...)
	}

	if l.status == StatusActive {
		snap.TimeLeft = secondsUntil(l.endsAt, now)
	}
	if !l.countdownEndsAt.IsZero() {
		snap.CountdownSeconds = secondsPtr(secondsUntil(l.countdownEndsAt, now))
	}
	if l.status == StatusEnded {
		snap.ResetSeconds = secondsPtr(secondsUntil(l.resetAt, now))
		if l.winner != nil {
			w := *l.winner
			snap.Winner = &w
		}
	}
	return snap
}
