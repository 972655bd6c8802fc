package engine

import (
	"time"

	"github.com/wordrush/wordrush-backend/internal/scoring"
)

// Tick advances every time-driven concern: the scheduled task queue, the
// lobby countdown, the active round clock, and the post-round reset. The
// actor calls this on a short interval; per-second events are only emitted
// when the displayed second changes.
func (l *Lobby) Tick(now time.Time) []Event {
	events := l.drainTasks(now)

	if !l.countdownEndsAt.IsZero() {
		if remaining := secondsUntil(l.countdownEndsAt, now); remaining <= 0 {
			events = append(events, l.onCountdownExpire(now)...)
		} else if remaining != l.lastTickSecond {
			l.lastTickSecond = remaining
			events = append(events, Event{Type: EvtLobbyCountdown, Seconds: secondsPtr(remaining)})
		}
		return events
	}

	switch l.status {
	case StatusActive:
		if remaining := secondsUntil(l.endsAt, now); remaining <= 0 {
			events = append(events, l.onRoundExpire(now)...)
		} else if remaining != l.lastTickSecond {
			l.lastTickSecond = remaining
			events = append(events, Event{Type: EvtTick, TimeLeft: remaining})
		}
	case StatusEnded:
		if remaining := secondsUntil(l.resetAt, now); remaining <= 0 {
			events = append(events, l.onResetExpire(now)...)
		} else if remaining != l.lastTickSecond {
			l.lastTickSecond = remaining
			events = append(events, Event{Type: EvtResetCountdown, Seconds: secondsPtr(remaining)})
		}
	}
	return events
}

// drainTasks runs every task whose deadline has passed. Each task
// re-validates the state it touches: the lobby may have moved on between
// scheduling and firing.
func (l *Lobby) drainTasks(now time.Time) []Event {
	var events []Event
	var pending []task
	for _, t := range l.tasks {
		if t.fireAt.After(now) {
			pending = append(pending, t)
			continue
		}
		events = append(events, t.run(now)...)
	}
	l.tasks = pending
	return events
}

func (l *Lobby) dropBotTasks() {
	var pending []task
	for _, t := range l.tasks {
		if !t.bot {
			pending = append(pending, t)
		}
	}
	l.tasks = pending
}

// onCountdownExpire starts the round: scores zeroed, an absolute end
// timestamp recorded, bots scheduled. Letters and session words were
// already built when the countdown started.
func (l *Lobby) onCountdownExpire(now time.Time) []Event {
	l.countdownEndsAt = time.Time{}
	l.status = StatusActive
	l.endsAt = now.Add(l.cfg.RoundDuration)
	l.lastTickSecond = 0
	l.winner = nil

	for _, p := range l.players {
		p.Score = 0
		p.Streak = scoring.Streak{}
		p.AllClear = false
		l.revealed[p.ID] = make(map[int]bool)
		l.submitted[p.ID] = make(map[string]bool)
		l.ledger[p.ID] = nil
	}

	l.scheduleBots(now)
	l.bumpVersion()

	secs := int(l.cfg.RoundDuration / time.Second)
	return []Event{
		{Type: EvtState},
		{Type: EvtTick, TimeLeft: secs},
	}
}

// onRoundExpire ends a completed round: winner snapshot, reset timer,
// bot tasks dropped. This is the only path that counts toward the global
// rounds-played total.
func (l *Lobby) onRoundExpire(now time.Time) []Event {
	l.status = StatusEnded
	l.endsAt = time.Time{}
	l.resetAt = now.Add(l.cfg.ResetDelay)
	l.lastTickSecond = 0
	l.winner = l.computeWinner()
	l.dropBotTasks()
	l.bumpVersion()

	secs := int(l.cfg.ResetDelay / time.Second)
	return []Event{
		{Type: EvtRoundCompleted},
		{Type: EvtState},
		{Type: EvtResetCountdown, Seconds: secondsPtr(secs)},
	}
}

// computeWinner picks the highest score; ties resolve to the earliest
// joiner and draw detection is left to the client.
func (l *Lobby) computeWinner() *WinnerSummary {
	var best *Player
	for _, p := range l.players {
		if best == nil || p.Score > best.Score {
			best = p
		}
	}
	if best == nil {
		return nil
	}
	return &WinnerSummary{Name: best.Name, Score: best.Score}
}

// onResetExpire returns the lobby to its idle state. Humans must ready up
// again; bots stay ready so a bot game restarts as soon as the human does.
func (l *Lobby) onResetExpire(now time.Time) []Event {
	l.clearRound()
	l.bumpVersion()

	events := []Event{
		{Type: EvtResetCountdown, Seconds: nil},
		{Type: EvtState},
	}
	if l.ShouldDestroy() {
		events = append(events, Event{Type: EvtDestroyed})
	}
	return events
}

// abortRound cancels an active or counting-down round without recording a
// completion, used when the last human leaves mid-round.
func (l *Lobby) abortRound() []Event {
	var events []Event
	if !l.countdownEndsAt.IsZero() {
		events = append(events, Event{Type: EvtLobbyCountdown, Seconds: nil})
	}
	l.clearRound()
	l.bumpVersion()
	return events
}

// clearRound wipes all per-round state and moves the lobby back to idle.
func (l *Lobby) clearRound() {
	l.status = StatusLobby
	l.letters = nil
	l.sessionWords = nil
	l.countdownEndsAt = time.Time{}
	l.endsAt = time.Time{}
	l.resetAt = time.Time{}
	l.lastTickSecond = 0
	l.winner = nil
	l.dropBotTasks()

	for _, p := range l.players {
		p.Score = 0
		p.Streak = scoring.Streak{}
		p.AllClear = false
		p.Ready = p.IsBot
		l.revealed[p.ID] = make(map[int]bool)
		l.submitted[p.ID] = make(map[string]bool)
		l.ledger[p.ID] = nil
	}
}

func secondsUntil(deadline, now time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
