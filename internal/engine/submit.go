package engine

import (
	"strings"
	"time"

	"github.com/wordrush/wordrush-backend/internal/dictionary"
	"github.com/wordrush/wordrush-backend/internal/scoring"
)

// SubmitWord runs the full submission protocol for one player. The
// returned events cover any state change; the error, when non-nil, is one
// of the package sentinels. Rejections that indicate a bad guess (too
// short, not a word, unformable, already revealed) cost the flat penalty
// and reset the streak; duplicate-by-you and wrong-state rejections cost
// nothing.
func (l *Lobby) SubmitWord(id, word string, now time.Time) ([]Event, error) {
	if l.status != StatusActive {
		return nil, ErrRoundNotActive
	}
	p, ok := l.Player(id)
	if !ok {
		return nil, ErrPlayerNotFound
	}

	normalized := strings.ToLower(strings.TrimSpace(word))

	if len(normalized) < dictionary.MinWordLen {
		return l.penalize(p), ErrWordTooShort
	}
	if !l.dictHas(normalized) {
		return l.penalize(p), ErrNotAWord
	}
	if !dictionary.CanForm(l.letters, normalized) {
		return l.penalize(p), ErrLettersUnavailable
	}

	if l.submitted[id][normalized] {
		return nil, ErrAlreadySubmitted
	}

	hiddenIdx := l.hiddenIndex(normalized)
	if hiddenIdx >= 0 && l.revealed[id][hiddenIdx] {
		// Reachable after a reconnect: the revealed set survives the grace
		// window, the submission ledger does not.
		return l.penalize(p), ErrAlreadyRevealed
	}

	firstReveal := false
	if hiddenIdx >= 0 {
		l.revealed[id][hiddenIdx] = true
		firstReveal = true
	}
	l.submitted[id][normalized] = true

	points, streak := scoring.ScoreValid(p.Streak, len(normalized), firstReveal)
	p.Streak = streak

	if firstReveal && !p.AllClear && len(l.revealed[id]) == len(l.sessionWords) {
		points += scoring.AllClearBonus
		p.AllClear = true
	}

	p.Score += points
	l.ledger[id] = append(l.ledger[id], Submission{Word: normalized, Points: points})
	l.bumpVersion()

	return []Event{
		{Type: EvtSubmissionOK, PlayerID: id, Word: normalized, Points: points},
		{Type: EvtState},
	}, nil
}

func (l *Lobby) penalize(p *Player) []Event {
	p.Score, p.Streak = scoring.ApplyInvalidPenalty(p.Score)
	l.bumpVersion()
	return []Event{{Type: EvtState}}
}

func (l *Lobby) dictHas(word string) bool {
	return l.dict.IsWord(word)
}

func (l *Lobby) hiddenIndex(word string) int {
	for i, w := range l.sessionWords {
		if w == word {
			return i
		}
	}
	return -1
}
