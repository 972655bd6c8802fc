// Package scoring computes point awards and penalties for word
// submissions. Everything here is pure; the lobby engine owns the state.
package scoring

const (
	// InvalidPenalty is subtracted from a player's score on a penalized
	// rejection. Scores never go below zero.
	InvalidPenalty = 50

	// AllClearBonus is granted once per round when a player has personally
	// revealed every hidden session word.
	AllClearBonus = 3000
)

// lengthBonus and hiddenBonus are indexed by word length.
var lengthBonus = map[int]int{3: 0, 4: 50, 5: 100, 6: 200}
var hiddenBonus = map[int]int{3: 150, 4: 300, 5: 750, 6: 1600}

// Streak tracks consecutive valid submissions. Points accumulates the raw
// value of every submission in the streak; AppliedBonus remembers how much
// streak bonus has already been paid out, so each submission only grants
// the delta.
type Streak struct {
	Count        int
	Points       int
	AppliedBonus int
}

// tierPercent maps the streak count to the bonus percentage applied to the
// cumulative streak points.
func tierPercent(count int) int {
	switch {
	case count >= 5:
		return 50
	case count == 4:
		return 35
	case count == 3:
		return 20
	case count == 2:
		return 10
	default:
		return 0
	}
}

// ScoreValid returns the total point delta for one accepted submission and
// the streak state after it. hiddenFirstReveal must be true only when this
// submission is the player's first personal reveal of a hidden word.
func ScoreValid(streak Streak, wordLength int, hiddenFirstReveal bool) (int, Streak) {
	base := wordLength * 100
	raw := base + lengthBonus[wordLength]
	if hiddenFirstReveal {
		raw += hiddenBonus[wordLength]
	}

	next := streak
	next.Count++
	next.Points += raw

	bonus := next.Points * tierPercent(next.Count) / 100
	delta := bonus - next.AppliedBonus
	if delta < 0 {
		delta = 0
	}
	next.AppliedBonus += delta

	return raw + delta, next
}

// ApplyInvalidPenalty returns the score after a penalized rejection and a
// zeroed streak. Any unapplied streak bonus is forfeited.
func ApplyInvalidPenalty(score int) (int, Streak) {
	score -= InvalidPenalty
	if score < 0 {
		score = 0
	}
	return score, Streak{}
}
