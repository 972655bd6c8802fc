package engine

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyGenius Difficulty = "genius"
)

// ParseDifficulty maps a client string to a difficulty, defaulting to
// medium on anything unknown.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyGenius:
		return Difficulty(s)
	default:
		return DifficultyMedium
	}
}

// botProfile tunes one difficulty: accuracy is the chance of going for a
// long word, mistake the chance of deliberately playing a short one when
// not accurate, attempts the baseline submission count per round.
type botProfile struct {
	accuracy float64
	mistake  float64
	attempts int
}

var botProfiles = map[Difficulty]botProfile{
	DifficultyEasy:   {accuracy: 0.20, mistake: 0.50, attempts: 6},
	DifficultyMedium: {accuracy: 0.45, mistake: 0.30, attempts: 9},
	DifficultyHard:   {accuracy: 0.70, mistake: 0.15, attempts: 13},
	DifficultyGenius: {accuracy: 0.90, mistake: 0.05, attempts: 17},
}

// botStagger offsets each bot's schedule so several bots don't fire in
// synchronized bursts.
const botStagger = 700 * time.Millisecond

// scheduleBots queues every bot's submission attempts for the round that
// just started. Attempts are jittered across the round duration plus the
// per-bot stagger; every task re-validates the round before acting.
func (l *Lobby) scheduleBots(now time.Time) {
	span := l.cfg.RoundDuration
	if span <= 0 {
		span = time.Second
	}

	botIndex := 0
	for _, p := range l.players {
		if !p.IsBot {
			continue
		}
		profile := botProfiles[p.Difficulty]
		attempts := profile.attempts + l.rng.Intn(3) - 1
		stagger := time.Duration(botIndex) * botStagger
		botIndex++

		botID := p.ID
		for i := 0; i < attempts; i++ {
			delay := stagger + time.Duration(l.rng.Int63n(int64(span)))
			l.tasks = append(l.tasks, task{
				fireAt: now.Add(delay),
				bot:    true,
				run: func(now time.Time) []Event {
					return l.botAttempt(botID, now)
				},
			})
		}
	}
}

// botAttempt picks a word for one bot and pushes it through the same
// submission path humans use. Duplicate picks are retried a few times
// against the live ledgers, which narrows but does not close the race
// with other submissions in the same tick.
func (l *Lobby) botAttempt(botID string, now time.Time) []Event {
	if l.status != StatusActive {
		return nil
	}
	p, ok := l.Player(botID)
	if !ok || !p.IsBot {
		return nil
	}

	profile := botProfiles[p.Difficulty]
	word := ""
	for try := 0; try < 5; try++ {
		pool := l.botCandidates(botID)
		if len(pool) == 0 {
			return nil
		}
		pick := l.pickByPolicy(pool, profile)
		if !l.claimedByAnyone(pick) {
			word = pick
			break
		}
		word = pick
	}
	if word == "" {
		return nil
	}

	events, err := l.SubmitWord(botID, word, now)
	if err != nil {
		// Bots eat their own rejections; any score change still fans out.
		return events
	}
	return events
}

// botCandidates prefers session words no player has claimed yet, biasing
// bots toward discovering fresh hidden words. When everything is claimed
// it falls back to words this bot alone has not tried.
func (l *Lobby) botCandidates(botID string) []string {
	var unclaimed []string
	for _, w := range l.sessionWords {
		if !l.claimedByAnyone(w) {
			unclaimed = append(unclaimed, w)
		}
	}
	if len(unclaimed) > 0 {
		return unclaimed
	}

	var untried []string
	for _, w := range l.sessionWords {
		if !l.submitted[botID][w] {
			untried = append(untried, w)
		}
	}
	return untried
}

func (l *Lobby) claimedByAnyone(word string) bool {
	for _, p := range l.players {
		if l.submitted[p.ID][word] {
			return true
		}
	}
	return false
}

// pickByPolicy applies the accuracy/mistake profile: accurate picks go to
// the longest words, mistakes to the shortest, the rest uniform.
func (l *Lobby) pickByPolicy(pool []string, profile botProfile) string {
	roll := l.rng.Float64()
	switch {
	case roll < profile.accuracy:
		return l.pickExtreme(pool, true)
	case l.rng.Float64() < profile.mistake:
		return l.pickExtreme(pool, false)
	default:
		return pool[l.rng.Intn(len(pool))]
	}
}

func (l *Lobby) pickExtreme(pool []string, longest bool) string {
	bestLen := len(pool[0])
	for _, w := range pool {
		if (longest && len(w) > bestLen) || (!longest && len(w) < bestLen) {
			bestLen = len(w)
		}
	}
	var matches []string
	for _, w := range pool {
		if len(w) == bestLen {
			matches = append(matches, w)
		}
	}
	return matches[l.rng.Intn(len(matches))]
}
