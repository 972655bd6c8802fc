package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHiddenFirstRevealLengthThree(t *testing.T) {
	// "cat" as a first personal reveal at streak 0: 300 base, no length
	// bonus, 150 hidden bonus, no streak tier yet.
	points, streak := ScoreValid(Streak{}, 3, true)

	assert.Equal(t, 450, points)
	assert.Equal(t, 1, streak.Count)
	assert.Equal(t, 450, streak.Points)
	assert.Equal(t, 0, streak.AppliedBonus)
}

func TestStreakTierBonusOnCumulativePoints(t *testing.T) {
	// Second submission ("care", hidden, length 4) lifts the streak to 2:
	// 400+50+300 = 750 raw, then 10% of the cumulative 1200 streak points.
	_, streak := ScoreValid(Streak{}, 3, true)
	points, streak := ScoreValid(streak, 4, true)

	assert.Equal(t, 750+120, points)
	assert.Equal(t, 2, streak.Count)
	assert.Equal(t, 1200, streak.Points)
	assert.Equal(t, 120, streak.AppliedBonus)
}

func TestStreakBonusNeverDoubleCounts(t *testing.T) {
	// Walking a long streak, the sum of per-submission deltas must equal
	// the final tier bonus on the cumulative points.
	streak := Streak{}
	totalDelta := 0
	rawSum := 0
	for i := 0; i < 7; i++ {
		points, next := ScoreValid(streak, 5, false)
		raw := 500 + 100
		rawSum += raw
		totalDelta += points - raw
		streak = next
	}

	assert.Equal(t, 7, streak.Count)
	assert.Equal(t, rawSum, streak.Points)
	assert.Equal(t, streak.Points*50/100, streak.AppliedBonus)
	assert.Equal(t, streak.AppliedBonus, totalDelta)
}

func TestScoreTable(t *testing.T) {
	cases := []struct {
		name   string
		length int
		hidden bool
		want   int
	}{
		{name: "plain 3-letter", length: 3, hidden: false, want: 300},
		{name: "plain 4-letter", length: 4, hidden: false, want: 450},
		{name: "plain 5-letter", length: 5, hidden: false, want: 600},
		{name: "plain 6-letter", length: 6, hidden: false, want: 800},
		{name: "hidden 3-letter", length: 3, hidden: true, want: 450},
		{name: "hidden 4-letter", length: 4, hidden: true, want: 750},
		{name: "hidden 5-letter", length: 5, hidden: true, want: 1350},
		{name: "hidden 6-letter", length: 6, hidden: true, want: 2400},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			points, _ := ScoreValid(Streak{}, tc.length, tc.hidden)
			assert.Equal(t, tc.want, points)
		})
	}
}

func TestInvalidPenaltyClampsAtZero(t *testing.T) {
	score, streak := ApplyInvalidPenalty(30)

	assert.Equal(t, 0, score)
	assert.Equal(t, Streak{}, streak)
}

func TestInvalidPenaltySubtractsFifty(t *testing.T) {
	score, streak := ApplyInvalidPenalty(430)

	assert.Equal(t, 380, score)
	assert.Zero(t, streak.Count)
	assert.Zero(t, streak.Points)
	assert.Zero(t, streak.AppliedBonus)
}
