package chat

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogKeepsMostRecentInOrder(t *testing.T) {
	log := NewLog(3)
	for i := 1; i <= 5; i++ {
		log.Append(Message{From: "a", Body: fmt.Sprintf("msg %d", i)})
	}

	got := log.Messages()
	require.Len(t, got, 3)
	assert.Equal(t, "msg 3", got[0].Body)
	assert.Equal(t, "msg 4", got[1].Body)
	assert.Equal(t, "msg 5", got[2].Body)
}

func TestLogBelowCapacity(t *testing.T) {
	log := NewLog(10)
	log.Append(Message{Body: "only"})

	got := log.Messages()
	require.Len(t, got, 1)
	assert.Equal(t, "only", got[0].Body)
}

func TestFilterMask(t *testing.T) {
	f := NewFilter([]string{"darn", "heck"})

	cases := []struct {
		in   string
		want string
	}{
		{"well darn it", "well **** it"},
		{"DARN", "****"},
		{"what the Heck", "what the ****"},
		{"darning a sock", "darning a sock"}, // boundary: no partial match
		{"darn, heck!", "****, ****!"},
		{"clean message", "clean message"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, f.Mask(tc.in), "input %q", tc.in)
	}
}

func TestFilterEmptyListPassesThrough(t *testing.T) {
	f := NewFilter(nil)
	assert.Equal(t, "anything goes", f.Mask("anything goes"))
}

func TestLimiterBurstThenBlock(t *testing.T) {
	lim := NewLimiter(5, 10*time.Second)

	for i := 0; i < 5; i++ {
		ok, _ := lim.Allow()
		assert.True(t, ok, "message %d should fit in the burst", i+1)
	}

	ok, wait := lim.Allow()
	assert.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))

	// A rejected message must not consume a token: the reported wait
	// should not grow on repeated attempts.
	_, wait2 := lim.Allow()
	assert.LessOrEqual(t, wait2, wait)
}
