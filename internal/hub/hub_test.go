package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wordrush/wordrush-backend/internal/chat"
	"github.com/wordrush/wordrush-backend/internal/config"
	"github.com/wordrush/wordrush-backend/internal/dictionary"
	"github.com/wordrush/wordrush-backend/internal/engine"
	"github.com/wordrush/wordrush-backend/internal/lobby"
	"github.com/wordrush/wordrush-backend/internal/stats"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	dict, err := dictionary.Load("")
	require.NoError(t, err)
	cfg := config.Config{
		RoundDuration:  90 * time.Second,
		LobbyCountdown: 5 * time.Second,
		ResetDelay:     10 * time.Second,
		GracePeriod:    60 * time.Second,
		MaxPlayers:     8,
		ChatBurst:      5,
		ChatWindow:     10 * time.Second,
	}
	h := NewHub(context.Background(), cfg, dict, chat.NewFilter(nil), stats.NewMemory(), zap.NewNop())
	t.Cleanup(func() { h.Inbox() <- ShutdownHub{} })
	return h
}

func createLobby(t *testing.T, h *Hub, private bool) *lobby.Lobby {
	t.Helper()
	reply := make(chan *lobby.Lobby, 1)
	h.Inbox() <- CreateLobby{Private: private, Reply: reply}
	lb := awaitLobby(t, reply)
	require.NotNil(t, lb)
	return lb
}

func getLobby(t *testing.T, h *Hub, code string) *lobby.Lobby {
	t.Helper()
	reply := make(chan *lobby.Lobby, 1)
	h.Inbox() <- GetLobby{Code: code, Reply: reply}
	return awaitLobby(t, reply)
}

func awaitLobby(t *testing.T, reply chan *lobby.Lobby) *lobby.Lobby {
	t.Helper()
	select {
	case lb := <-reply:
		return lb
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not answer")
		return nil
	}
}

func TestCreateAndGetLobby(t *testing.T) {
	h := newTestHub(t)

	created := createLobby(t, h, false)
	assert.Len(t, created.Code, 6)

	got := getLobby(t, h, created.Code)
	assert.Same(t, created, got)
}

func TestGetUnknownCodeReturnsNil(t *testing.T) {
	h := newTestHub(t)
	assert.Nil(t, getLobby(t, h, "NOSUCH"))
}

func TestCodesAreUnique(t *testing.T) {
	h := newTestHub(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		lb := createLobby(t, h, false)
		assert.False(t, seen[lb.Code], "duplicate code %s", lb.Code)
		seen[lb.Code] = true
	}
}

func TestQuickJoinReusesOpenPublicLobby(t *testing.T) {
	h := newTestHub(t)
	open := createLobby(t, h, false)

	reply := make(chan *lobby.Lobby, 1)
	h.Inbox() <- QuickJoin{Reply: reply}

	assert.Same(t, open, awaitLobby(t, reply))
}

func TestQuickJoinSkipsPrivateLobbies(t *testing.T) {
	h := newTestHub(t)
	private := createLobby(t, h, true)

	reply := make(chan *lobby.Lobby, 1)
	h.Inbox() <- QuickJoin{Reply: reply}
	got := awaitLobby(t, reply)

	require.NotNil(t, got)
	assert.NotSame(t, private, got)
	assert.False(t, got.Private())
}

func TestCreateBotLobbySeatsReadyBots(t *testing.T) {
	h := newTestHub(t)

	reply := make(chan *lobby.Lobby, 1)
	h.Inbox() <- CreateBotLobby{Difficulty: engine.DifficultyHard, Count: 3, Reply: reply}
	lb := awaitLobby(t, reply)
	require.NotNil(t, lb)
	assert.True(t, lb.Private(), "bot lobbies never show up in matchmaking")

	stateReply := make(chan lobby.View, 1)
	lb.Inbox() <- lobby.GetState{Reply: stateReply}
	v := <-stateReply

	require.Len(t, v.Snapshot.Players, 3)
	for _, p := range v.Snapshot.Players {
		assert.True(t, p.IsBot)
		assert.True(t, p.Ready)
	}
}

func TestCreateBotLobbyClampsCount(t *testing.T) {
	h := newTestHub(t)

	reply := make(chan *lobby.Lobby, 1)
	h.Inbox() <- CreateBotLobby{Difficulty: engine.DifficultyEasy, Count: 99, Reply: reply}
	lb := awaitLobby(t, reply)

	stateReply := make(chan lobby.View, 1)
	lb.Inbox() <- lobby.GetState{Reply: stateReply}
	v := <-stateReply

	// One seat stays free for the human player.
	assert.Len(t, v.Snapshot.Players, 7)
}

func TestRemoveLobbyForgetsCode(t *testing.T) {
	h := newTestHub(t)
	lb := createLobby(t, h, false)

	h.Inbox() <- RemoveLobby{Code: lb.Code}

	assert.Nil(t, getLobby(t, h, lb.Code))
}
