package lobby

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wordrush/wordrush-backend/internal/chat"
	"github.com/wordrush/wordrush-backend/internal/dictionary"
	"github.com/wordrush/wordrush-backend/internal/engine"
	"github.com/wordrush/wordrush-backend/internal/session"
	"github.com/wordrush/wordrush-backend/internal/stats"
	"github.com/wordrush/wordrush-backend/internal/types"
)

func newTestLobby(t *testing.T) *Lobby {
	t.Helper()
	dict, err := dictionary.Load("")
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(1))
	cfg := engine.Config{
		RoundDuration:  90 * time.Second,
		LobbyCountdown: 5 * time.Second,
		ResetDelay:     10 * time.Second,
		GracePeriod:    60 * time.Second,
		MaxPlayers:     8,
	}
	eng := engine.NewLobby("LOBBY1", false, cfg, dict, session.NewBuilder(dict, rng), chat.NewFilter(nil), rng)
	l := New(context.Background(), eng, stats.NewMemory(), 2, 10*time.Second, zap.NewNop(), nil)
	t.Cleanup(func() { l.Inbox() <- Shutdown{} })
	return l
}

func join(t *testing.T, l *Lobby, clientID, name string) chan types.ServerMessage {
	t.Helper()
	outbox := make(chan types.ServerMessage, 64)
	reply := make(chan error, 1)
	l.Inbox() <- Join{ClientID: clientID, Name: name, Outbox: outbox, Reply: reply}
	require.NoError(t, <-reply)
	return outbox
}

// recv drains outbox until a message of the wanted type arrives.
func recv(t *testing.T, outbox chan types.ServerMessage, msgType string) types.ServerMessage {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case m, ok := <-outbox:
			require.True(t, ok, "outbox closed while waiting for %q", msgType)
			if m.Type == msgType {
				return m
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q", msgType)
		}
	}
}

func getState(t *testing.T, l *Lobby) View {
	t.Helper()
	reply := make(chan View, 1)
	l.Inbox() <- GetState{Reply: reply}
	select {
	case v := <-reply:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for state")
		return View{}
	}
}

func TestJoinDeliversPersonalizedState(t *testing.T) {
	l := newTestLobby(t)

	outbox := join(t, l, "c1", "alice")

	msg := recv(t, outbox, types.MsgState)
	require.NotNil(t, msg.State)
	assert.Equal(t, "c1", msg.State.You)
	assert.Equal(t, "LOBBY1", msg.State.LobbyID)
	require.Len(t, msg.State.Players, 1)
	assert.Equal(t, "alice", msg.State.Players[0].Name)
}

func TestJoinRejectsTakenName(t *testing.T) {
	l := newTestLobby(t)
	join(t, l, "c1", "alice")

	outbox := make(chan types.ServerMessage, 64)
	reply := make(chan error, 1)
	l.Inbox() <- Join{ClientID: "c2", Name: "alice", Outbox: outbox, Reply: reply}

	assert.ErrorIs(t, <-reply, engine.ErrNameTaken)
	assert.Equal(t, 1, getState(t, l).NumClients)
}

func TestGetStateCountsClients(t *testing.T) {
	l := newTestLobby(t)
	join(t, l, "c1", "alice")
	join(t, l, "c2", "bob")

	v := getState(t, l)
	assert.Equal(t, 2, v.NumClients)
	assert.Len(t, v.Snapshot.Players, 2)
}

func TestReadyUpBroadcastsCountdown(t *testing.T) {
	l := newTestLobby(t)
	out1 := join(t, l, "c1", "alice")
	out2 := join(t, l, "c2", "bob")

	l.Inbox() <- SetReady{ClientID: "c1", Ready: true}
	l.Inbox() <- SetReady{ClientID: "c2", Ready: true}

	for _, outbox := range []chan types.ServerMessage{out1, out2} {
		msg := recv(t, outbox, types.MsgLobbyCountdown)
		require.NotNil(t, msg.Seconds)
		assert.Equal(t, 5, *msg.Seconds)
	}
}

func TestChatBroadcastsToEveryone(t *testing.T) {
	l := newTestLobby(t)
	out1 := join(t, l, "c1", "alice")
	out2 := join(t, l, "c2", "bob")

	l.Inbox() <- Chat{ClientID: "c1", Body: "hello"}

	for _, outbox := range []chan types.ServerMessage{out1, out2} {
		msg := recv(t, outbox, types.MsgChatMessage)
		require.NotNil(t, msg.Chat)
		assert.Equal(t, "alice", msg.Chat.From)
		assert.Equal(t, "hello", msg.Chat.Body)
	}
}

func TestChatRateLimitBlocksSenderOnly(t *testing.T) {
	l := newTestLobby(t)
	out1 := join(t, l, "c1", "alice")
	out2 := join(t, l, "c2", "bob")

	// Burst is 2 in the test lobby: the third message is refused.
	l.Inbox() <- Chat{ClientID: "c1", Body: "one"}
	l.Inbox() <- Chat{ClientID: "c1", Body: "two"}
	l.Inbox() <- Chat{ClientID: "c1", Body: "three"}

	blocked := recv(t, out1, types.MsgChatBlocked)
	require.NotNil(t, blocked.Seconds)
	assert.Greater(t, *blocked.Seconds, 0)
	require.NotNil(t, blocked.Until)

	// The other client saw exactly the two accepted messages.
	first := recv(t, out2, types.MsgChatMessage)
	second := recv(t, out2, types.MsgChatMessage)
	assert.Equal(t, "one", first.Chat.Body)
	assert.Equal(t, "two", second.Chat.Body)

	l.Inbox() <- Chat{ClientID: "c2", Body: "still works"}
	msg := recv(t, out2, types.MsgChatMessage)
	assert.Equal(t, "still works", msg.Chat.Body)
}

func TestLeaveClosesOutbox(t *testing.T) {
	l := newTestLobby(t)
	outbox := join(t, l, "c1", "alice")
	join(t, l, "c2", "bob")

	l.Inbox() <- Leave{ClientID: "c1"}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-outbox:
			if !ok {
				assert.Equal(t, 1, getState(t, l).NumClients)
				return
			}
		case <-deadline:
			t.Fatal("outbox never closed after leave")
		}
	}
}

func TestDestroyedLobbyNotifiesHub(t *testing.T) {
	dict, err := dictionary.Load("")
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(1))
	cfg := engine.Config{
		RoundDuration:  90 * time.Second,
		LobbyCountdown: 5 * time.Second,
		ResetDelay:     10 * time.Second,
		GracePeriod:    50 * time.Millisecond, // short grace so the test observes expiry
		MaxPlayers:     8,
	}
	eng := engine.NewLobby("LOBBY2", false, cfg, dict, session.NewBuilder(dict, rng), chat.NewFilter(nil), rng)

	destroyed := make(chan string, 1)
	l := New(context.Background(), eng, stats.NewMemory(), 5, 10*time.Second, zap.NewNop(), func(code string) {
		destroyed <- code
	})

	join(t, l, "c1", "alice")
	l.Inbox() <- Disconnect{ClientID: "c1"}

	select {
	case code := <-destroyed:
		assert.Equal(t, "LOBBY2", code)
	case <-time.After(2 * time.Second):
		t.Fatal("lobby never reported destruction")
	}
}
