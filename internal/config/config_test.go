package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 90*time.Second, cfg.RoundDuration)
	assert.Equal(t, 5*time.Second, cfg.LobbyCountdown)
	assert.Equal(t, 10*time.Second, cfg.ResetDelay)
	assert.Equal(t, 60*time.Second, cfg.GracePeriod)
	assert.Equal(t, 8, cfg.MaxPlayers)
	assert.Equal(t, 5, cfg.ChatBurst)
	assert.Equal(t, 10*time.Second, cfg.ChatWindow)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ROUND_SECONDS", "120")
	t.Setenv("MAX_PLAYERS", "4")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 120*time.Second, cfg.RoundDuration)
	assert.Equal(t, 4, cfg.MaxPlayers)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("ROUND_SECONDS", "ninety")

	cfg := Load()
	assert.Equal(t, 90*time.Second, cfg.RoundDuration)
}
