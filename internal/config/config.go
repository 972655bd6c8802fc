package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string
	WordsFile   string

	RoundDuration  time.Duration
	LobbyCountdown time.Duration
	ResetDelay     time.Duration
	GracePeriod    time.Duration

	MaxPlayers int

	ChatBurst  int
	ChatWindow time.Duration
}

func Load() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		WordsFile:      os.Getenv("WORDS_FILE"),
		RoundDuration:  getEnvSeconds("ROUND_SECONDS", 90),
		LobbyCountdown: getEnvSeconds("COUNTDOWN_SECONDS", 5),
		ResetDelay:     getEnvSeconds("RESET_SECONDS", 10),
		GracePeriod:    getEnvSeconds("GRACE_SECONDS", 60),
		MaxPlayers:     getEnvInt("MAX_PLAYERS", 8),
		ChatBurst:      getEnvInt("CHAT_BURST", 5),
		ChatWindow:     getEnvSeconds("CHAT_WINDOW_SECONDS", 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}
