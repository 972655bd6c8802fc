// Package chat provides the lobby chat pieces: a bounded message log, a
// profanity mask, and a per-connection rate limit.
package chat

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// HistorySize is the number of messages a lobby retains.
const HistorySize = 50

type Message struct {
	From string `json:"from"`
	Body string `json:"body"`
}

// Log is a fixed-capacity ring of the most recent messages.
type Log struct {
	buf   []Message
	start int
	size  int
}

func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = HistorySize
	}
	return &Log{buf: make([]Message, capacity)}
}

func (l *Log) Append(m Message) {
	if l.size < len(l.buf) {
		l.buf[(l.start+l.size)%len(l.buf)] = m
		l.size++
		return
	}
	l.buf[l.start] = m
	l.start = (l.start + 1) % len(l.buf)
}

// Messages returns the retained history, oldest first.
func (l *Log) Messages() []Message {
	out := make([]Message, l.size)
	for i := 0; i < l.size; i++ {
		out[i] = l.buf[(l.start+i)%len(l.buf)]
	}
	return out
}

// Filter masks banned words with a same-length run of asterisks. Matching
// is case-insensitive on word boundaries.
type Filter struct {
	re *regexp.Regexp
}

func NewFilter(banned []string) *Filter {
	if len(banned) == 0 {
		return &Filter{}
	}
	quoted := make([]string, len(banned))
	for i, w := range banned {
		quoted[i] = regexp.QuoteMeta(w)
	}
	re := regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	return &Filter{re: re}
}

func (f *Filter) Mask(s string) string {
	if f.re == nil {
		return s
	}
	return f.re.ReplaceAllStringFunc(s, func(m string) string {
		return strings.Repeat("*", len(m))
	})
}

// Limiter gates one connection's messages with a token bucket: burst
// messages per window.
type Limiter struct {
	lim *rate.Limiter
}

func NewLimiter(burst int, window time.Duration) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{lim: rate.NewLimiter(rate.Every(window/time.Duration(burst)), burst)}
}

// Allow reports whether a message may be sent now. When it may not, the
// returned duration says how long until the next token is available.
func (l *Limiter) Allow() (bool, time.Duration) {
	r := l.lim.Reserve()
	if d := r.Delay(); d > 0 {
		r.Cancel()
		return false, d
	}
	return true, 0
}
