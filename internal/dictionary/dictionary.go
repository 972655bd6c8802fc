// Package dictionary loads the word list and answers the two lexical
// questions the game needs: is this a word, and can it be formed from a
// given set of letters.
package dictionary

import (
	"bufio"
	_ "embed"
	"errors"
	"os"
	"strings"
)

// Words must be 3-6 lowercase letters; anything else is dropped on load.
const (
	MinWordLen = 3
	MaxWordLen = 6
)

//go:embed default_words.txt
var embeddedWords string

var ErrEmptyWordList = errors.New("word list is empty after filtering")

type Dictionary struct {
	words []string
	set   map[string]struct{}
}

// Load reads one word per line from path, or falls back to the embedded
// default list when path is empty.
func Load(path string) (*Dictionary, error) {
	var lines []string
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
	} else {
		lines = strings.Split(embeddedWords, "\n")
	}

	d := &Dictionary{set: make(map[string]struct{})}
	for _, line := range lines {
		w := strings.ToLower(strings.TrimSpace(line))
		if len(w) < MinWordLen || len(w) > MaxWordLen || !isAlpha(w) {
			continue
		}
		if _, dup := d.set[w]; dup {
			continue
		}
		d.set[w] = struct{}{}
		d.words = append(d.words, w)
	}
	if len(d.words) == 0 {
		return nil, ErrEmptyWordList
	}
	return d, nil
}

// IsWord reports whether the normalized word is in the list.
func (d *Dictionary) IsWord(word string) bool {
	if word == "" {
		return false
	}
	_, ok := d.set[word]
	return ok
}

// Words returns the full filtered list. Callers must not mutate it.
func (d *Dictionary) Words() []string { return d.words }

// CanForm reports whether word can be spelled from letters, consuming each
// letter at most once. Comparison is case-insensitive.
func CanForm(letters []rune, word string) bool {
	if word == "" {
		return false
	}
	var avail [26]int
	for _, r := range letters {
		if i := letterIndex(r); i >= 0 {
			avail[i]++
		}
	}
	for _, r := range word {
		i := letterIndex(r)
		if i < 0 {
			return false
		}
		avail[i]--
		if avail[i] < 0 {
			return false
		}
	}
	return true
}

func letterIndex(r rune) int {
	switch {
	case r >= 'a' && r <= 'z':
		return int(r - 'a')
	case r >= 'A' && r <= 'Z':
		return int(r - 'A')
	default:
		return -1
	}
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
