// Package session builds one round's letter bag and hidden word list.
package session

import (
	"math/rand"

	"github.com/wordrush/wordrush-backend/internal/dictionary"
)

const (
	LetterCount = 6
	MinVowels   = 2

	// WordCount is the exact size of the hidden word list shown to players.
	WordCount = 30

	// maxAttempts bounds the normal generate-and-filter loop; fallbackCap
	// bounds the last-resort loop so pathological draws cannot spin forever.
	maxAttempts = 20
	fallbackCap = 200
)

const vowels = "aeiou"

// consonants is weighted toward common letters so random bags tend to
// produce playable candidate sets.
const consonants = "bbccdddffgghhjkllllmmnnnnnppqrrrrrrssssssttttttvwxyz"

// Session is the immutable per-round material: the letter bag and the
// curated hidden word list.
type Session struct {
	Letters []rune
	Words   []string
}

type Builder struct {
	dict *dictionary.Dictionary
	rng  *rand.Rand
}

func NewBuilder(dict *dictionary.Dictionary, rng *rand.Rand) *Builder {
	return &Builder{dict: dict, rng: rng}
}

// Build generates a 6-letter bag with at least two vowels and a hidden word
// list of exactly WordCount words formable from it. A candidate set is
// accepted when it holds at least WordCount words including a 6-letter one.
// After maxAttempts the best attempt seen wins if it has a 6-letter word;
// otherwise the bag is reseeded from random 6-letter dictionary words until
// one qualifies, which always terminates because such a word spells itself.
func (b *Builder) Build() Session {
	var bestLetters []rune
	var bestWords []string

	for attempt := 0; attempt < maxAttempts; attempt++ {
		letters := b.drawLetters()
		candidates := b.formableWords(letters)
		if acceptable(candidates) {
			return Session{Letters: letters, Words: b.sample(candidates)}
		}
		if betterAttempt(candidates, bestWords) {
			bestLetters, bestWords = letters, candidates
		}
	}

	if hasSixLetterWord(bestWords) {
		return Session{Letters: bestLetters, Words: b.sample(bestWords)}
	}

	for i := 0; i < fallbackCap; i++ {
		letters := b.seedFromSixLetterWord()
		candidates := b.formableWords(letters)
		if hasSixLetterWord(candidates) {
			return Session{Letters: letters, Words: b.sample(candidates)}
		}
	}

	// Unreachable as long as the dictionary holds any 6-letter word; the
	// seed word itself is always a candidate of its own letters.
	return Session{Letters: bestLetters, Words: b.sample(bestWords)}
}

func (b *Builder) drawLetters() []rune {
	nVowels := MinVowels + b.rng.Intn(2) // 2 or 3 vowels
	letters := make([]rune, 0, LetterCount)
	for i := 0; i < nVowels; i++ {
		letters = append(letters, rune(vowels[b.rng.Intn(len(vowels))]))
	}
	for len(letters) < LetterCount {
		letters = append(letters, rune(consonants[b.rng.Intn(len(consonants))]))
	}
	b.rng.Shuffle(len(letters), func(i, j int) {
		letters[i], letters[j] = letters[j], letters[i]
	})
	return letters
}

func (b *Builder) seedFromSixLetterWord() []rune {
	words := b.dict.Words()
	for i := 0; i < fallbackCap; i++ {
		w := words[b.rng.Intn(len(words))]
		if len(w) == dictionary.MaxWordLen {
			letters := []rune(w)
			b.rng.Shuffle(len(letters), func(i, j int) {
				letters[i], letters[j] = letters[j], letters[i]
			})
			return letters
		}
	}
	return b.drawLetters()
}

func (b *Builder) formableWords(letters []rune) []string {
	var out []string
	for _, w := range b.dict.Words() {
		if dictionary.CanForm(letters, w) {
			out = append(out, w)
		}
	}
	return out
}

// sample picks WordCount words from candidates, keeping at least one
// 6-letter word in the result.
func (b *Builder) sample(candidates []string) []string {
	if len(candidates) <= WordCount {
		out := make([]string, len(candidates))
		copy(out, candidates)
		b.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}

	var sixes, rest []string
	for _, w := range candidates {
		if len(w) == dictionary.MaxWordLen {
			sixes = append(sixes, w)
		} else {
			rest = append(rest, w)
		}
	}

	out := make([]string, 0, WordCount)
	if len(sixes) > 0 {
		out = append(out, sixes[b.rng.Intn(len(sixes))])
		for _, w := range sixes {
			if w != out[0] {
				rest = append(rest, w)
			}
		}
	}
	b.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
	out = append(out, rest[:WordCount-len(out)]...)
	b.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func acceptable(candidates []string) bool {
	return len(candidates) >= WordCount && hasSixLetterWord(candidates)
}

func betterAttempt(candidates, best []string) bool {
	if hasSixLetterWord(candidates) != hasSixLetterWord(best) {
		return hasSixLetterWord(candidates)
	}
	return len(candidates) > len(best)
}

func hasSixLetterWord(words []string) bool {
	for _, w := range words {
		if len(w) == dictionary.MaxWordLen {
			return true
		}
	}
	return false
}
