package dictionary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	d, err := Load("")
	require.NoError(t, err)

	assert.True(t, d.IsWord("cat"))
	assert.False(t, d.IsWord("zzqx"))
	assert.False(t, d.IsWord(""))

	for _, w := range d.Words() {
		assert.GreaterOrEqual(t, len(w), MinWordLen)
		assert.LessOrEqual(t, len(w), MaxWordLen)
	}
}

func TestLoadFromFileFiltersAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "Cat\nCARE\nab\ntoolongword\ncat\nhy-phen\n  trace  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	d, err := Load(path)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"cat", "care", "trace"}, d.Words())
	assert.True(t, d.IsWord("care"))
	assert.False(t, d.IsWord("ab"))
}

func TestLoadEmptyFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\nab\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrEmptyWordList)
}

func TestCanForm(t *testing.T) {
	letters := []rune{'c', 'a', 't', 's', 'e', 'r'}

	cases := []struct {
		word string
		want bool
	}{
		{"cat", true},
		{"caster", true},
		{"CRATE", true}, // case-insensitive
		{"cass", false}, // needs a second s
		{"dog", false},
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanForm(letters, tc.word), "word %q", tc.word)
	}
}
