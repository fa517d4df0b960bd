package parser

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitForSynthesis(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		want     []string
	}{
		{name: "empty", text: "", maxChars: 10, want: nil},
		{name: "single space", text: " ", maxChars: 10, want: nil},
		{name: "whitespace only", text: "\n\t  \n", maxChars: 10, want: nil},
		{name: "fits in one chunk", text: "  Hello world.  ", maxChars: 100, want: []string{"Hello world."}},
		{
			name:     "greedy packing counts the joining space",
			text:     "One. Two. Three.",
			maxChars: 9,
			want:     []string{"One. Two.", "Three."},
		},
		{
			name:     "punctuation without whitespace is not a boundary",
			text:     "Hello!How are you? Fine.",
			maxChars: 18,
			want:     []string{"Hello!How are you?", "Fine."},
		},
		{
			name:     "boundary whitespace collapses to one space",
			text:     "A.   \n\n B!\tC?",
			maxChars: 100,
			want:     []string{"A. B! C?"},
		},
		{
			name:     "oversized sentence flushes current chunk first",
			text:     "Short. " + strings.Repeat("x", 30) + ". Tail.",
			maxChars: 10,
			want: []string{
				"Short.",
				strings.Repeat("x", 10),
				strings.Repeat("x", 10),
				strings.Repeat("x", 10),
				".",
				"Tail.",
			},
		},
		{
			name:     "hard split windows are trimmed",
			text:     "aaaa bbbb",
			maxChars: 5,
			want:     []string{"aaaa", "bbbb"},
		},
		{
			name:     "length is counted in runes",
			text:     "あいうえおかきくけこ",
			maxChars: 4,
			want:     []string{"あいうえ", "おかきく", "けこ"},
		},
		{
			name:     "non-positive limit is treated as one",
			text:     "ab",
			maxChars: 0,
			want:     []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitForSynthesis(tt.text, tt.maxChars))
		})
	}
}

func TestSplitForSynthesis_OversizedSentence(t *testing.T) {
	text := strings.Repeat("abcdefghij", 1000)
	require.Equal(t, 10000, len(text))

	chunks := SplitForSynthesis(text, 2500)

	require.Len(t, chunks, 4)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 2500)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplitForSynthesis_Invariants(t *testing.T) {
	// 長さの異なる文を並べたテキスト (どの文も20文字以下)
	var sentences []string
	for i := 0; i < 60; i++ {
		s := fmt.Sprintf("S%d %s.", i, strings.Repeat("w", i%13))
		if i%4 == 0 {
			s = strings.TrimSuffix(s, ".") + "?"
		}
		sentences = append(sentences, s)
	}
	text := strings.Join(sentences, " \n ")

	for _, maxChars := range []int{20, 33, 50, 80, 1000} {
		t.Run(fmt.Sprintf("max=%d", maxChars), func(t *testing.T) {
			chunks := SplitForSynthesis(text, maxChars)
			require.NotEmpty(t, chunks)

			for _, c := range chunks {
				assert.NotEmpty(t, c)
				assert.Equal(t, strings.TrimSpace(c), c)
				assert.LessOrEqual(t, utf8.RuneCountInString(c), maxChars)
			}
			assert.Equal(t, strings.Join(sentences, " "), strings.Join(chunks, " "))
		})
	}
}
