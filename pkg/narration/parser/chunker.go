package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitForSynthesis はテキストを文境界で区切り、maxChars 以下のチャンクに詰め直します。
//
// 文境界は「. ! ? の直後に空白が続く位置」という単純な規則で判定します (略語は考慮しません)。
// 1文が maxChars を超える場合は、それまでのチャンクを確定したうえで maxChars 文字ごとに強制分割します。
// 文字数はルーン単位で数えます。空白のみの入力には nil を返します。
func SplitForSynthesis(text string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}

	if strings.TrimSpace(text) == "" {
		return nil
	}

	var (
		chunks     []string
		current    strings.Builder
		currentLen int
	)

	flush := func() {
		c := strings.TrimSpace(current.String())
		if c != "" {
			chunks = append(chunks, c)
		}
		current.Reset()
		currentLen = 0
	}

	for _, sentence := range splitSentences(strings.TrimSpace(text)) {
		sentenceLen := utf8.RuneCountInString(sentence)

		// 1文が長すぎる場合は強制分割
		if sentenceLen > maxChars {
			flush()
			chunks = append(chunks, hardSplit(sentence, maxChars)...)
			continue
		}

		// 連結用のスペースを含めて上限を超えるなら確定
		space := 0
		if currentLen > 0 {
			space = 1
		}
		if currentLen+space+sentenceLen > maxChars {
			flush()
			space = 0
		}

		if space == 1 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
		currentLen += space + sentenceLen
	}

	flush()
	return chunks
}

// splitSentences は文末記号 (. ! ?) に続く空白の連続で区切り、各文をトリムして返します。
// 文末記号は文側に残します。
func splitSentences(text string) []string {
	var sentences []string

	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isSentenceEnd(runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}

		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}

		// 区切りの空白をまとめて読み飛ばす
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}

	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// hardSplit は maxChars 文字ごとの窓で機械的に分割します。各窓はトリムし、空になったものは捨てます。
func hardSplit(sentence string, maxChars int) []string {
	runes := []rune(sentence)
	parts := make([]string, 0, len(runes)/maxChars+1)
	for i := 0; i < len(runes); i += maxChars {
		end := min(i+maxChars, len(runes))
		if part := strings.TrimSpace(string(runes[i:end])); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
