package parser

import (
	"log/slog"
	"unicode/utf8"
)

// Parser は、読み上げ対象のテキストから音声合成用のセグメントを解析するインターフェースです。
type Parser interface {
	Parse(content string) ([]Segment, error)
}

// ----------------------------------------------------------------------
// データモデル (テキスト処理)
// ----------------------------------------------------------------------

// Segment は音声合成APIへ1回で送る文字列の一片です。
// Index は元テキスト内の順序で、結合時にこの順序を保つ必要があります。
type Segment struct {
	Index int
	Text  string
}

// ----------------------------------------------------------------------
// textParser 構造体（Parser インターフェースの実装）
// ----------------------------------------------------------------------

// textParser はMarkdownを平文化し、文境界でセグメント化します。
type textParser struct {
	maxChars int
}

// NewParser は textParser インスタンスを生成します。maxChars が0以下の場合は DefaultMaxChars を使います。
func NewParser(maxChars int) *textParser {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &textParser{maxChars: maxChars}
}

// Parse は Parser インターフェースのメソッド実装です。
func (p *textParser) Parse(content string) ([]Segment, error) {
	plain := CleanMarkdown(content)
	chunks := SplitForSynthesis(plain, p.maxChars)

	segments := make([]Segment, len(chunks))
	for i, c := range chunks {
		segments[i] = Segment{Index: i, Text: c}
	}

	slog.Debug("テキストをセグメントに分割しました",
		"input_chars", utf8.RuneCountInString(content),
		"plain_chars", utf8.RuneCountInString(plain),
		"segments", len(segments),
		"char_limit", p.maxChars)

	return segments, nil
}
