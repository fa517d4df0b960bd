package parser

import (
	"regexp"
	"strings"
)

var (
	// コードブロック (``` ... ```) は読み上げ対象外
	reCodeFence = regexp.MustCompile("(?s)```.*?```")
	// インラインコード `code` は中身だけ残す
	reInlineCode = regexp.MustCompile("`([^`]*)`")
	// 画像 ![alt](url) は代替テキストのみ
	reImage = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	// リンク [text](url) はテキストのみ
	reLink = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	// 見出し記号
	reHeading = regexp.MustCompile(`(?m)^[ \t]{0,3}#{1,6}[ \t]*`)
	// 引用記号
	reBlockquote = regexp.MustCompile(`(?m)^[ \t]*>+[ \t]?`)
	// 箇条書き・番号付きリスト
	reListMarker = regexp.MustCompile(`(?m)^[ \t]*(?:[-*+]|\d+[.)])[ \t]+`)
	// 水平線
	reHorizontalRule = regexp.MustCompile(`(?m)^[ \t]*(?:[-*_][ \t]*){3,}$`)
	// 表の区切り行 |---|:---:|
	reTableDivider = regexp.MustCompile(`(?m)^[ \t]*\|?[ \t]*:?-{3,}:?[ \t]*(?:\|[ \t]*:?-{3,}:?[ \t]*)*\|?[ \t]*$`)
	// 強調 (**bold**, __bold__, *em*, _em_, ~~strike~~)
	reStrong   = regexp.MustCompile(`(\*\*|__)(.+?)(\*\*|__)`)
	reEmphasis = regexp.MustCompile(`(^|[^\w*])[*_]([^*_\n]+)[*_]`)
	reStrike   = regexp.MustCompile(`~~(.+?)~~`)
	// HTMLタグ
	reHTMLTag = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	// 3行以上の改行
	reBlankLines = regexp.MustCompile(`\n{3,}`)
)

// CleanMarkdown はMarkdownテキストから記号を取り除き、読み上げ用の平文に変換します。
// 完全なMarkdownパーサーではなく、生成コンテンツで頻出する記法のみを対象とします。
func CleanMarkdown(md string) string {
	text := strings.ReplaceAll(md, "\r\n", "\n")

	text = reCodeFence.ReplaceAllString(text, "")
	text = reImage.ReplaceAllString(text, "$1")
	text = reLink.ReplaceAllString(text, "$1")
	text = reInlineCode.ReplaceAllString(text, "$1")
	text = reTableDivider.ReplaceAllString(text, "")
	text = reHorizontalRule.ReplaceAllString(text, "")
	text = reHeading.ReplaceAllString(text, "")
	text = reBlockquote.ReplaceAllString(text, "")
	text = reListMarker.ReplaceAllString(text, "")
	text = reStrong.ReplaceAllString(text, "$2")
	text = reStrike.ReplaceAllString(text, "$1")
	text = reEmphasis.ReplaceAllString(text, "$1$2")
	text = reHTMLTag.ReplaceAllString(text, "")

	// 表のセル区切りは空白に
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.Contains(line, "|") {
			cells := strings.FieldsFunc(line, func(r rune) bool { return r == '|' })
			for j := range cells {
				cells[j] = strings.TrimSpace(cells[j])
			}
			line = strings.Join(cells, " ")
		}
		lines[i] = strings.TrimRight(line, " \t")
	}
	text = strings.Join(lines, "\n")

	text = reBlankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
