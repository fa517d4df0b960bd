package textgen

import (
	"regexp"
	"strings"
)

// codePrefixPattern はトピック名先頭の分類コード ("AA", "AA-C", "AH C" など) に一致します。
// 通常の単語は対象外です。"AH C" 形式を先に試し、2ブロック目まで取り除きます。
var codePrefixPattern = regexp.MustCompile(`^(?:[A-Z]{1,4}\s[A-Z]{1,4}|[A-Z]{1,4}(?:-[A-Z]{1,4})?)\.?\s+`)

// CleanTitle はトピック名から分類コードの接頭辞を取り除きます。
//
//	"AA-C Data governance" -> "Data governance"
//	"Data governance"      -> "Data governance"
func CleanTitle(title string) string {
	return strings.TrimSpace(codePrefixPattern.ReplaceAllString(title, ""))
}

// PromptVars はプロンプトテンプレートに埋め込む値です。
type PromptVars struct {
	Topic     string
	Ancestors []string // ルートから親までのトピック名
	Neighbors []string // 兄弟トピック名
	Selection string
}

// InterpolatePrompt は {{topic}} {{ancestors}} {{neighbors}} {{selection}} を置換します。
// トピック名はすべて CleanTitle を通します。
func InterpolatePrompt(template string, vars PromptVars) string {
	r := strings.NewReplacer(
		"{{topic}}", CleanTitle(vars.Topic),
		"{{ancestors}}", strings.Join(cleanTitles(vars.Ancestors), " > "),
		"{{neighbors}}", strings.Join(cleanTitles(vars.Neighbors), ", "),
		"{{selection}}", vars.Selection,
	)
	return r.Replace(template)
}

func cleanTitles(titles []string) []string {
	out := make([]string, len(titles))
	for i, t := range titles {
		out[i] = CleanTitle(t)
	}
	return out
}
