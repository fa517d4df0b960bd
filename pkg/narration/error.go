package narration

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSegments はテキストから合成対象のセグメントを1つも抽出できなかったことを示します。
var ErrNoSegments = errors.New("テキストから有効なセグメントを抽出できませんでした")

// ----------------------------------------------------------------------
// バッチ処理エラー (engine.go で利用)
// ----------------------------------------------------------------------

// ErrSynthesisBatch は音声合成処理のバッチ全体で発生した複数のエラーをラップするカスタムエラー型です。
// いずれかのセグメントが失敗した場合、部分的な音声は生成せずにこのエラーを返します。
type ErrSynthesisBatch struct {
	TotalErrors int
	Details     []string
	Errs        []error
}

func (e *ErrSynthesisBatch) Error() string {
	return fmt.Sprintf("音声合成バッチ処理中に %d 件のエラーが発生しました:\n- %s",
		e.TotalErrors, strings.Join(e.Details, "\n- "))
}

// Unwrap は個々のセグメントエラーを返し、errors.Is / errors.As での判定を可能にします。
func (e *ErrSynthesisBatch) Unwrap() []error {
	return e.Errs
}
