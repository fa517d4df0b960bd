package audio

import "fmt"

// ErrFormat はWAVデータとして解析できないことを示します。
// RIFF/WAVE マジックの欠落、fmt/data チャンクの欠落、宣言サイズがバッファを超える場合などに返されます。
type ErrFormat struct {
	Index   int // エラーが発生したWAVセグメントのインデックス (該当なしは -1)
	Details string
}

func (e *ErrFormat) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("WAVデータ #%d を解析できません: %s", e.Index, e.Details)
	}
	return fmt.Sprintf("WAVデータを解析できません: %s", e.Details)
}

// ErrIncompatibleFormat は結合対象のWAVデータ間でフォーマットが一致しないことを示します。
// リサンプリングやトランスコードは行いません。
type ErrIncompatibleFormat struct {
	Index   int // 最初のWAVと一致しなかったセグメントのインデックス
	Details string
}

func (e *ErrIncompatibleFormat) Error() string {
	return fmt.Sprintf("WAVデータ #%d のフォーマットが先頭のデータと一致しないため結合できません: %s", e.Index, e.Details)
}

// ErrNoAudioData は結合すべきWAVデータが1件もないことを示します。
type ErrNoAudioData struct{}

func (e *ErrNoAudioData) Error() string {
	return "処理対象となる有効なオーディオデータ（WAVファイル）がありません"
}
