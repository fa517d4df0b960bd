package narration

import (
	"context"
)

// ----------------------------------------------------------------------
// インターフェース
// ----------------------------------------------------------------------

// EngineExecutor は、テキストを読み上げて1つの音声ファイルを生成するための契約を定義します。
// オプションの処理（例: 分割文字数）は、Functional Options Patternを通じて提供されます。
type EngineExecutor interface {
	// Execute はテキストを合成し、結合済みのWAVデータを返します。
	Execute(ctx context.Context, content string, opts ...ExecuteOption) ([]byte, error)
	// ExecuteToFile は Execute の結果を outputWavFile に書き込みます。
	ExecuteToFile(ctx context.Context, content string, outputWavFile string, opts ...ExecuteOption) error
}

// Synthesizer はテキスト片1つをWAVデータに変換する音声合成器です。
// api.Client と api.MockSynthesizer が満たします。
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
