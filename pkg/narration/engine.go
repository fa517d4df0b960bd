package narration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-dewey/pkg/narration/audio"
	"github.com/shouni/go-dewey/pkg/narration/parser"
	"github.com/shouni/go-dewey/pkg/narration/queue"
)

type Engine struct {
	synth     Synthesizer
	parser    parser.Parser
	scheduler *queue.Scheduler
	config    EngineConfig
}

type EngineConfig struct {
	MaxChars       int
	SegmentTimeout time.Duration
}

// ----------------------------------------------------------------------
// Executeメソッド用のオプション定義 (Functional Options Pattern)
// ----------------------------------------------------------------------

// ExecuteConfig は Execute メソッドの実行中に適用されるオプション設定を保持する
type ExecuteConfig struct {
	MaxChars       int
	SegmentTimeout time.Duration
}

// ExecuteOption はオプションを適用するための関数シグネチャ
type ExecuteOption func(*ExecuteConfig)

// WithMaxChars は1回の合成リクエストに送る最大文字数を指定します。
func WithMaxChars(n int) ExecuteOption {
	return func(cfg *ExecuteConfig) {
		if n > 0 {
			cfg.MaxChars = n
		}
	}
}

// WithSegmentTimeout はセグメントごとのタイムアウトを指定します。
func WithSegmentTimeout(d time.Duration) ExecuteOption {
	return func(cfg *ExecuteConfig) {
		if d > 0 {
			cfg.SegmentTimeout = d
		}
	}
}

// NewEngine は新しい Engine インスタンスを作成し、依存関係を注入します。
// p と scheduler が nil の場合はデフォルト設定のものを生成します。
func NewEngine(synth Synthesizer, p parser.Parser, scheduler *queue.Scheduler, config EngineConfig) *Engine {
	if config.MaxChars <= 0 {
		config.MaxChars = DefaultMaxChars
	}
	if config.SegmentTimeout <= 0 {
		config.SegmentTimeout = DefaultSegmentTimeout
	}
	if p == nil {
		p = parser.NewParser(config.MaxChars)
	}
	if scheduler == nil {
		scheduler = queue.NewScheduler(queue.Config{
			MaxInFlight: DefaultMaxInFlight,
			MinInterval: DefaultMinInterval,
		})
	}

	return &Engine{
		synth:     synth,
		parser:    p,
		scheduler: scheduler,
		config:    config,
	}
}

// ----------------------------------------------------------------------
// ヘルパー関数
// ----------------------------------------------------------------------

// processSegment は単一のセグメントに対して合成APIを呼び出します。
func (e *Engine) processSegment(ctx context.Context, seg parser.Segment, timeout time.Duration) ([]byte, error) {
	segCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	wavData, err := e.synth.Synthesize(segCtx, seg.Text)
	if err != nil {
		return nil, fmt.Errorf("セグメント %d の音声合成失敗: %w", seg.Index, err)
	}
	if len(wavData) == 0 {
		return nil, fmt.Errorf("セグメント %d の音声合成失敗: %w", seg.Index, &audio.ErrNoAudioData{})
	}
	return wavData, nil
}

// ----------------------------------------------------------------------
// メイン処理 (Execute メソッド)
// ----------------------------------------------------------------------

// Execute はテキストをセグメントに分割して並列に合成し、入力順に結合した1つのWAVを返します。
// 1つでも失敗したセグメントがあれば残りの処理を中断し、*ErrSynthesisBatch を返します。
func (e *Engine) Execute(ctx context.Context, content string, opts ...ExecuteOption) ([]byte, error) {
	// 1. デフォルト設定の初期化とオプションの適用
	cfg := &ExecuteConfig{
		MaxChars:       e.config.MaxChars,
		SegmentTimeout: e.config.SegmentTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	p := e.parser
	if cfg.MaxChars != e.config.MaxChars {
		p = parser.NewParser(cfg.MaxChars)
	}

	// 2. テキスト解析
	segments, err := p.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("テキストの解析に失敗しました: %w", err)
	}
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}

	slog.InfoContext(ctx, "音声合成バッチ処理開始",
		"total_segments", len(segments),
		"max_parallel", e.scheduler.Capacity(),
		"max_chars", cfg.MaxChars)
	start := time.Now()

	// 3. セグメントごとの並列処理
	// 結果はインデックス位置に格納し、結合時の順序を保証する
	results := make([][]byte, len(segments))
	errs := make([]error, len(segments))

	g, gctx := errgroup.WithContext(ctx)
	for i, seg := range segments {
		g.Go(func() error {
			err := e.scheduler.Do(gctx, func(jobCtx context.Context) error {
				wavData, err := e.processSegment(jobCtx, seg, cfg.SegmentTimeout)
				if err != nil {
					return err
				}
				results[i] = wavData
				return nil
			})
			if err != nil {
				errs[i] = err
			}
			return err
		})
	}
	waitErr := g.Wait()

	// 4. 呼び出し元のキャンセル
	if ctxErr := ctx.Err(); ctxErr != nil {
		slog.InfoContext(ctx, "音声合成バッチ処理が外部コンテキストキャンセルにより中断されました")
		return nil, fmt.Errorf("音声合成が中断されました: %w", ctxErr)
	}

	// 5. エラー集約 (先行エラーによる連鎖キャンセルは除外)
	batch := &ErrSynthesisBatch{}
	for _, err := range errs {
		if err == nil || errors.Is(err, context.Canceled) {
			continue
		}
		batch.Errs = append(batch.Errs, err)
		batch.Details = append(batch.Details, err.Error())
	}
	if len(batch.Errs) == 0 && waitErr != nil {
		batch.Errs = []error{waitErr}
		batch.Details = []string{waitErr.Error()}
	}
	if len(batch.Errs) > 0 {
		batch.TotalErrors = len(batch.Errs)
		slog.WarnContext(ctx, "音声合成に失敗したセグメントがあります", "errors", batch.TotalErrors)
		return nil, batch
	}

	// 6. WAVデータの結合
	combined, err := audio.ConcatWav(results)
	if err != nil {
		return nil, fmt.Errorf("WAVデータの結合に失敗しました: %w", err)
	}

	slog.InfoContext(ctx, "全てのセグメントの合成と結合が完了しました。",
		"segments", len(segments),
		"bytes", len(combined),
		"elapsed", time.Since(start).String())

	return combined, nil
}

// ExecuteToFile は Execute の結果を outputWavFile に書き込みます。
// 出力先ディレクトリが存在しない場合は作成します。
func (e *Engine) ExecuteToFile(ctx context.Context, content string, outputWavFile string, opts ...ExecuteOption) error {
	combined, err := e.Execute(ctx, content, opts...)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "ファイル書き込みを行います。", "output_file", outputWavFile)

	dir := filepath.Dir(outputWavFile)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("出力ディレクトリの作成に失敗しました (%s): %w", dir, err)
		}
	}

	return os.WriteFile(outputWavFile, combined, 0644)
}
