package narration

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/shouni/go-dewey/pkg/narration/api"
	"github.com/shouni/go-dewey/pkg/narration/parser"
	"github.com/shouni/go-dewey/pkg/narration/queue"
)

// ----------------------------------------------------------------------
// Factory 関数
// ----------------------------------------------------------------------

// NewEngineExecutor は環境変数からTTS APIの接続設定を読み込み、
// EngineExecutorインターフェースを実装した具象型を組み立てて返します。
//
// DEWEY_TTS_API_KEY が未設定の場合は外部APIに接続せず、モック合成器を使用します。
// scheduler はアプリケーション全体で共有するものを渡します (nil の場合はデフォルト設定で生成)。
func NewEngineExecutor(ctx context.Context, httpTimeout time.Duration, scheduler *queue.Scheduler) (EngineExecutor, error) {
	if httpTimeout <= 0 {
		httpTimeout = DefaultHTTPTimeout
	}
	if scheduler == nil {
		scheduler = queue.NewScheduler(queue.Config{
			MaxInFlight: DefaultMaxInFlight,
			MinInterval: DefaultMinInterval,
		})
	}

	engineConfig := EngineConfig{
		MaxChars:       DefaultMaxChars,
		SegmentTimeout: DefaultSegmentTimeout,
	}
	textParser := parser.NewParser(engineConfig.MaxChars)

	synth, err := newSynthesizerFromEnv(ctx, httpTimeout)
	if err != nil {
		return nil, err
	}
	engine := NewEngine(synth, textParser, scheduler, engineConfig)

	slog.InfoContext(ctx, "ナレーションExecutorの初期化が完了しました。",
		"max_parallel", scheduler.Capacity(),
		"segment_timeout", engineConfig.SegmentTimeout.String())

	return engine, nil
}

// newSynthesizerFromEnv は環境変数に応じて実APIクライアントかモック合成器を返します。
func newSynthesizerFromEnv(ctx context.Context, httpTimeout time.Duration) (Synthesizer, error) {
	apiKey := os.Getenv(EnvTTSAPIKey)
	if apiKey == "" {
		slog.WarnContext(ctx, EnvTTSAPIKey+" 環境変数が設定されていません。モック合成器を使用します。")
		return api.NewMockSynthesizer(), nil
	}

	apiURL := os.Getenv(EnvTTSAPIURL)
	if apiURL == "" {
		apiURL = api.DefaultAPIURL
		slog.WarnContext(ctx, EnvTTSAPIURL+" 環境変数が設定されていません。", "default_url", apiURL)
	}

	if _, err := url.ParseRequestURI(apiURL); err != nil {
		return nil, fmt.Errorf("%s の値が不正です (%s): %w", EnvTTSAPIURL, apiURL, err)
	}

	return api.NewClient(apiURL, apiKey, httpTimeout, api.WithVoice(os.Getenv(EnvTTSVoice))), nil
}
