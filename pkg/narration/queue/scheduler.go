package queue

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Scheduler は外部API呼び出しの同時実行数と開始間隔を制御します。
// アプリケーションのルートで1つ生成し、合成・生成処理へ注入して共有します。
type Scheduler struct {
	sem      chan struct{}
	limiter  *rate.Limiter
	inFlight atomic.Int64
	started  atomic.Int64
}

// Config は Scheduler の設定です。
type Config struct {
	// MaxInFlight は同時に実行できるジョブ数の上限
	MaxInFlight int
	// MinInterval はジョブ開始の最小間隔 (0 なら間隔制限なし)
	MinInterval time.Duration
}

// NewScheduler は新しい Scheduler を作成します。MaxInFlight が0以下の場合は DefaultMaxInFlight を使います。
func NewScheduler(cfg Config) *Scheduler {
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = DefaultMaxInFlight
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	return &Scheduler{
		sem:     make(chan struct{}, cfg.MaxInFlight),
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Do は実行枠と開始間隔の両方を確保してから fn を実行します。
// 待機中に ctx がキャンセルされた場合は fn を実行せずに ctx.Err() を返します。
func (s *Scheduler) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	// 1. 実行枠の確保
	select {
	case <-ctx.Done():
		return ctx.Err()
	case s.sem <- struct{}{}:
	}
	defer func() { <-s.sem }()

	// 2. 開始間隔の確保
	if err := s.limiter.Wait(ctx); err != nil {
		// rate.Limiter は期限内に間に合わない場合にもエラーを返す
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}

	n := s.inFlight.Add(1)
	s.started.Add(1)
	defer s.inFlight.Add(-1)

	slog.DebugContext(ctx, "ジョブを開始します", "in_flight", n, "capacity", cap(s.sem))

	return fn(ctx)
}

// InFlight は現在実行中のジョブ数を返します。
func (s *Scheduler) InFlight() int {
	return int(s.inFlight.Load())
}

// Started はこれまでに開始したジョブの総数を返します。
func (s *Scheduler) Started() int {
	return int(s.started.Load())
}

// Capacity は同時実行数の上限を返します。
func (s *Scheduler) Capacity() int {
	return cap(s.sem)
}
