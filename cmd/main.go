package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/shouni/go-dewey/pkg/narration"
	"github.com/shouni/go-dewey/pkg/narration/queue"
)

// ----------------------------------------------------------------------
// 設定定数
// ----------------------------------------------------------------------

const (
	appClientTimeout = 120 * time.Second

	envLogLevel = "DEWEY_LOG_LEVEL"
	envDBPath   = "DEWEY_DB_PATH"
	envLLMURL   = "DEWEY_LLM_API_URL"
	envLLMKey   = "DEWEY_LLM_API_KEY"
	envLLMModel = "DEWEY_LLM_MODEL"

	defaultDBPath = "dewey.db"
)

const usage = `usage: dewey <command> [args]

commands:
  narrate [-topic id] [-title t] [-max-chars n] <in.md> <out.wav>
  concat <out.wav> <in.wav>...
  chunks [-max-chars n] <in.md>
  card add <topic> <front> <back>
  due <topic>
  review <card-id> <again|hard|good|easy>
  narrations <topic>
  generate [-subtopics] [-parent context] <topic> [template]`

func main() {
	// ログ設定
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevelFromEnv(),
	})))

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	// 実行コンテキスト (Ctrl+C で中断)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{
		// 外部API呼び出しの実行枠はアプリケーション全体で1つを共有する
		scheduler: queue.NewScheduler(queue.Config{
			MaxInFlight: narration.DefaultMaxInFlight,
			MinInterval: narration.DefaultMinInterval,
		}),
		dbPath: envOrDefault(envDBPath, defaultDBPath),
	}
	defer a.close()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		slog.Error("コマンドの実行に失敗しました。", "command", os.Args[1], "error", err)
		a.close()
		stop()
		os.Exit(1)
	}
}

func logLevelFromEnv() slog.Level {
	var level slog.Level
	raw := os.Getenv(envLogLevel)
	if raw == "" {
		return slog.LevelInfo
	}
	if err := level.UnmarshalText([]byte(strings.ToUpper(raw))); err != nil {
		fmt.Fprintf(os.Stderr, "%s の値が不正です (%s)。info を使用します。\n", envLogLevel, raw)
		return slog.LevelInfo
	}
	return level
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
