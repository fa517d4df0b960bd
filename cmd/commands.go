package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/shouni/go-dewey/pkg/narration"
	"github.com/shouni/go-dewey/pkg/narration/audio"
	"github.com/shouni/go-dewey/pkg/narration/parser"
	"github.com/shouni/go-dewey/pkg/narration/queue"
	"github.com/shouni/go-dewey/pkg/srs"
	"github.com/shouni/go-dewey/pkg/store"
	"github.com/shouni/go-dewey/pkg/textgen"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan, color.Bold)
)

var errUsage = errors.New("引数が不正です\n" + usage)

type app struct {
	scheduler *queue.Scheduler
	dbPath    string
	db        *store.SQLiteClient
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "narrate":
		return a.narrate(ctx, args)
	case "concat":
		return concat(args)
	case "chunks":
		return chunks(args)
	case "card":
		if len(args) == 0 || args[0] != "add" {
			return errUsage
		}
		return a.addCard(ctx, args[1:])
	case "due":
		return a.due(ctx, args)
	case "review":
		return a.review(ctx, args)
	case "narrations":
		return a.narrations(ctx, args)
	case "generate":
		return a.generate(ctx, args)
	default:
		return errUsage
	}
}

// store はデータベースを必要になった時点で開きます。
func (a *app) store() (*store.SQLiteClient, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := store.NewSQLiteClient(a.dbPath)
	if err != nil {
		return nil, err
	}
	a.db = db
	return db, nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}

// ----------------------------------------------------------------------
// ナレーション
// ----------------------------------------------------------------------

func (a *app) narrate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("narrate", flag.ContinueOnError)
	topic := fs.String("topic", "", "保存先のトピックID (指定時はDBにも保存)")
	title := fs.String("title", "", "ナレーションのタイトル")
	maxChars := fs.Int("max-chars", narration.DefaultMaxChars, "1リクエストあたりの最大文字数")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errUsage
	}
	inputFile, outputFile := fs.Arg(0), fs.Arg(1)

	content, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("入力ファイルの読み込みに失敗しました: %w", err)
	}

	executor, err := narration.NewEngineExecutor(ctx, appClientTimeout, a.scheduler)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "音声合成処理を開始します。", "output", outputFile)

	if *topic == "" {
		if err := executor.ExecuteToFile(ctx, string(content), outputFile, narration.WithMaxChars(*maxChars)); err != nil {
			return err
		}
	} else {
		wavData, err := executor.Execute(ctx, string(content), narration.WithMaxChars(*maxChars))
		if err != nil {
			return err
		}
		if err := writeFile(outputFile, wavData); err != nil {
			return err
		}
		if err := a.saveNarration(ctx, *topic, *title, inputFile, wavData); err != nil {
			return err
		}
	}

	absPath, _ := filepath.Abs(outputFile)
	green.Printf("✅ 音声合成が正常に完了しました。ファイル: %s\n", absPath)
	return nil
}

func (a *app) saveNarration(ctx context.Context, topicID, title, inputFile string, wavData []byte) error {
	db, err := a.store()
	if err != nil {
		return err
	}
	parsed, err := audio.ParseWav(wavData)
	if err != nil {
		return err
	}
	if title == "" {
		title = filepath.Base(inputFile)
	}
	saved, err := db.SaveNarration(ctx, store.Narration{
		TopicID:  topicID,
		Title:    title,
		Audio:    wavData,
		Duration: parsed.Duration(),
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "ナレーションを保存しました。", "id", saved.ID, "topic", topicID, "duration", saved.Duration.String())
	return nil
}

func (a *app) narrations(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	db, err := a.store()
	if err != nil {
		return err
	}
	list, err := db.ListNarrations(ctx, args[0])
	if err != nil {
		return err
	}
	if len(list) == 0 {
		yellow.Println("ナレーションはありません。")
		return nil
	}
	for _, n := range list {
		fmt.Printf("%s  %-30s %8s  %s\n", n.ID, n.Title, n.Duration.Round(time.Second), n.CreatedAt.Format(time.DateTime))
	}
	return nil
}

func concat(args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	outputFile, inputs := args[0], args[1:]

	blobs := make([][]byte, len(inputs))
	for i, in := range inputs {
		b, err := os.ReadFile(in)
		if err != nil {
			return fmt.Errorf("入力ファイルの読み込みに失敗しました: %w", err)
		}
		blobs[i] = b
	}

	combined, err := audio.ConcatWav(blobs)
	if err != nil {
		return err
	}
	if err := writeFile(outputFile, combined); err != nil {
		return err
	}
	green.Printf("✅ %d 個のWAVを結合しました。ファイル: %s\n", len(inputs), outputFile)
	return nil
}

func chunks(args []string) error {
	fs := flag.NewFlagSet("chunks", flag.ContinueOnError)
	maxChars := fs.Int("max-chars", parser.DefaultMaxChars, "1チャンクあたりの最大文字数")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}

	content, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("入力ファイルの読み込みに失敗しました: %w", err)
	}

	segments, err := parser.NewParser(*maxChars).Parse(string(content))
	if err != nil {
		return err
	}
	for _, seg := range segments {
		cyan.Printf("[%d] (%d文字)\n", seg.Index, utf8.RuneCountInString(seg.Text))
		fmt.Println(seg.Text)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("出力ディレクトリの作成に失敗しました (%s): %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// ----------------------------------------------------------------------
// フラッシュカード
// ----------------------------------------------------------------------

func (a *app) addCard(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errUsage
	}
	db, err := a.store()
	if err != nil {
		return err
	}
	card, err := db.AddFlashcard(ctx, store.Flashcard{TopicID: args[0], Front: args[1], Back: args[2]})
	if err != nil {
		return err
	}
	green.Printf("カードを追加しました: %s\n", card.ID)
	return nil
}

func (a *app) due(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	db, err := a.store()
	if err != nil {
		return err
	}
	cards, err := db.DueFlashcards(ctx, args[0], time.Now())
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		yellow.Println("復習対象のカードはありません。")
		return nil
	}
	for _, c := range cards {
		status := "new"
		if !c.Schedule.NextReview.IsZero() {
			status = c.Schedule.NextReview.Format(time.DateOnly)
		}
		cyan.Printf("%s ", c.ID)
		fmt.Printf("[%s] %s\n", status, c.Front)
	}
	return nil
}

func (a *app) review(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	button, err := srs.ParseButton(args[1])
	if err != nil {
		return err
	}
	db, err := a.store()
	if err != nil {
		return err
	}
	card, err := db.ReviewFlashcard(ctx, args[0], button.Grade(), time.Now())
	if err != nil {
		return err
	}

	c := green
	if card.Schedule.Repetitions == 0 {
		c = yellow
	}
	c.Printf("%s: 次回 %s (間隔 %d日, 易しさ %.2f)\n",
		button, card.Schedule.NextReview.Format(time.DateOnly), card.Schedule.Interval, card.Schedule.EaseFactor)
	fmt.Printf("答え: %s\n", card.Back)
	return nil
}

// ----------------------------------------------------------------------
// テキスト生成
// ----------------------------------------------------------------------

func (a *app) generate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	subtopics := fs.Bool("subtopics", false, "本文の代わりにサブトピック一覧を生成する")
	parent := fs.String("parent", "", "親トピック名 (サブトピック生成時の文脈)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		return errUsage
	}
	topic := fs.Arg(0)

	apiKey := os.Getenv(envLLMKey)
	if apiKey == "" {
		return fmt.Errorf("%s 環境変数が設定されていません", envLLMKey)
	}
	baseURL := os.Getenv(envLLMURL)
	if baseURL == "" {
		baseURL = textgen.DefaultBaseURL
		slog.WarnContext(ctx, envLLMURL+" 環境変数が設定されていません。", "default_url", baseURL)
	}

	g, err := newGenerator(textgen.Config{
		APIKey:    apiKey,
		BaseURL:   baseURL,
		Model:     os.Getenv(envLLMModel),
		Scheduler: a.scheduler,
	})
	if err != nil {
		return err
	}

	if *subtopics {
		list, err := g.GenerateSubtopics(ctx, textgen.CleanTitle(topic), *parent)
		if err != nil {
			return err
		}
		for _, s := range list {
			fmt.Println("- " + s)
		}
		return nil
	}

	template := "{{topic}}について、重要な概念を順に説明してください。"
	if fs.NArg() == 2 {
		template = fs.Arg(1)
	}
	content, err := g.GenerateContent(ctx, textgen.CleanTitle(topic),
		textgen.InterpolatePrompt(template, textgen.PromptVars{Topic: topic}))
	if err != nil {
		return err
	}
	fmt.Println(content)
	return nil
}

func newGenerator(cfg textgen.Config) (textgen.Generator, error) {
	g, err := textgen.NewOpenAICompatible(cfg)
	if err != nil {
		return nil, err
	}
	return g, nil
}
