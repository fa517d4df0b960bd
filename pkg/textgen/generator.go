package textgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/shouni/go-dewey/pkg/narration/queue"
)

// Generator はトピックの本文とサブトピックを生成します。
type Generator interface {
	GenerateContent(ctx context.Context, topic, template string) (string, error)
	GenerateSubtopics(ctx context.Context, topic, parentContext string) ([]string, error)
}

// OpenAICompatible は OpenAI 互換のチャット補完APIでテキストを生成します。
// BaseURL を変えることで OpenRouter や自前のサーバーにも接続できます。
type OpenAICompatible struct {
	client    *openai.Client
	model     string
	scheduler *queue.Scheduler
}

type Config struct {
	APIKey     string
	BaseURL    string // 省略時は DefaultBaseURL
	Model      string // 省略時は DefaultModel
	HTTPClient *http.Client
	// Scheduler を指定すると API 呼び出しを共有の実行枠で制御します
	Scheduler *queue.Scheduler
}

func NewOpenAICompatible(cfg Config) (*OpenAICompatible, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("APIキーが設定されていません")
	}
	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = DefaultBaseURL
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		config.HTTPClient = cfg.HTTPClient
	} else {
		config.HTTPClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &OpenAICompatible{
		client:    openai.NewClientWithConfig(config),
		model:     model,
		scheduler: cfg.Scheduler,
	}, nil
}

// GenerateContent はテンプレートの文体でトピックのMarkdown本文を生成します。
func (p *OpenAICompatible) GenerateContent(ctx context.Context, topic, template string) (string, error) {
	return p.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(contentPrompt, topic, template)},
	})
}

// GenerateSubtopics はサブトピック名の一覧を生成します。
// 応答がJSONの文字列配列として解釈できない場合は、エラーにせず空の一覧を返します。
func (p *OpenAICompatible) GenerateSubtopics(ctx context.Context, topic, parentContext string) ([]string, error) {
	contextLine := ""
	if parentContext != "" {
		contextLine = fmt.Sprintf(subtopicContextLine, parentContext)
	}

	content, err := p.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: subtopicSystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(subtopicPrompt, topic, contextLine)},
	})
	if err != nil {
		return nil, err
	}
	return parseSubtopics(ctx, content), nil
}

func (p *OpenAICompatible) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	var content string
	call := func(ctx context.Context) error {
		resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    p.model,
			Messages: messages,
		})
		if err != nil {
			return fmt.Errorf("チャット補完リクエストに失敗しました (model=%s): %w", p.model, err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("チャット補完の応答に choices がありません (model=%s)", p.model)
		}
		content = resp.Choices[0].Message.Content
		return nil
	}

	var err error
	if p.scheduler != nil {
		err = p.scheduler.Do(ctx, call)
	} else {
		err = call(ctx)
	}
	return content, err
}

func parseSubtopics(ctx context.Context, content string) []string {
	var topics []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &topics); err != nil {
		slog.WarnContext(ctx, "サブトピック応答をJSON配列として解析できませんでした", "content", content, "error", err)
		return []string{}
	}
	if topics == nil {
		return []string{}
	}
	return topics
}
