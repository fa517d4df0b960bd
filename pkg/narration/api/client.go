package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"

	"github.com/shouni/go-dewey/pkg/narration/audio"
)

// ----------------------------------------------------------------------
// クライアント構造体とコンストラクタ
// ----------------------------------------------------------------------

// Client はテキスト読み上げ (TTS) APIへのリクエストを処理するクライアントです。
// httpkit.Client を利用してリトライ機能を内包します。
type Client struct {
	client *httpkit.Client // リトライ機能付きHTTPクライアント
	apiURL string
	apiKey string
	voice  string
	preset string
}

// ClientOption は Client の任意設定を適用する関数です。
type ClientOption func(*Client)

// WithVoice は合成に使用する音声名を指定します。
func WithVoice(voice string) ClientOption {
	return func(c *Client) {
		if voice != "" {
			c.voice = voice
		}
	}
}

// WithPreset は音声プリセットを指定します。
func WithPreset(preset string) ClientOption {
	return func(c *Client) {
		c.preset = preset
	}
}

// NewClient は新しいClientインスタンスを初期化します。
func NewClient(apiURL, apiKey string, timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		client: httpkit.New(timeout),
		apiURL: apiURL,
		apiKey: apiKey,
		voice:  DefaultVoice,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Voice は現在の音声名を返します。
func (c *Client) Voice() string { return c.voice }

// ----------------------------------------------------------------------
// API呼び出しロジック
// ----------------------------------------------------------------------

// Synthesize はテキストを1リクエストで合成し、WAVデータを返します。
// 応答ボディがWAVそのものであればそのまま、JSONであれば "audio" フィールドを
// base64 (data URL 形式も可) としてデコードします。
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	endpoint := c.apiURL

	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, &ErrAPINetwork{Endpoint: endpoint, WrappedErr: fmt.Errorf("API URLのパース失敗: %w", err)}
	}

	payload, err := json.Marshal(SynthesisRequest{
		Text:         text,
		Preset:       c.preset,
		Voice:        c.voice,
		OutputFormat: outputFormatWav,
	})
	if err != nil {
		return nil, &ErrInvalidJSON{Details: "合成リクエストのエンコード", WrappedErr: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &ErrAPINetwork{Endpoint: endpoint, WrappedErr: fmt.Errorf("リクエスト構築失敗: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/wav, application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	// c.client.DoRequest() がリトライ、ステータスチェック、ボディ読み取りを処理
	body, err := c.client.DoRequest(req)
	if err != nil {
		return nil, &ErrAPINetwork{Endpoint: endpoint, WrappedErr: err}
	}

	wavData, err := decodeAudio(endpoint, body)
	if err != nil {
		return nil, err
	}

	// 結合前に壊れた応答を検出する
	if _, err := audio.ParseWav(wavData); err != nil {
		return nil, fmt.Errorf("%s の応答が有効なWAVではありません: %w", endpoint, err)
	}

	return wavData, nil
}

// ----------------------------------------------------------------------
// 内部ヘルパー関数
// ----------------------------------------------------------------------

// decodeAudio は応答ボディから音声バイト列を取り出します。
func decodeAudio(endpoint string, body []byte) ([]byte, error) {
	if bytes.HasPrefix(body, []byte("RIFF")) {
		return body, nil
	}

	var resp SynthesisResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ErrInvalidJSON{Details: fmt.Sprintf("%s 応答JSONのデコード", endpoint), WrappedErr: err}
	}
	if resp.Audio == "" {
		return nil, &ErrAPIResponse{Endpoint: endpoint, StatusCode: http.StatusOK, Body: string(body)}
	}

	encoded := resp.Audio
	if strings.HasPrefix(encoded, "data:") {
		_, after, ok := strings.Cut(encoded, ",")
		if !ok {
			return nil, &ErrInvalidJSON{Details: "audio フィールドのdata URL", WrappedErr: errors.New("カンマ区切りがありません")}
		}
		encoded = after
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &ErrInvalidJSON{Details: "audio フィールドのbase64デコード", WrappedErr: err}
	}
	return decoded, nil
}
