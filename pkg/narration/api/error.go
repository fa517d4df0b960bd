package api

import (
	"fmt"
)

// maxBodyDisplay はエラーメッセージに含める応答ボディの最大バイト数です。
const maxBodyDisplay = 100

// ErrAPINetwork は合成APIへの到達失敗 (リトライ後の最終失敗を含む) を表します。
// 原因のエラーは Unwrap で取り出せるため、context.Canceled などを errors.Is で判定できます。
type ErrAPINetwork struct {
	Endpoint   string
	WrappedErr error
}

func (e *ErrAPINetwork) Error() string {
	return fmt.Sprintf("合成APIへの通信に失敗しました (%s): %v", e.Endpoint, e.WrappedErr)
}

func (e *ErrAPINetwork) Unwrap() error { return e.WrappedErr }

// ErrAPIResponse は合成APIが音声を含まない応答、または異常なステータスを返したことを表します。
type ErrAPIResponse struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *ErrAPIResponse) Error() string {
	body := e.Body
	if len(body) > maxBodyDisplay {
		body = body[:maxBodyDisplay] + "..."
	}
	return fmt.Sprintf("合成APIの応答が不正です (%s, status=%d): %s", e.Endpoint, e.StatusCode, body)
}

// ErrInvalidJSON は合成リクエスト・応答のJSON、または audio フィールドのデコードに失敗したことを表します。
type ErrInvalidJSON struct {
	Details    string
	WrappedErr error
}

func (e *ErrInvalidJSON) Error() string {
	return fmt.Sprintf("音声データのデコードに失敗しました: %s: %v", e.Details, e.WrappedErr)
}

func (e *ErrInvalidJSON) Unwrap() error { return e.WrappedErr }
