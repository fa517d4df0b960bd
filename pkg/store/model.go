package store

import (
	"time"

	"github.com/shouni/go-dewey/pkg/srs"
)

// Flashcard はトピックに紐づく問題と解答のペアです。
type Flashcard struct {
	ID        string
	TopicID   string
	Front     string
	Back      string
	Schedule  srs.ScheduleState
	CreatedAt time.Time
}

// Narration は合成済みのナレーション音声です。
// ListNarrations が返す要素の Audio は nil です。
type Narration struct {
	ID        string
	TopicID   string
	Title     string
	Audio     []byte
	Duration  time.Duration
	CreatedAt time.Time
}
