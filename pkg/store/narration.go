package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shouni/go-dewey/pkg/srs"
)

// SaveNarration はナレーション音声を新規保存し、採番済みのレコードを返します。
func (c *SQLiteClient) SaveNarration(ctx context.Context, n Narration) (Narration, error) {
	if len(n.Audio) == 0 {
		return Narration{}, errors.New("保存する音声データが空です")
	}
	n.ID = uuid.NewString()
	n.CreatedAt = srs.FromEpochMillis(srs.EpochMillis(c.now()))

	_, err := c.db.ExecContext(ctx,
		"INSERT INTO narrations (id, topic_id, title, audio, duration_ms, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		n.ID, n.TopicID, n.Title, n.Audio, n.Duration.Milliseconds(), srs.EpochMillis(n.CreatedAt))
	if err != nil {
		return Narration{}, fmt.Errorf("ナレーションの保存に失敗しました: %w", err)
	}
	return n, nil
}

// GetNarration は音声データを含むナレーションを取得します。
func (c *SQLiteClient) GetNarration(ctx context.Context, id string) (Narration, error) {
	var (
		n          Narration
		durationMs int64
		createdAt  int64
	)
	err := c.db.QueryRowContext(ctx,
		"SELECT id, topic_id, title, audio, duration_ms, created_at FROM narrations WHERE id = ?", id).
		Scan(&n.ID, &n.TopicID, &n.Title, &n.Audio, &durationMs, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Narration{}, fmt.Errorf("ナレーション %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Narration{}, fmt.Errorf("ナレーションの取得に失敗しました: %w", err)
	}
	n.Duration = time.Duration(durationMs) * time.Millisecond
	n.CreatedAt = srs.FromEpochMillis(createdAt)
	return n, nil
}

// ListNarrations はトピックのナレーションを新しい順に返します。音声データは読み込みません。
func (c *SQLiteClient) ListNarrations(ctx context.Context, topicID string) ([]Narration, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT id, topic_id, title, duration_ms, created_at FROM narrations WHERE topic_id = ? ORDER BY created_at DESC, id",
		topicID)
	if err != nil {
		return nil, fmt.Errorf("ナレーションの検索に失敗しました: %w", err)
	}
	defer rows.Close()

	var list []Narration
	for rows.Next() {
		var (
			n          Narration
			durationMs int64
			createdAt  int64
		)
		if err := rows.Scan(&n.ID, &n.TopicID, &n.Title, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("行の読み取りに失敗しました: %w", err)
		}
		n.Duration = time.Duration(durationMs) * time.Millisecond
		n.CreatedAt = srs.FromEpochMillis(createdAt)
		list = append(list, n)
	}
	return list, rows.Err()
}
