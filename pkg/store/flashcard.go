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

const flashcardColumns = "id, topic_id, front, back, interval, repetitions, ease_factor, next_review, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlashcard(row rowScanner) (Flashcard, error) {
	var (
		card       Flashcard
		nextReview sql.NullInt64
		createdAt  int64
	)
	err := row.Scan(&card.ID, &card.TopicID, &card.Front, &card.Back,
		&card.Schedule.Interval, &card.Schedule.Repetitions, &card.Schedule.EaseFactor,
		&nextReview, &createdAt)
	if err != nil {
		return Flashcard{}, err
	}
	card.Schedule.NextReview = timeFromNullable(nextReview)
	card.CreatedAt = srs.FromEpochMillis(createdAt)
	return card, nil
}

// AddFlashcard は新規カードとして保存します。ID は採番し、スケジュールは初期値にリセットします。
func (c *SQLiteClient) AddFlashcard(ctx context.Context, card Flashcard) (Flashcard, error) {
	card.ID = uuid.NewString()
	card.Schedule = srs.NewScheduleState()
	card.CreatedAt = srs.FromEpochMillis(srs.EpochMillis(c.now()))

	_, err := c.db.ExecContext(ctx,
		"INSERT INTO flashcards ("+flashcardColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		card.ID, card.TopicID, card.Front, card.Back,
		card.Schedule.Interval, card.Schedule.Repetitions, card.Schedule.EaseFactor,
		nullableMillis(card.Schedule.NextReview), srs.EpochMillis(card.CreatedAt))
	if err != nil {
		return Flashcard{}, fmt.Errorf("フラッシュカードの追加に失敗しました: %w", err)
	}
	return card, nil
}

// GetFlashcard はIDでカードを取得します。存在しない場合は ErrNotFound を返します。
func (c *SQLiteClient) GetFlashcard(ctx context.Context, id string) (Flashcard, error) {
	row := c.db.QueryRowContext(ctx, "SELECT "+flashcardColumns+" FROM flashcards WHERE id = ?", id)
	card, err := scanFlashcard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Flashcard{}, fmt.Errorf("フラッシュカード %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Flashcard{}, fmt.Errorf("フラッシュカードの取得に失敗しました: %w", err)
	}
	return card, nil
}

// ListFlashcards はトピックのカードを作成順に返します。
func (c *SQLiteClient) ListFlashcards(ctx context.Context, topicID string) ([]Flashcard, error) {
	return c.queryFlashcards(ctx,
		"SELECT "+flashcardColumns+" FROM flashcards WHERE topic_id = ? ORDER BY created_at, id",
		topicID)
}

// DueFlashcards は now 時点で復習対象のカードを返します。
// 新規カード (next_review が NULL) を先頭に、以降は予定日時の早い順です。
func (c *SQLiteClient) DueFlashcards(ctx context.Context, topicID string, now time.Time) ([]Flashcard, error) {
	return c.queryFlashcards(ctx,
		"SELECT "+flashcardColumns+` FROM flashcards
		WHERE topic_id = ? AND (next_review IS NULL OR next_review <= ?)
		ORDER BY next_review IS NOT NULL, next_review, created_at, id`,
		topicID, srs.EpochMillis(now))
}

func (c *SQLiteClient) queryFlashcards(ctx context.Context, query string, args ...any) ([]Flashcard, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("フラッシュカードの検索に失敗しました: %w", err)
	}
	defer rows.Close()

	var cards []Flashcard
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			return nil, fmt.Errorf("行の読み取りに失敗しました: %w", err)
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// UpdateSchedule はカードのスケジュールを上書きします。
func (c *SQLiteClient) UpdateSchedule(ctx context.Context, id string, s srs.ScheduleState) error {
	return updateSchedule(ctx, c.db, id, s)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func updateSchedule(ctx context.Context, db execer, id string, s srs.ScheduleState) error {
	result, err := db.ExecContext(ctx,
		"UPDATE flashcards SET interval = ?, repetitions = ?, ease_factor = ?, next_review = ? WHERE id = ?",
		s.Interval, s.Repetitions, s.EaseFactor, nullableMillis(s.NextReview), id)
	if err != nil {
		return fmt.Errorf("スケジュールの更新に失敗しました: %w", err)
	}
	return requireAffected(result, "フラッシュカード", id)
}

// ReviewFlashcard は評価値をカードに適用し、更新後のカードを返します。
// 読み込みから保存までを1トランザクションで行います。
func (c *SQLiteClient) ReviewFlashcard(ctx context.Context, id string, grade srs.Grade, now time.Time) (Flashcard, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return Flashcard{}, fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, "SELECT "+flashcardColumns+" FROM flashcards WHERE id = ?", id)
	card, err := scanFlashcard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Flashcard{}, fmt.Errorf("フラッシュカード %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Flashcard{}, fmt.Errorf("フラッシュカードの取得に失敗しました: %w", err)
	}

	card.Schedule = card.Schedule.Review(grade, now)
	if err := updateSchedule(ctx, tx, id, card.Schedule); err != nil {
		return Flashcard{}, err
	}
	if err := tx.Commit(); err != nil {
		return Flashcard{}, fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}

	// 保存値と同じミリ秒精度にそろえる
	card.Schedule.NextReview = srs.FromEpochMillis(srs.EpochMillis(card.Schedule.NextReview))
	return card, nil
}

// DeleteFlashcard はカードを削除します。
func (c *SQLiteClient) DeleteFlashcard(ctx context.Context, id string) error {
	result, err := c.db.ExecContext(ctx, "DELETE FROM flashcards WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("フラッシュカードの削除に失敗しました: %w", err)
	}
	return requireAffected(result, "フラッシュカード", id)
}

func requireAffected(result sql.Result, kind, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新件数の取得に失敗しました: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
