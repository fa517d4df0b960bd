package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/shouni/go-dewey/pkg/srs"
)

// SQLiteClient はフラッシュカード、ナレーション音声、設定を永続化するSQLiteストアです。
type SQLiteClient struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteClient は dbPath のデータベースを開き、必要なテーブルを作成します。
// ":memory:" を指定するとインメモリDBになります。
func NewSQLiteClient(dbPath string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("データベースのオープンに失敗しました: %w", err)
	}
	// SQLiteは単一ライター。インメモリDBは接続ごとに別DBになるため1接続に固定する
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("テーブルの作成に失敗しました: %w", err)
	}
	return &SQLiteClient{db: db, now: time.Now}, nil
}

// Close はデータベース接続を閉じます。
func (c *SQLiteClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// createTables は必要なテーブルが存在しない場合に作成します。
func createTables(db *sql.DB) error {
	statements := []struct {
		name string
		sql  string
	}{
		{name: "flashcards", sql: `
    CREATE TABLE IF NOT EXISTS flashcards (
        id TEXT PRIMARY KEY,
        topic_id TEXT NOT NULL,
        front TEXT NOT NULL,
        back TEXT NOT NULL,
        interval INTEGER NOT NULL DEFAULT 0,
        repetitions INTEGER NOT NULL DEFAULT 0,
        ease_factor REAL NOT NULL DEFAULT 2.5,
        next_review INTEGER,
        created_at INTEGER NOT NULL
    );
    `},
		{name: "flashcards index", sql: `
    CREATE INDEX IF NOT EXISTS idx_flashcards_topic_id ON flashcards(topic_id);
    `},
		{name: "narrations", sql: `
    CREATE TABLE IF NOT EXISTS narrations (
        id TEXT PRIMARY KEY,
        topic_id TEXT NOT NULL,
        title TEXT NOT NULL,
        audio BLOB NOT NULL,
        duration_ms INTEGER NOT NULL DEFAULT 0,
        created_at INTEGER NOT NULL
    );
    `},
		{name: "settings", sql: `
    CREATE TABLE IF NOT EXISTS settings (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL
    );
    `},
	}

	for _, s := range statements {
		if _, err := db.Exec(s.sql); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// nullableMillis はゼロ値の時刻を NULL として扱います。
func nullableMillis(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: srs.EpochMillis(t), Valid: true}
}

func timeFromNullable(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return srs.FromEpochMillis(v.Int64)
}
