package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetSetting は設定値を取得します。未設定の場合は ok が false です。
func (c *SQLiteClient) GetSetting(ctx context.Context, key string) (value string, ok bool, err error) {
	err = c.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("設定 %s の取得に失敗しました: %w", key, err)
	}
	return value, true, nil
}

// SaveSetting は設定値を保存します。既存のキーは上書きします。
func (c *SQLiteClient) SaveSetting(ctx context.Context, key, value string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("設定 %s の保存に失敗しました: %w", key, err)
	}
	return nil
}
