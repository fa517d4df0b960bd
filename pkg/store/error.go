package store

import "errors"

// ErrNotFound は指定したIDのレコードが存在しないことを示します。
var ErrNotFound = errors.New("レコードが見つかりません")
