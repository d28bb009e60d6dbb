package usecase

import "errors"

// ErrDatasetNotFound は未設定のデータセット名が指定されたことを示します。
var ErrDatasetNotFound = errors.New("dataset not found")
