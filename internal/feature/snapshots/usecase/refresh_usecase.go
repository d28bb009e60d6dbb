package usecase

import (
	"context"
	"log/slog"

	"stock_dashboard/internal/shared/ratelimiter"
)

// FileSpec は一括リフレッシュの対象ファイルです。
type FileSpec struct {
	Name     string
	DataType string
}

// RefreshUsecase は設定済みスナップショットの一括リフレッシュを定義します。
// cmd/ingest から利用します。
type RefreshUsecase struct {
	source      Source
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewRefreshUsecase は新しい RefreshUsecase を作成します。
func NewRefreshUsecase(source Source, rateLimiter ratelimiter.RateLimiterInterface) *RefreshUsecase {
	return &RefreshUsecase{source: source, rateLimiter: rateLimiter}
}

// RefreshAll は指定された全ファイルを配信元から取り直します。
// 配信元のレートリミットを考慮して、リクエスト間に適切な待機時間を設けます。
func (ru *RefreshUsecase) RefreshAll(ctx context.Context, files []FileSpec) error {
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		ru.rateLimiter.WaitIfNeeded()
		if err := ru.source.Refresh(ctx, f.Name, f.DataType); err != nil {
			// 1ファイルでエラーが発生しても処理を止めずにログに出力し、次の処理を続ける
			slog.Error("failed to refresh snapshot", "file", f.Name, "error", err)
			continue
		}
	}
	return nil
}
