// Package usecase はスナップショット取得・更新のビジネスロジックを実装します。
package usecase

import (
	"context"
	"log/slog"
	"time"

	"stock_dashboard/internal/feature/snapshots/domain/entity"
)

// OriginRepository はCSVスナップショットの配信元（静的ファイルホスト）を
// 抽象化します。Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type OriginRepository interface {
	// Fetch は指定ファイルの生バイト列を配信元から取得します。
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// SnapshotStore は最後に取得できたスナップショットの永続層を抽象化します。
// 配信元が落ちている間のフォールバックとして使います。
type SnapshotStore interface {
	Find(ctx context.Context, name string) (entity.Snapshot, error)
	Upsert(ctx context.Context, snap entity.Snapshot) error
}

// Source はスナップショット本文の読み取り側インターフェースです。
// キャッシュデコレータと SnapshotUsecase の両方が実装します。
type Source interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Refresh(ctx context.Context, name, dataType string) error
}

// SnapshotUsecase は配信元とストアを束ねたスナップショット操作を提供します。
type SnapshotUsecase struct {
	origin OriginRepository
	store  SnapshotStore
}

var _ Source = (*SnapshotUsecase)(nil)

// NewSnapshotUsecase は新しい SnapshotUsecase を作成します。
func NewSnapshotUsecase(origin OriginRepository, store SnapshotStore) *SnapshotUsecase {
	return &SnapshotUsecase{origin: origin, store: store}
}

// Get はスナップショット本文を返します。配信元から取得できた場合は
// ストアへベストエフォートで保存し、配信元が失敗した場合は最後に
// 保存できた本文へフォールバックします。
func (su *SnapshotUsecase) Get(ctx context.Context, name string) ([]byte, error) {
	body, err := su.origin.Fetch(ctx, name)
	if err != nil {
		if su.store != nil {
			if snap, serr := su.store.Find(ctx, name); serr == nil {
				slog.Warn("origin fetch failed, serving stored snapshot",
					"name", name, "fetched_at", snap.FetchedAt, "error", err)
				return snap.Body, nil
			}
		}
		return nil, err
	}

	if su.store != nil {
		snap := entity.Snapshot{Name: name, Body: body, FetchedAt: time.Now()}
		if serr := su.store.Upsert(ctx, snap); serr != nil {
			// 保存失敗は取得結果に影響させない
			slog.Warn("failed to store snapshot", "name", name, "error", serr)
		}
	}
	return body, nil
}

// Refresh は配信元から指定ファイルを取り直し、ストアを更新します。
// ?action=update-file&fileId=...&dataType=... の実体です。
func (su *SnapshotUsecase) Refresh(ctx context.Context, name, dataType string) error {
	body, err := su.origin.Fetch(ctx, name)
	if err != nil {
		return err
	}
	if su.store == nil {
		return nil
	}
	return su.store.Upsert(ctx, entity.Snapshot{
		Name:      name,
		DataType:  dataType,
		Body:      body,
		FetchedAt: time.Now(),
	})
}
