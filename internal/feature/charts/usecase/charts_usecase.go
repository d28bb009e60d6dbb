package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"stock_dashboard/internal/config"
	"stock_dashboard/internal/feature/charts/domain/entity"
	snapshots "stock_dashboard/internal/feature/snapshots/usecase"
	"stock_dashboard/internal/platform/csvtable"
)

// ChartsUsecase はチャートCSVの取得とロウソク足列への変換を提供します。
type ChartsUsecase struct {
	source snapshots.Source
	cfg    *config.Config
}

// NewChartsUsecase は新しい ChartsUsecase を作成します。
func NewChartsUsecase(source snapshots.Source, cfg *config.Config) *ChartsUsecase {
	return &ChartsUsecase{source: source, cfg: cfg}
}

// GetSeries は1ファイル分のロウソク足列を返します。
func (cu *ChartsUsecase) GetSeries(ctx context.Context, name string) (entity.Series, error) {
	body, err := cu.source.Get(ctx, cu.path(name))
	if err != nil {
		return entity.Series{}, err
	}
	t := csvtable.Parse(body)
	return entity.Series{Name: name, Candles: BuildFeed(t, cu.cfg.Schema)}, nil
}

// GetBatch は複数のチャートファイルを並行に取得し、ファイルごとに
// 1つの Series を返します。個々の取得失敗はそのスロットの Err に
// 記録されるだけで、バッチ全体は中断されません。返り値の順序は
// names の順序と一致します。
func (cu *ChartsUsecase) GetBatch(ctx context.Context, names []string) []entity.Series {
	out := make([]entity.Series, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cu.cfg.Charts.Concurrency)
	for i, name := range names {
		g.Go(func() error {
			s, err := cu.GetSeries(gctx, name)
			if err != nil {
				out[i] = entity.Series{Name: name, Err: err}
				return nil // スロット単位で劣化させ、バッチは止めない
			}
			out[i] = s
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// GetIndexOverlay は比較表示用の指数シリーズ（市場全体と新興市場など）を
// それぞれ独立にパイプラインへ通して返します。系列間のマージや補間は
// 行いません。
func (cu *ChartsUsecase) GetIndexOverlay(ctx context.Context) []entity.Series {
	return cu.GetBatch(ctx, cu.cfg.Charts.IndexFiles)
}

// ListFiles はチャートファイル一覧 (file_list.json) を返します。
// 素の配列と {"files": [...]} オブジェクトの両形式を受け付けます。
func (cu *ChartsUsecase) ListFiles(ctx context.Context) ([]string, error) {
	body, err := cu.source.Get(ctx, cu.cfg.Charts.FileList)
	if err != nil {
		return nil, err
	}

	var bare []string
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}
	var wrapped struct {
		Files []string `json:"files"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Files != nil {
		return wrapped.Files, nil
	}
	return nil, fmt.Errorf("parse %s: unrecognized file list shape", cu.cfg.Charts.FileList)
}

// path はチャートディレクトリ設定をファイル名へ前置します。
func (cu *ChartsUsecase) path(name string) string {
	if cu.cfg.Charts.Dir == "" {
		return name
	}
	return cu.cfg.Charts.Dir + "/" + name
}
