package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"stock_dashboard/internal/config"
	"stock_dashboard/internal/feature/rankings/domain/entity"
	snapshots "stock_dashboard/internal/feature/snapshots/usecase"
	"stock_dashboard/internal/platform/csvtable"
)

// Query は1回のテーブル取得のパラメータです。
type Query struct {
	Page      int
	SortKey   string // 空ならデータセットのデフォルトソート
	Direction entity.SortDirection
	Search    string
	Category  string
}

// TableResult はページング済みのテーブルビューです。
type TableResult struct {
	Dataset    string
	Title      string
	Columns    []string
	Records    []entity.RankedRecord
	Sort       entity.SortState
	Page       int
	PageSize   int
	TotalRows  int
	TotalPages int
	// ParseErrors は取り込み時に除外された行数です（診断用）
	ParseErrors int
}

// DatasetInfo はデータセット一覧の1項目です。
type DatasetInfo struct {
	Name      string
	Title     string
	AdminOnly bool
}

// RankingsUsecase はデータセット設定とスナップショットソースを束ね、
// CSV → 正規化 → 結合 → ビューの一連のパイプラインを提供します。
type RankingsUsecase struct {
	source snapshots.Source
	cfg    *config.Config
}

// NewRankingsUsecase は新しい RankingsUsecase を作成します。
func NewRankingsUsecase(source snapshots.Source, cfg *config.Config) *RankingsUsecase {
	return &RankingsUsecase{source: source, cfg: cfg}
}

// ListDatasets は設定済みデータセットの一覧を返します。
func (ru *RankingsUsecase) ListDatasets(ctx context.Context) []DatasetInfo {
	out := make([]DatasetInfo, 0, len(ru.cfg.Datasets))
	for _, d := range ru.cfg.Datasets {
		out = append(out, DatasetInfo{Name: d.Name, Title: d.Title, AdminOnly: d.AdminOnly})
	}
	return out
}

// Dataset は名前からデータセット設定を引きます。
func (ru *RankingsUsecase) Dataset(name string) (config.Dataset, error) {
	ds, ok := ru.cfg.FindDataset(name)
	if !ok {
		return config.Dataset{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
	}
	return ds, nil
}

// GetRows は指定データセットの1ページ分のテーブルビューを返します。
//
// 主ソースと副ソースは並行に取得します。主ソースの取得失敗はエラー、
// 副ソースの取得失敗は警告ログを出して空テーブル扱い（全行センチネル）
// になります。行単位の欠損より部分データを優先します。
func (ru *RankingsUsecase) GetRows(ctx context.Context, name string, q Query) (TableResult, error) {
	ds, err := ru.Dataset(name)
	if err != nil {
		return TableResult{}, err
	}

	primary, secondaries, parseErrs, err := ru.loadTables(ctx, ds)
	if err != nil {
		return TableResult{}, err
	}

	columns, records := Reconcile(primary, ds.JoinKey, secondaries)
	Derive(records, ru.cfg.Schema.MarketCap, ru.cfg.Schema.Change)

	records = Filter(records, FilterQuery{
		Search:        q.Search,
		SearchFields:  ds.SearchFields,
		MinMarketCap:  ds.MinMarketCap,
		MarketCapCols: ru.cfg.Schema.MarketCap,
		Category:      q.Category,
		CategoryField: ds.CategoryField,
	})

	state := entity.SortState{Key: q.SortKey, Direction: q.Direction}
	if state.Key == "" {
		state = entity.SortState{
			Key:       ds.DefaultSort.Key,
			Direction: entity.ParseSortDirection(ds.DefaultSort.Direction),
		}
	}
	sorted := Sort(records, state.Key, state.Direction)

	window, w := Paginate(sorted, q.Page)

	return TableResult{
		Dataset:     ds.Name,
		Title:       ds.Title,
		Columns:     columns,
		Records:     window,
		Sort:        state,
		Page:        w.PageNumber,
		PageSize:    w.PageSize,
		TotalRows:   len(sorted),
		TotalPages:  w.TotalPages(len(sorted)),
		ParseErrors: parseErrs,
	}, nil
}

// loadTables は主・副ソースのCSVを並行に取得してパースします。
func (ru *RankingsUsecase) loadTables(ctx context.Context, ds config.Dataset) (csvtable.ParsedTable, []SecondarySource, int, error) {
	var primary csvtable.ParsedTable
	secondaries := make([]SecondarySource, len(ds.Secondaries))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, err := ru.source.Get(gctx, ds.Primary)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", ds.Primary, err)
		}
		primary = csvtable.Parse(body)
		return nil
	})

	for i, sec := range ds.Secondaries {
		g.Go(func() error {
			body, err := ru.source.Get(gctx, sec.File)
			if err != nil {
				// 副ソースが取れなくても行は残す（センチネル埋め）
				slog.Warn("secondary snapshot unavailable",
					"dataset", ds.Name, "file", sec.File, "error", err)
				secondaries[i] = SecondarySource{Fields: sec.Fields}
				return nil
			}
			secondaries[i] = SecondarySource{
				Table:  csvtable.Parse(body),
				Fields: sec.Fields,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return csvtable.ParsedTable{}, nil, 0, err
	}

	parseErrs := len(primary.Errors)
	for _, sec := range secondaries {
		parseErrs += len(sec.Table.Errors)
	}
	if parseErrs > 0 {
		slog.Warn("csv rows excluded during parse", "dataset", ds.Name, "rows", parseErrs)
	}
	return primary, secondaries, parseErrs, nil
}
