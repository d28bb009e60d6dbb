package usecase

import (
	"sort"
	"strings"

	"stock_dashboard/internal/feature/rankings/domain/entity"
	"stock_dashboard/internal/platform/normalize"
)

// FilterQuery はテーブルビューの絞り込み条件です。
type FilterQuery struct {
	Search        string   // 銘柄名・コードへの部分一致（大文字小文字を無視）
	SearchFields  []string // 部分一致の対象列
	MinMarketCap  float64  // 通貨単位の下限（0は無効）。表示値は「억」換算済み
	MarketCapCols []string // 時価総額列のエイリアス
	Category      string   // カテゴリ値での絞り込み（空は無効）
	CategoryField string
}

// Filter は条件に一致するレコードだけを新しいスライスで返します。
func Filter(records []entity.RankedRecord, q FilterQuery) []entity.RankedRecord {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	minEok := int64(0)
	if q.MinMarketCap > 0 {
		minEok = normalize.ScaleToEok(q.MinMarketCap)
	}

	out := make([]entity.RankedRecord, 0, len(records))
	for _, rec := range records {
		if needle != "" && !matchesSearch(rec, q.SearchFields, needle) {
			continue
		}
		if minEok > 0 && !meetsMarketCap(rec, q.MarketCapCols, minEok) {
			continue
		}
		if q.Category != "" && q.CategoryField != "" &&
			strings.TrimSpace(rec.Fields[q.CategoryField]) != q.Category {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesSearch(rec entity.RankedRecord, fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(rec.Fields[f]), needle) {
			return true
		}
	}
	return false
}

func meetsMarketCap(rec entity.RankedRecord, cols []string, minEok int64) bool {
	for _, col := range cols {
		if raw, ok := rec.Fields[col]; ok && raw != entity.Sentinel {
			if v, ok := normalize.Number(raw); ok {
				return int64(v) >= minEok
			}
		}
	}
	// 時価総額が取れない行は閾値で落とさない（部分データ優先）
	return true
}

// Sort はレコードを key と direction に従って並べ替えた新しいスライスを
// 返します。direction が none の場合は入力の順序（ソート前の順序）を
// そのまま保った複製を返すため、呼び出し側はソート前の列を保持して
// 渡してください。
//
// 比較は数値優先です: 両方の値が数値として解釈できる場合は数値比較、
// そうでなければ文字列比較になります。カンマ区切りや "+" 付きの表示値も
// 数値として扱われます。
func Sort(records []entity.RankedRecord, key string, dir entity.SortDirection) []entity.RankedRecord {
	out := append([]entity.RankedRecord(nil), records...)
	if key == "" || dir == entity.SortNone {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		less := compareValues(out[i].Fields[key], out[j].Fields[key]) < 0
		if dir == entity.SortDesc {
			return compareValues(out[j].Fields[key], out[i].Fields[key]) < 0
		}
		return less
	})
	return out
}

// compareValues は数値優先の比較器です。負・0・正を返します。
func compareValues(a, b string) int {
	av, aok := normalize.Number(a)
	bv, bok := normalize.Number(b)
	if aok && bok {
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// Paginate は固定ページサイズの窓を切り出します。範囲外のページは
// 空のスライスを返します。
func Paginate(records []entity.RankedRecord, page int) ([]entity.RankedRecord, entity.PageWindow) {
	if page < 1 {
		page = 1
	}
	w := entity.PageWindow{PageNumber: page, PageSize: entity.PageSize}

	start := (page - 1) * w.PageSize
	if start >= len(records) {
		return []entity.RankedRecord{}, w
	}
	end := start + w.PageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], w
}
