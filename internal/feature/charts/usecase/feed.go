// Package usecase はチャートフィード（ロウソク足変換・バッチ取得）の
// ビジネスロジックを実装します。
package usecase

import (
	"log/slog"
	"sort"

	"stock_dashboard/internal/config"
	"stock_dashboard/internal/feature/charts/domain/entity"
	"stock_dashboard/internal/platform/csvtable"
	"stock_dashboard/internal/platform/normalize"
)

// BuildFeed は日足・週足CSVのテーブルを時刻昇順のロウソク足列へ変換します。
//
// 変換規則:
//   - 日付列はエイリアス（날짜/일자/Date）を順に探し、正規化できない行は除外
//   - 시가/고가/저가/종가 のいずれかが欠けた行は除外（0埋めしない）
//   - 거래량 は任意項目で、数値化できなければ 0
func BuildFeed(t csvtable.ParsedTable, schema config.Schema) []entity.Candle {
	out := make([]entity.Candle, 0, len(t.Rows))
	dropped := 0

	for _, row := range t.Rows {
		raw, ok := row.First(schema.Date...)
		if !ok {
			dropped++
			continue
		}
		tm, ok := normalize.DateTime(raw)
		if !ok {
			dropped++
			continue
		}

		o, ok1 := number(row, schema.Open)
		h, ok2 := number(row, schema.High)
		l, ok3 := number(row, schema.Low)
		cl, ok4 := number(row, schema.Close)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			dropped++
			continue
		}

		// 出来高だけは0フォールバック（必須4値は上で除外済み）
		vol, _ := number(row, schema.Volume)

		out = append(out, entity.Candle{
			Time:   tm,
			Open:   o,
			High:   h,
			Low:    l,
			Close:  cl,
			Volume: int64(vol),
		})
	}

	if dropped > 0 {
		slog.Warn("chart rows dropped during normalization", "dropped", dropped, "kept", len(out))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

func number(row csvtable.RawRow, aliases []string) (float64, bool) {
	raw, ok := row.First(aliases...)
	if !ok {
		return 0, false
	}
	return normalize.Number(raw)
}
