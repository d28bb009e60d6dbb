// Package usecase はランキングテーブルのビジネスロジック
// （結合・派生列・フィルタ・ソート・ページング）を実装します。
package usecase

import (
	"strings"

	"stock_dashboard/internal/feature/rankings/domain/entity"
	"stock_dashboard/internal/platform/csvtable"
	"stock_dashboard/internal/platform/normalize"
)

// SecondarySource は結合対象の副ソースです。Fields に挙げた列だけを
// レコードへ取り込みます。
type SecondarySource struct {
	Table  csvtable.ParsedTable
	Fields []string
}

// Reconcile は主ソースの各行に副ソースの列を結合し、RankedRecord を
// 1行につき1件生成します。
//
// 結合規則:
//   - 結合キーは trim 後の完全一致（大文字小文字は区別）
//   - 副ソース側で複数一致する場合は最初の行のみ採用
//   - 一致しない主行は捨てずに、副ソース列へセンチネル値を入れる
//
// 返り値の列リストは主ソースの列順に副ソースの列を追加したものです。
func Reconcile(primary csvtable.ParsedTable, joinKey string, secondaries []SecondarySource) ([]string, []entity.RankedRecord) {
	columns := append([]string(nil), primary.Headers...)
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		seen[c] = struct{}{}
	}

	// 副ソースごとに結合キー → 行 の索引を作る（先勝ち）
	indexes := make([]map[string]csvtable.RawRow, len(secondaries))
	for i, sec := range secondaries {
		idx := make(map[string]csvtable.RawRow, len(sec.Table.Rows))
		for _, row := range sec.Table.Rows {
			k := strings.TrimSpace(row[joinKey])
			if k == "" {
				continue
			}
			if _, ok := idx[k]; !ok {
				idx[k] = row
			}
		}
		indexes[i] = idx

		for _, f := range sec.Fields {
			if _, ok := seen[f]; !ok {
				seen[f] = struct{}{}
				columns = append(columns, f)
			}
		}
	}

	records := make([]entity.RankedRecord, 0, len(primary.Rows))
	for _, row := range primary.Rows {
		fields := make(map[string]string, len(columns))
		for _, h := range primary.Headers {
			fields[h] = row[h]
		}

		key := strings.TrimSpace(row[joinKey])
		for i, sec := range secondaries {
			match, ok := indexes[i][key]
			for _, f := range sec.Fields {
				if ok {
					if v, has := match[f]; has && v != "" {
						fields[f] = v
						continue
					}
				}
				if _, has := fields[f]; !has || fields[f] == "" {
					fields[f] = entity.Sentinel
				}
			}
		}

		records = append(records, entity.RankedRecord{Fields: fields})
	}

	return columns, records
}

// Derive は表示用の派生列を整えます。
//   - 時価総額列: 生の通貨単位を「억」へ換算し、カンマ区切りで整形
//   - 등락률列: 小数2桁・正値は "+" 付きで整形
//
// センチネルや数値でない値はそのまま残します。
func Derive(records []entity.RankedRecord, marketCapAliases, changeAliases []string) {
	for _, rec := range records {
		for _, col := range marketCapAliases {
			if raw, ok := rec.Fields[col]; ok && raw != entity.Sentinel {
				if v, ok := normalize.Number(raw); ok {
					rec.Fields[col] = normalize.Comma(normalize.ScaleToEok(v))
				}
			}
		}
		for _, col := range changeAliases {
			if raw, ok := rec.Fields[col]; ok && raw != entity.Sentinel {
				if v, ok := normalize.Number(raw); ok {
					rec.Fields[col] = normalize.FormatSigned(v)
				}
			}
		}
	}
}
