// Package normalize は CSV スナップショットの文字列フィールドを
// ドメイン値へ変換する正規化関数群を提供します。
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Eok は韓国の通貨圧縮単位「억」(1億 = 10^8)です。
const Eok = 100_000_000

// dateLayouts はサポートする日付形式を優先順に並べたものです。
// 最初に一致した形式が採用されます。
var dateLayouts = []string{
	"20060102",
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",
	"01/02/2006",
}

// DateTime は各種日付表記を time.Time に正規化します。
// どの形式にも一致しない値は ok=false を返し、呼び出し側は該当行を
// 除外します（推測による補完はしません）。
func DateTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Date は各種日付表記を ISO形式 (yyyy-mm-dd) に正規化します。
func Date(s string) (string, bool) {
	t, ok := DateTime(s)
	if !ok {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// Number は桁区切りカンマや通貨記号を取り除いて数値へ変換します。
// 変換できない値は ok=false と 0 を返します。
func Number(s string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', '₩', '$', '%', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ScaleToEok は通貨単位の生値を「억」単位へ変換し、小数点以下を
// 切り捨てます。例: 200,000,000,000 → 2000.
func ScaleToEok(v float64) int64 {
	return int64(math.Floor(v / Eok))
}

// Comma は整数に3桁区切りのカンマを付けて表示用に整形します。
func Comma(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	start := len(s) % 3
	if start > 0 {
		b.WriteString(s[:start])
	}
	for i := start; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FormatSigned は符号付き小数を小数2桁で整形し、正の値には明示的に
// "+" を付けます。例: 3.2 → "+3.20"。
func FormatSigned(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.2f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// ChangeClass は騰落率の表示クラスを返します。
type ChangeClass string

const (
	ClassStrongPositive ChangeClass = "strong-positive" // +5% 以上
	ClassNegative       ChangeClass = "negative"        // マイナス
	ClassNeutral        ChangeClass = "neutral"
)

// ClassifyChange は騰落率(%)を表示クラスへ分類します。
func ClassifyChange(pct float64) ChangeClass {
	switch {
	case pct >= 5:
		return ClassStrongPositive
	case pct < 0:
		return ClassNegative
	default:
		return ClassNeutral
	}
}

// Flag は 'y' / 'Y' をフラグONとみなします（MTT など）。
func Flag(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "y")
}
