// Package entity defines the domain models for the charts feature.
package entity

import "time"

// Candle represents OHLCV (Open, High, Low, Close, Volume) candlestick data
// for one trading day or week of a stock. Rows whose snapshot is missing
// any of open/high/low/close are never turned into a Candle; zero-filling
// would corrupt chart rendering.
type Candle struct {
	Time   time.Time // Calendar date of this candle
	Open   float64   // Opening price
	High   float64   // Highest price during the period
	Low    float64   // Lowest price during the period
	Close  float64   // Closing price
	Volume int64     // Trading volume (0 when the snapshot omits it)
}

// Series is one named, time-ascending candle sequence. A batch load yields
// one Series per chart file; Err carries the per-slot failure instead of
// failing the whole batch.
type Series struct {
	Name    string
	Candles []Candle
	Err     error
}
