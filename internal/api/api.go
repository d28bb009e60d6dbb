// Package api defines response shapes shared across HTTP handlers.
package api

// ErrorResponse is the JSON body returned on any handler failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CandleResponse はロウソク足データのレスポンスDTOです。
type CandleResponse struct {
	Time   string  `json:"time"`   // 日付 (yyyy-mm-dd)
	Open   float64 `json:"open"`   // 始値
	High   float64 `json:"high"`   // 高値
	Low    float64 `json:"low"`    // 安値
	Close  float64 `json:"close"`  // 終値
	Volume int64   `json:"volume"` // 出来高
}
