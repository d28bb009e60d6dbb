// Package dto defines response shapes for the charts feature.
package dto

import "stock_dashboard/internal/api"

// SeriesResponse is one named candle sequence. Error is set when this
// slot of a batch failed to load; Candles is empty in that case.
type SeriesResponse struct {
	Name    string               `json:"name"`
	Candles []api.CandleResponse `json:"candles"`
	Error   string               `json:"error,omitempty"`
}

// FileListResponse lists the chart files available for batch loading.
type FileListResponse struct {
	Files []string `json:"files"`
}
