package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stock_dashboard/internal/feature/charts/domain/entity"
	"stock_dashboard/internal/feature/charts/transport/handler"
)

// mockChartsUsecase はChartsUsecaseインターフェースのモック実装です。
type mockChartsUsecase struct {
	GetSeriesFunc       func(ctx context.Context, name string) (entity.Series, error)
	GetBatchFunc        func(ctx context.Context, names []string) []entity.Series
	GetIndexOverlayFunc func(ctx context.Context) []entity.Series
	ListFilesFunc       func(ctx context.Context) ([]string, error)
}

func (m *mockChartsUsecase) GetSeries(ctx context.Context, name string) (entity.Series, error) {
	return m.GetSeriesFunc(ctx, name)
}

func (m *mockChartsUsecase) GetBatch(ctx context.Context, names []string) []entity.Series {
	return m.GetBatchFunc(ctx, names)
}

func (m *mockChartsUsecase) GetIndexOverlay(ctx context.Context) []entity.Series {
	return m.GetIndexOverlayFunc(ctx)
}

func (m *mockChartsUsecase) ListFiles(ctx context.Context) ([]string, error) {
	return m.ListFilesFunc(ctx)
}

func newChartsRouter(mockUC *mockChartsUsecase) *gin.Engine {
	h := handler.NewChartsHandler(mockUC)
	router := gin.New()
	router.GET("/charts/files", h.ListFilesHandler)
	router.GET("/charts/index", h.GetIndexHandler)
	router.GET("/charts/candles", h.GetBatchHandler)
	router.GET("/charts/:name/candles", h.GetSeriesHandler)
	return router
}

// テスト用の固定時刻
var testTime = time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)

// TestChartsHandler_GetSeriesHandler はGetSeriesHandlerのHTTPリクエスト/レスポンス処理をテストします。
func TestChartsHandler_GetSeriesHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		url            string
		mockGetSeries  func(ctx context.Context, name string) (entity.Series, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: candles returned for file",
			url:  "/charts/005930.csv/candles",
			mockGetSeries: func(ctx context.Context, name string) (entity.Series, error) {
				assert.Equal(t, "005930.csv", name)
				return entity.Series{
					Name: name,
					Candles: []entity.Candle{
						{Time: testTime, Open: 69000, High: 70200, Low: 68900, Close: 70000, Volume: 100},
					},
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"name":"005930.csv","candles":[
				{"time":"2024-05-15","open":69000,"high":70200,"low":68900,"close":70000,"volume":100}
			]}`,
		},
		{
			name: "error: origin failure maps to bad gateway",
			url:  "/charts/9999.csv/candles",
			mockGetSeries: func(ctx context.Context, name string) (entity.Series, error) {
				return entity.Series{}, errors.New("origin down")
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"origin down"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockChartsUsecase{GetSeriesFunc: tt.mockGetSeries}

			router := newChartsRouter(mockUC)
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestChartsHandler_GetBatchHandler はバッチ取得のファイル指定とスロット単位のエラー表現をテストします。
func TestChartsHandler_GetBatchHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockUC := &mockChartsUsecase{
		GetBatchFunc: func(ctx context.Context, names []string) []entity.Series {
			assert.Equal(t, []string{"a.csv", "b.csv"}, names)
			return []entity.Series{
				{Name: "a.csv", Candles: []entity.Candle{
					{Time: testTime, Open: 1, High: 2, Low: 1, Close: 2, Volume: 10},
				}},
				{Name: "b.csv", Err: errors.New("origin down")},
			}
		},
	}

	router := newChartsRouter(mockUC)
	w := httptest.NewRecorder()
	// 空白や空要素は無視される
	req, _ := http.NewRequest(http.MethodGet, "/charts/candles?files=a.csv,%20b.csv,", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"name":"a.csv","candles":[{"time":"2024-05-15","open":1,"high":2,"low":1,"close":2,"volume":10}]},
		{"name":"b.csv","candles":[],"error":"origin down"}
	]`, w.Body.String())
}

// TestChartsHandler_GetBatchHandler_DefaultFileList はfilesクエリ未指定時に
// 一覧ファイルの全件が対象になることをテストします。
func TestChartsHandler_GetBatchHandler_DefaultFileList(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockUC := &mockChartsUsecase{
		ListFilesFunc: func(ctx context.Context) ([]string, error) {
			return []string{"a.csv"}, nil
		},
		GetBatchFunc: func(ctx context.Context, names []string) []entity.Series {
			assert.Equal(t, []string{"a.csv"}, names)
			return []entity.Series{{Name: "a.csv"}}
		},
	}

	router := newChartsRouter(mockUC)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/charts/candles", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"name":"a.csv","candles":[]}]`, w.Body.String())
}

// TestChartsHandler_ListFilesHandler はファイル一覧のレスポンスをテストします。
func TestChartsHandler_ListFilesHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		mockListFiles  func(ctx context.Context) ([]string, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			mockListFiles: func(ctx context.Context) ([]string, error) {
				return []string{"a.csv", "b.csv"}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"files":["a.csv","b.csv"]}`,
		},
		{
			name: "error: list unavailable",
			mockListFiles: func(ctx context.Context) ([]string, error) {
				return nil, errors.New("origin down")
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"origin down"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockChartsUsecase{ListFilesFunc: tt.mockListFiles}

			router := newChartsRouter(mockUC)
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/charts/files", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestChartsHandler_GetIndexHandler は指数シリーズのレスポンスをテストします。
func TestChartsHandler_GetIndexHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockUC := &mockChartsUsecase{
		GetIndexOverlayFunc: func(ctx context.Context) []entity.Series {
			return []entity.Series{
				{Name: "kospi.csv", Candles: []entity.Candle{
					{Time: testTime, Open: 2700, High: 2730, Low: 2690, Close: 2720, Volume: 0},
				}},
			}
		},
	}

	router := newChartsRouter(mockUC)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/charts/index", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"name":"kospi.csv","candles":[{"time":"2024-05-15","open":2700,"high":2730,"low":2690,"close":2720,"volume":0}]}
	]`, w.Body.String())
}
