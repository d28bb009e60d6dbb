// Package handler はchartsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/api"
	"stock_dashboard/internal/feature/charts/domain/entity"
	"stock_dashboard/internal/feature/charts/transport/http/dto"
)

// ChartsUsecase はチャートフィード操作のユースケースインターフェースを
// 定義します。Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ChartsUsecase interface {
	GetSeries(ctx context.Context, name string) (entity.Series, error)
	GetBatch(ctx context.Context, names []string) []entity.Series
	GetIndexOverlay(ctx context.Context) []entity.Series
	ListFiles(ctx context.Context) ([]string, error)
}

// ChartsHandler はロウソク足チャートのHTTPリクエストを処理します。
type ChartsHandler struct {
	uc ChartsUsecase
}

// NewChartsHandler は指定されたusecaseでChartsHandlerの新しい
// インスタンスを生成します。
func NewChartsHandler(uc ChartsUsecase) *ChartsHandler {
	return &ChartsHandler{uc: uc}
}

// GetSeriesHandler は1ファイル分のロウソク足データをJSONで返します。
//
// エンドポイント例:
// GET /charts/삼성전자.csv/candles
func (h *ChartsHandler) GetSeriesHandler(c *gin.Context) {
	name := c.Param("name")

	s, err := h.uc.GetSeries(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, toSeriesResponse(s))
}

// GetBatchHandler は複数ファイルのロウソク足データを一括で返します。
// files クエリが無い場合は file_list.json の一覧を対象にします。
// 個々のファイルの失敗はスロット単位の error として返り、他の
// ファイルの結果には影響しません。
//
// エンドポイント例:
// GET /charts/candles?files=a.csv,b.csv
func (h *ChartsHandler) GetBatchHandler(c *gin.Context) {
	var names []string
	if raw := c.Query("files"); raw != "" {
		for _, n := range strings.Split(raw, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
	} else {
		var err error
		names, err = h.uc.ListFiles(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
			return
		}
	}

	series := h.uc.GetBatch(c.Request.Context(), names)
	out := make([]dto.SeriesResponse, 0, len(series))
	for _, s := range series {
		out = append(out, toSeriesResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

// GetIndexHandler は比較表示用の指数シリーズを返します。
//
// エンドポイント例:
// GET /charts/index
func (h *ChartsHandler) GetIndexHandler(c *gin.Context) {
	series := h.uc.GetIndexOverlay(c.Request.Context())
	out := make([]dto.SeriesResponse, 0, len(series))
	for _, s := range series {
		out = append(out, toSeriesResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

// ListFilesHandler はチャートファイルの一覧を返します。
//
// エンドポイント例:
// GET /charts/files
func (h *ChartsHandler) ListFilesHandler(c *gin.Context) {
	files, err := h.uc.ListFiles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FileListResponse{Files: files})
}

// toSeriesResponse はドメインの Series をレスポンスDTOへ変換します。
func toSeriesResponse(s entity.Series) dto.SeriesResponse {
	res := dto.SeriesResponse{Name: s.Name, Candles: make([]api.CandleResponse, 0, len(s.Candles))}
	if s.Err != nil {
		res.Error = s.Err.Error()
		return res
	}
	for _, x := range s.Candles {
		res.Candles = append(res.Candles, api.CandleResponse{
			Time:   x.Time.UTC().Format("2006-01-02"),
			Open:   x.Open,
			High:   x.High,
			Low:    x.Low,
			Close:  x.Close,
			Volume: x.Volume,
		})
	}
	return res
}
