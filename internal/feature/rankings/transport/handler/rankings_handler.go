// Package handler はrankingsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/api"
	"stock_dashboard/internal/config"
	"stock_dashboard/internal/feature/rankings/domain/entity"
	"stock_dashboard/internal/feature/rankings/transport/http/dto"
	"stock_dashboard/internal/feature/rankings/usecase"
	"stock_dashboard/internal/platform/admingate"
	"stock_dashboard/internal/platform/normalize"
)

// RankingsUsecase はランキングテーブル操作のユースケースインターフェースを
// 定義します。Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type RankingsUsecase interface {
	ListDatasets(ctx context.Context) []usecase.DatasetInfo
	Dataset(name string) (config.Dataset, error)
	GetRows(ctx context.Context, name string, q usecase.Query) (usecase.TableResult, error)
}

// RankingsHandler はランキングテーブルのHTTPリクエストを処理します。
type RankingsHandler struct {
	uc    RankingsUsecase
	admin config.Admin
	// changeCols は表示クラス判定に使う騰落率列のエイリアスです
	changeCols []string
}

// NewRankingsHandler は指定されたusecaseでRankingsHandlerの新しい
// インスタンスを生成します。
func NewRankingsHandler(uc RankingsUsecase, admin config.Admin, changeCols []string) *RankingsHandler {
	return &RankingsHandler{uc: uc, admin: admin, changeCols: changeCols}
}

// ListDatasetsHandler は設定済みデータセットの一覧を返します。
//
// エンドポイント例:
// GET /datasets
func (h *RankingsHandler) ListDatasetsHandler(c *gin.Context) {
	infos := h.uc.ListDatasets(c.Request.Context())
	out := make([]dto.DatasetResponse, 0, len(infos))
	for _, d := range infos {
		out = append(out, dto.DatasetResponse{Name: d.Name, Title: d.Title, AdminOnly: d.AdminOnly})
	}
	c.JSON(http.StatusOK, out)
}

// GetRowsHandler はデータセット名とビュー条件を受け取り、1ページ分の
// テーブルをJSONで返します。
//
// エンドポイント例:
// GET /datasets/:name/rows?page=1&sortKey=RS&direction=desc&search=삼성&category=지속
func (h *RankingsHandler) GetRowsHandler(c *gin.Context) {
	name := c.Param("name")

	ds, err := h.uc.Dataset(name)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
		return
	}
	// 管理者専用データセット（トークン使用量など）はクッキーゲートで保護
	if ds.AdminOnly && !admingate.IsAdmin(c, h.admin) {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "admin only"})
		return
	}

	// 未指定の場合はデフォルト値を使用
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	q := usecase.Query{
		Page:      page,
		SortKey:   c.Query("sortKey"),
		Direction: entity.ParseSortDirection(c.Query("direction")),
		Search:    c.Query("search"),
		Category:  c.Query("category"),
	}

	res, err := h.uc.GetRows(c.Request.Context(), name, q)
	if err != nil {
		if errors.Is(err, usecase.ErrDatasetNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.toResponse(res))
}

// toResponse はユースケースの結果をレスポンスDTOへ変換します。
func (h *RankingsHandler) toResponse(res usecase.TableResult) dto.TableResponse {
	rows := make([]dto.RowResponse, 0, len(res.Records))
	for _, rec := range res.Records {
		row := dto.RowResponse{Fields: rec.Fields}
		for _, col := range h.changeCols {
			if v, ok := normalize.Number(rec.Get(col)); ok {
				row.ChangeClass = string(normalize.ClassifyChange(v))
				break
			}
		}
		rows = append(rows, row)
	}

	return dto.TableResponse{
		Dataset:     res.Dataset,
		Title:       res.Title,
		Columns:     res.Columns,
		Rows:        rows,
		Sort:        dto.SortResponse{Key: res.Sort.Key, Direction: string(res.Sort.Direction)},
		Page:        res.Page,
		PageSize:    res.PageSize,
		TotalRows:   res.TotalRows,
		TotalPages:  res.TotalPages,
		ParseErrors: res.ParseErrors,
	}
}
