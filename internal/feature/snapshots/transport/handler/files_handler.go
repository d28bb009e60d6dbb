// Package handler はsnapshotsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/api"
)

// SnapshotSource はスナップショット更新のユースケースインターフェースを
// 定義します。Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SnapshotSource interface {
	Refresh(ctx context.Context, name, dataType string) error
}

// FilesHandler はスナップショットファイル管理のHTTPリクエストを処理します。
type FilesHandler struct {
	source SnapshotSource
}

// NewFilesHandler は指定されたsourceでFilesHandlerの新しいインスタンスを
// 生成します。
func NewFilesHandler(source SnapshotSource) *FilesHandler {
	return &FilesHandler{source: source}
}

// ActionHandler はクエリ駆動のファイル操作を処理します。呼び出し側の
// 多くはレスポンスを読み捨てるfire-and-forget呼び出しです。
//
// エンドポイント例:
// GET /files?action=update-file&fileId=rs_rank.csv&dataType=ranking
func (h *FilesHandler) ActionHandler(c *gin.Context) {
	action := c.Query("action")
	if action != "update-file" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "unknown action"})
		return
	}

	fileID := c.Query("fileId")
	if fileID == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "fileId is required"})
		return
	}
	dataType := c.Query("dataType")

	if err := h.source.Refresh(c.Request.Context(), fileID, dataType); err != nil {
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "fileId": fileID})
}
