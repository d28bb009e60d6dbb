package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/config"
	chartshandler "stock_dashboard/internal/feature/charts/transport/handler"
	rankingshandler "stock_dashboard/internal/feature/rankings/transport/handler"
	snapshotshandler "stock_dashboard/internal/feature/snapshots/transport/handler"
	"stock_dashboard/internal/platform/admingate"
	platformhandler "stock_dashboard/internal/platform/http/handler"
)

func NewRouter(cfg *config.Config, rankings *rankingshandler.RankingsHandler,
	charts *chartshandler.ChartsHandler, files *snapshotshandler.FilesHandler) *gin.Engine {
	r := gin.Default()

	// ダッシュボードのフロントエンドは別オリジンから fetch する
	r.Use(cors.Default())

	// 導通確認用
	r.GET("/healthz", platformhandler.Health)

	// テーブルビュー
	r.GET("/datasets", rankings.ListDatasetsHandler)
	r.GET("/datasets/:name/rows", rankings.GetRowsHandler)

	// ロウソク足チャート
	r.GET("/charts/files", charts.ListFilesHandler)
	r.GET("/charts/index", charts.GetIndexHandler)
	r.GET("/charts/candles", charts.GetBatchHandler)
	r.GET("/charts/:name/candles", charts.GetSeriesHandler)

	// スナップショット更新（fire-and-forget呼び出し）は管理者ゲートで保護
	admin := r.Group("/")
	admin.Use(admingate.Required(cfg.Admin))
	{
		admin.GET("/files", files.ActionHandler)
	}

	return r
}
