package main

import (
	"log"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"stock_dashboard/internal/app/router"
	"stock_dashboard/internal/config"
	chartshandler "stock_dashboard/internal/feature/charts/transport/handler"
	chartsusecase "stock_dashboard/internal/feature/charts/usecase"
	rankingshandler "stock_dashboard/internal/feature/rankings/transport/handler"
	rankingsusecase "stock_dashboard/internal/feature/rankings/usecase"
	snapshotsadapters "stock_dashboard/internal/feature/snapshots/adapters"
	snapshotshandler "stock_dashboard/internal/feature/snapshots/transport/handler"
	snapshotsusecase "stock_dashboard/internal/feature/snapshots/usecase"
	"stock_dashboard/internal/platform/cache"
	platformdb "stock_dashboard/internal/platform/db"
	platformhttp "stock_dashboard/internal/platform/http"
	platformredis "stock_dashboard/internal/platform/redis"
	"stock_dashboard/internal/shared/logging"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatal(err)
	}
	logging.Setup(cfg.Logging.Level)

	if cfg.Origin.BaseURL == "" {
		log.Fatal("origin base_url is not configured (set ORIGIN_BASE_URL or configs/config.yaml)")
	}

	// スナップショットストア（配信元ダウン時のフォールバック）
	var store snapshotsusecase.SnapshotStore
	if db, err := platformdb.OpenDB(cfg.DB); err != nil {
		slog.Warn("snapshot store unavailable, running without fallback", "error", err)
	} else {
		store = snapshotsadapters.NewSnapshotStore(db)
	}

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Addr == "" {
		log.Println("[INFO] Redis not configured. Running without cache.")
	} else if tmp, err := platformredis.NewRedisClient(cfg.Redis); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	httpClient := platformhttp.NewHTTPClient(time.Duration(cfg.Origin.TimeoutSeconds) * time.Second)
	origin := snapshotsadapters.NewOriginHTTP(cfg.Origin.BaseURL, httpClient)

	// Redisキャッシュでラップ（TTLはスナップショット再生成時刻まで）
	snapshotUC := snapshotsusecase.NewSnapshotUsecase(origin, store)
	ttl := cache.TimeUntilNext8AM()
	source := cache.NewCachingSnapshotSource(rdb, ttl, snapshotUC, "snapshots")

	// Usecase
	rankingsUC := rankingsusecase.NewRankingsUsecase(source, cfg)
	chartsUC := chartsusecase.NewChartsUsecase(source, cfg)

	// Handler
	rankingsH := rankingshandler.NewRankingsHandler(rankingsUC, cfg.Admin, cfg.Schema.Change)
	chartsH := chartshandler.NewChartsHandler(chartsUC)
	filesH := snapshotshandler.NewFilesHandler(source)

	// ルータ生成
	r := router.NewRouter(cfg, rankingsH, chartsH, filesH)

	// ADMIN_TOKENチェック（開発中の注意喚起）
	if cfg.Admin.Token == "" {
		log.Println("[WARN] ADMIN_TOKEN is not set. Admin-only datasets will be inaccessible.")
	}

	if err := r.Run(cfg.Server.Addr()); err != nil {
		log.Fatal(err)
	}
}
