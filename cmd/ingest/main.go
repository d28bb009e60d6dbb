package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"stock_dashboard/internal/config"
	chartsusecase "stock_dashboard/internal/feature/charts/usecase"
	snapshotsadapters "stock_dashboard/internal/feature/snapshots/adapters"
	snapshotsusecase "stock_dashboard/internal/feature/snapshots/usecase"
	platformdb "stock_dashboard/internal/platform/db"
	platformhttp "stock_dashboard/internal/platform/http"
	"stock_dashboard/internal/shared/logging"
	"stock_dashboard/internal/shared/ratelimiter"
)

// 配信元への一括リフレッシュは毎分60リクエストまでに抑える
const requestsPerMinute = 60

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatal(err)
	}
	logging.Setup(cfg.Logging.Level)

	if cfg.Origin.BaseURL == "" {
		log.Fatal("origin base_url is not configured")
	}

	db, err := platformdb.OpenDB(cfg.DB)
	if err != nil {
		log.Fatal("failed to open snapshot store:", err)
	}

	httpClient := platformhttp.NewHTTPClient(time.Duration(cfg.Origin.TimeoutSeconds) * time.Second)
	origin := snapshotsadapters.NewOriginHTTP(cfg.Origin.BaseURL, httpClient)
	store := snapshotsadapters.NewSnapshotStore(db)

	source := snapshotsusecase.NewSnapshotUsecase(origin, store)
	rl := ratelimiter.NewRateLimiter(requestsPerMinute, time.Minute)
	uc := snapshotsusecase.NewRefreshUsecase(source, rl)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	files := collectFiles(ctx, cfg, source)

	if err := uc.RefreshAll(ctx, files); err != nil {
		log.Fatal(err)
	}
	log.Printf("refresh ok: %d files", len(files))
}

// collectFiles は設定からリフレッシュ対象の全ファイルを組み立てます。
// データセットの主・副ソースに加え、file_list.json に載っている
// 銘柄別チャートCSVと指数CSVも対象にします。
func collectFiles(ctx context.Context, cfg *config.Config, source snapshotsusecase.Source) []snapshotsusecase.FileSpec {
	var files []snapshotsusecase.FileSpec
	seen := map[string]struct{}{}
	add := func(name, dataType string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		files = append(files, snapshotsusecase.FileSpec{Name: name, DataType: dataType})
	}

	for _, ds := range cfg.Datasets {
		add(ds.Primary, "ranking")
		for _, sec := range ds.Secondaries {
			add(sec.File, "secondary")
		}
	}

	chartsUC := chartsusecase.NewChartsUsecase(source, cfg)
	chartFiles, err := chartsUC.ListFiles(ctx)
	if err != nil {
		// チャート一覧が取れなくてもテーブル系のリフレッシュは続行する
		log.Println("[WARN] failed to load chart file list:", err)
	}
	dir := cfg.Charts.Dir
	prefix := func(name string) string {
		if dir == "" {
			return name
		}
		return dir + "/" + name
	}
	for _, f := range chartFiles {
		add(prefix(f), "chart")
	}
	for _, f := range cfg.Charts.IndexFiles {
		add(prefix(f), "index")
	}

	return files
}
