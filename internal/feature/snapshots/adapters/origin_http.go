// Package adapters はsnapshotsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"stock_dashboard/internal/feature/snapshots/usecase"
)

// OriginHTTP は静的ファイルホストからCSVスナップショットを取得する
// OriginRepository 実装です。
type OriginHTTP struct {
	baseURL string
	client  *http.Client
}

// OriginHTTPがOriginRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.OriginRepository = (*OriginHTTP)(nil)

// NewOriginHTTP は指定されたベースURLとHTTPクライアントでOriginHTTPの
// 新しいインスタンスを生成します。
func NewOriginHTTP(baseURL string, client *http.Client) *OriginHTTP {
	return &OriginHTTP{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Fetch は <base>/<name> をGETし、生バイト列を返します。
// 認証は不要です（配信元は公開の静的アセットです）。
func (o *OriginHTTP) Fetch(ctx context.Context, name string) ([]byte, error) {
	u := fmt.Sprintf("%s/%s", o.baseURL, escapePath(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("origin %s: http %d", name, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("origin %s: read body: %w", name, err)
	}
	return body, nil
}

// escapePath はパス区切りを保ったままセグメント単位でエスケープします。
// ファイル名にはハングルが含まれるため必須です。
func escapePath(name string) string {
	segs := strings.Split(name, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
