package cache

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

// mockSnapshotSource はテスト用のSourceモック実装です。
type mockSnapshotSource struct {
	getFn     func(ctx context.Context, name string) ([]byte, error)
	refreshFn func(ctx context.Context, name, dataType string) error
}

// Get はモックのGet関数を呼び出します。
func (m *mockSnapshotSource) Get(ctx context.Context, name string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, name)
	}
	return nil, nil
}

// Refresh はモックのRefresh関数を呼び出します。
func (m *mockSnapshotSource) Refresh(ctx context.Context, name, dataType string) error {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, name, dataType)
	}
	return nil
}

// TestNewCachingSnapshotSource_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingSnapshotSource_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{
			name:              "default values when zero/empty",
			ttl:               0,
			namespace:         "",
			expectedTTL:       5 * time.Minute,
			expectedNamespace: "snapshots",
		},
		{
			name:              "negative ttl uses default",
			ttl:               -1 * time.Minute,
			namespace:         "",
			expectedTTL:       5 * time.Minute,
			expectedNamespace: "snapshots",
		},
		{
			name:              "custom values preserved",
			ttl:               10 * time.Minute,
			namespace:         "custom",
			expectedTTL:       10 * time.Minute,
			expectedNamespace: "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := NewCachingSnapshotSource(nil, tt.ttl, &mockSnapshotSource{}, tt.namespace)

			if src.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, src.ttl)
			}
			if src.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, src.namespace)
			}
		})
	}
}

// TestCachingSnapshotSource_Get_NilRedis はRedisがnilの場合にキャッシュをバイパスして内部ソースを直接呼び出すことを検証します。
func TestCachingSnapshotSource_Get_NilRedis(t *testing.T) {
	t.Parallel()

	expected := []byte("종목명,RS\n삼성전자,95\n")
	inner := &mockSnapshotSource{
		getFn: func(ctx context.Context, name string) ([]byte, error) {
			return expected, nil
		},
	}

	// Redis is nil - should bypass cache and call inner directly
	src := NewCachingSnapshotSource(nil, 5*time.Minute, inner, "snapshots")

	body, err := src.Get(context.Background(), "rs_rank.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(body, expected) {
		t.Errorf("unexpected body: %q", body)
	}
}

// TestCachingSnapshotSource_Get_CacheHit はキャッシュヒット時にRedisから本文を返し、内部ソースを呼ばないことを検証します。
func TestCachingSnapshotSource_Get_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached := []byte("종목명,RS\n삼성전자,95\n")
	mock.ExpectGet("snapshots:rs_rank.csv").SetVal(string(cached))

	innerCalled := false
	inner := &mockSnapshotSource{
		getFn: func(ctx context.Context, name string) ([]byte, error) {
			innerCalled = true
			return nil, nil
		},
	}

	src := NewCachingSnapshotSource(rdb, 5*time.Minute, inner, "snapshots")
	body, err := src.Get(context.Background(), "rs_rank.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if innerCalled {
		t.Error("inner source should not be called on cache hit")
	}
	if !bytes.Equal(body, cached) {
		t.Errorf("unexpected body: %q", body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingSnapshotSource_Get_CacheMiss はキャッシュミス時に内部ソースから取得し、キャッシュに保存することを検証します。
func TestCachingSnapshotSource_Get_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected := []byte("종목명,RS\n삼성전자,95\n")

	// Cache miss
	mock.ExpectGet("snapshots:rs_rank.csv").RedisNil()
	// Set cache after fetching from inner
	mock.ExpectSet("snapshots:rs_rank.csv", expected, 5*time.Minute).SetVal("OK")

	inner := &mockSnapshotSource{
		getFn: func(ctx context.Context, name string) ([]byte, error) {
			return expected, nil
		},
	}

	src := NewCachingSnapshotSource(rdb, 5*time.Minute, inner, "snapshots")
	body, err := src.Get(context.Background(), "rs_rank.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(body, expected) {
		t.Errorf("unexpected body: %q", body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingSnapshotSource_Get_InnerError は内部ソースがエラーを返した場合にそのエラーが伝播されることを検証します。
func TestCachingSnapshotSource_Get_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("origin down")

	mock.ExpectGet("snapshots:rs_rank.csv").RedisNil()

	inner := &mockSnapshotSource{
		getFn: func(ctx context.Context, name string) ([]byte, error) {
			return nil, expectedErr
		},
	}

	src := NewCachingSnapshotSource(rdb, 5*time.Minute, inner, "snapshots")
	_, err := src.Get(context.Background(), "rs_rank.csv")

	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

// TestCachingSnapshotSource_Get_EmptyBodyNotCached は空の本文をキャッシュしないことを検証します。
func TestCachingSnapshotSource_Get_EmptyBodyNotCached(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("snapshots:empty.csv").RedisNil()
	// No Set expectation: empty bodies are not cached

	inner := &mockSnapshotSource{
		getFn: func(ctx context.Context, name string) ([]byte, error) {
			return []byte{}, nil
		},
	}

	src := NewCachingSnapshotSource(rdb, 5*time.Minute, inner, "snapshots")
	if _, err := src.Get(context.Background(), "empty.csv"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingSnapshotSource_Refresh_Invalidation はRefresh後にキャッシュが無効化されることを検証します。
func TestCachingSnapshotSource_Refresh_Invalidation(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectDel("snapshots:rs_rank.csv").SetVal(1)

	refreshed := false
	inner := &mockSnapshotSource{
		refreshFn: func(ctx context.Context, name, dataType string) error {
			refreshed = true
			return nil
		},
	}

	src := NewCachingSnapshotSource(rdb, 5*time.Minute, inner, "snapshots")
	if err := src.Refresh(context.Background(), "rs_rank.csv", "ranking"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !refreshed {
		t.Error("expected inner source to be refreshed")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingSnapshotSource_Refresh_InnerError は内部ソースのRefreshエラー時にキャッシュを消さないことを検証します。
func TestCachingSnapshotSource_Refresh_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("origin down")
	inner := &mockSnapshotSource{
		refreshFn: func(ctx context.Context, name, dataType string) error {
			return expectedErr
		},
	}

	src := NewCachingSnapshotSource(rdb, 5*time.Minute, inner, "snapshots")
	err := src.Refresh(context.Background(), "rs_rank.csv", "ranking")

	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCacheKey はキー生成（名前空間とエスケープ）を検証します。
func TestCacheKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"rs_rank.csv", "snapshots:rs_rank.csv"},
		{"charts/005930.csv", "snapshots:charts/005930.csv"},
		{"with space.csv", "snapshots:with_space.csv"},
		{"a:b", "snapshots:a_b"},
	}

	src := NewCachingSnapshotSource(nil, 5*time.Minute, &mockSnapshotSource{}, "snapshots")

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := src.cacheKey(tt.input); got != tt.expected {
				t.Errorf("cacheKey(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}
