package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, uint64(DefaultMaxRetries), cfg.MaxRetries)
	require.Equal(t, InitialBackoffInterval, cfg.InitialInterval)
	require.Equal(t, MaxBackoffInterval, cfg.MaxInterval)
}

func TestNewBackOffPolicy(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		MaxRetries:      5,
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
	}

	bo := newBackOffPolicy(ctx, cfg)
	require.NotNil(t, bo)
}

func TestDo(t *testing.T) {
	// テスト用の高速な設定
	testCfg := Config{MaxRetries: 3, InitialInterval: 1 * time.Millisecond, MaxInterval: 10 * time.Millisecond}
	opName := "test_operation"

	t.Run("successful operation", func(t *testing.T) {
		err := Do(context.Background(), testCfg, opName,
			func() error { return nil },
			func(err error) bool { return false },
		)
		require.NoError(t, err)
	})

	t.Run("retryable error and success within max retries", func(t *testing.T) {
		attempt := 0
		err := Do(context.Background(), testCfg, opName,
			func() error {
				attempt++
				if attempt < 3 {
					return errors.New("retryable error")
				}
				return nil
			},
			func(err error) bool { return true },
		)
		require.NoError(t, err)
		require.Equal(t, 3, attempt)
	})

	t.Run("non retryable error aborts immediately", func(t *testing.T) {
		attempt := 0
		err := Do(context.Background(), testCfg, opName,
			func() error {
				attempt++
				return errors.New("bad request")
			},
			func(err error) bool { return false },
		)
		require.Error(t, err)
		require.Equal(t, 1, attempt, "非リトライ対象エラーは再試行されないはず")
		require.Equal(t, "致命的なエラーのためリトライを中止: bad request", err.Error())
	})

	t.Run("max retries exceeded", func(t *testing.T) {
		attempt := 0
		err := Do(context.Background(), testCfg, opName,
			func() error {
				attempt++
				return errors.New("retryable error")
			},
			func(err error) bool { return true },
		)
		require.Error(t, err)
		// 初回 + MaxRetries 回の再試行
		require.Equal(t, int(testCfg.MaxRetries)+1, attempt)
		require.Contains(t, err.Error(), "最大リトライ回数 (3回) に到達")
		require.Contains(t, err.Error(), "retryable error")
	})

	t.Run("context canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := Do(ctx, testCfg, opName,
			func() error { return errors.New("some error") },
			func(err error) bool { return true },
		)
		require.Error(t, err)
		require.Contains(t, err.Error(), "コンテキストタイムアウト/キャンセル")
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("context timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Millisecond)
		defer cancel()
		time.Sleep(2 * time.Millisecond) // 確実にタイムアウトさせる

		err := Do(ctx, testCfg, opName,
			func() error { return errors.New("some error") },
			func(err error) bool { return true },
		)
		require.Error(t, err)
		require.Contains(t, err.Error(), "コンテキストタイムアウト/キャンセル")
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
