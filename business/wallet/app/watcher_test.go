package app_test

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/melwalletd-client/business/wallet/app"
	"github.com/fd1az/melwalletd-client/business/wallet/domain"
	"github.com/fd1az/melwalletd-client/internal/apperror"
)

type headerSource struct {
	app.ChainReader

	mu    sync.Mutex
	calls int
	fail  bool
}

func (h *headerSource) LatestHeader(context.Context) (domain.Header, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	if h.fail {
		return domain.Header{}, apperror.Transport("latest_header", errors.New("connection refused"))
	}
	return domain.Header{Network: domain.NetTestnet, Height: big.NewInt(int64(100 + h.calls))}, nil
}

func TestHeaderWatcher_HealthFollowsLastPoll(t *testing.T) {
	src := &headerSource{}
	w := app.NewHeaderWatcher(src, time.Millisecond, nil)

	ok, msg := w.Healthy(context.Background())
	assert.False(t, ok, "unhealthy before the first poll")
	assert.NotEmpty(t, msg)

	h, err := w.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "101", h.Height.String())

	ok, msg = w.Healthy(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "testnet height 101", msg)

	src.fail = true
	_, err = w.Poll(context.Background())
	assert.True(t, apperror.IsTransport(err))

	ok, _ = w.Healthy(context.Background())
	assert.False(t, ok)
	last, _ := w.Last()
	assert.Equal(t, "101", last.Height.String(), "last good header is kept")
}

func TestHeaderWatcher_RunStopsWithContext(t *testing.T) {
	src := &headerSource{}
	w := app.NewHeaderWatcher(src, time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	w.Run(ctx)

	src.mu.Lock()
	defer src.mu.Unlock()
	assert.Greater(t, src.calls, 1)
}

func TestHeaderWatcher_CancelledPollIsNotRecorded(t *testing.T) {
	src := &headerSource{}
	w := app.NewHeaderWatcher(src, time.Millisecond, nil)
	_, err := w.Poll(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src.fail = true
	_, err = w.Poll(ctx)
	require.Error(t, err)

	ok, msg := w.Healthy(context.Background())
	assert.True(t, ok, "shutdown must not mark the daemon unhealthy")
	assert.Equal(t, "testnet height 101", msg)
}
