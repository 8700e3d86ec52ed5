package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fd1az/melwalletd-client/business/wallet/domain"
	"github.com/fd1az/melwalletd-client/internal/logger"
	"github.com/fd1az/melwalletd-client/internal/ratelimit"
)

var errNoHeaderYet = errors.New("no header fetched yet")

// HeaderWatcher follows the daemon's latest header and remembers the outcome
// of the most recent poll.
type HeaderWatcher struct {
	reader  ChainReader
	limiter *ratelimit.Limiter
	logger  logger.LoggerInterface

	mu      sync.RWMutex
	last    domain.Header
	lastErr error
}

// NewHeaderWatcher polls reader at most once per interval.
func NewHeaderWatcher(reader ChainReader, interval time.Duration, log logger.LoggerInterface) *HeaderWatcher {
	if log == nil {
		log = logger.Discard()
	}
	return &HeaderWatcher{
		reader:  reader,
		limiter: ratelimit.Every(interval),
		logger:  log,
		lastErr: errNoHeaderYet,
	}
}

// Run polls until ctx is done. Poll failures are recorded and logged, never
// returned.
func (w *HeaderWatcher) Run(ctx context.Context) {
	for {
		if err := w.limiter.Wait(ctx); err != nil {
			return
		}
		w.Poll(ctx)
	}
}

// Poll fetches the header once and records the result. A poll cut short by
// ctx is not recorded.
func (w *HeaderWatcher) Poll(ctx context.Context) (domain.Header, error) {
	h, err := w.reader.LatestHeader(ctx)
	if err != nil && ctx.Err() != nil {
		return h, err
	}

	w.mu.Lock()
	prev, prevErr := w.last, w.lastErr
	w.lastErr = err
	if err == nil {
		w.last = h
	}
	w.mu.Unlock()

	switch {
	case err != nil:
		w.logger.Warn(ctx, "header poll failed", "error", err)
	case prevErr != nil || prev.Height == nil || prev.Height.Cmp(h.Height) != 0:
		w.logger.Info(ctx, "new block",
			"network", h.Network.String(),
			"height", h.Height.String(),
			"fee_multiplier", h.FeeMultiplier.String())
	}
	return h, err
}

// Last returns the most recent successful header and the error of the most
// recent poll.
func (w *HeaderWatcher) Last() (domain.Header, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.last, w.lastErr
}

// Healthy reports whether the last poll succeeded. It matches the shape of
// a health check.
func (w *HeaderWatcher) Healthy(context.Context) (bool, string) {
	h, err := w.Last()
	if err != nil {
		return false, err.Error()
	}
	return true, fmt.Sprintf("%s height %s", h.Network, h.Height)
}
