package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/fd1az/melwalletd-client/internal/ratelimit"
)

func TestEvery_FirstCallImmediate(t *testing.T) {
	l := ratelimit.Every(time.Hour)

	if !l.Allow() {
		t.Fatal("first call should be allowed")
	}
	if l.Allow() {
		t.Fatal("second call within the interval should be refused")
	}
}

func TestWait_RespectsContext(t *testing.T) {
	l := ratelimit.Every(time.Hour)
	l.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); err == nil {
		t.Fatal("expected wait to fail before the next token")
	}
}
