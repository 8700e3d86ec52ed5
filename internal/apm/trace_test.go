package apm_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/melwalletd-client/internal/apm"
	"github.com/fd1az/melwalletd-client/internal/logger"
)

func TestParseHeaders(t *testing.T) {
	h, err := apm.ParseHeaders("x-honeycomb-team=abc, api-key = k")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"x-honeycomb-team": "abc", "api-key": "k"}, h)

	h, err = apm.ParseHeaders("")
	require.NoError(t, err)
	assert.Empty(t, h)

	_, err = apm.ParseHeaders("novalue")
	assert.Error(t, err)
}

func TestConsoleProvider_ExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	tp, err := apm.NewTraceProvider(logger.Discard(), apm.Config{
		Provider:    apm.ConsoleProvider,
		ServiceName: "melwallet-test",
		Writer:      &buf,
	})
	require.NoError(t, err)

	_, span := apm.NewTracer("test").StartSpanFromContext(context.Background(), "melwallet.header")
	assert.NotEmpty(t, span.TraceID())
	span.NoticeError(errors.New("boom"))
	span.End()

	require.NoError(t, tp.Stop())
	assert.Contains(t, buf.String(), "melwallet.header")
	assert.Contains(t, buf.String(), "boom")
}

func TestUnknownProvider(t *testing.T) {
	_, err := apm.NewTraceProvider(logger.Discard(), apm.Config{Provider: "jaeger"})
	assert.Error(t, err)

	tp, err := apm.NewTraceProvider(logger.Discard(), apm.Config{Provider: apm.EmptyProvider})
	require.NoError(t, err)
	assert.NoError(t, tp.Stop())
}
