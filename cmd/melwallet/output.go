package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/fd1az/melwalletd-client/business/wallet/app"
	"github.com/fd1az/melwalletd-client/business/wallet/domain"
	"github.com/fd1az/melwalletd-client/internal/apperror"
	"github.com/fd1az/melwalletd-client/internal/wirecodec"
)

// action is the body of a subcommand. Its result is printed as wire JSON.
type action func(ctx context.Context, h *app.DaemonHandle, args []string) (wirecodec.Value, error)

// run adapts an action to cobra, wrapping it in a span named after the
// command.
func run(fn action) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, span := env.tracer.StartSpanFromContext(cmd.Context(), "melwallet."+cmd.Name())
		defer span.End()

		out, err := fn(ctx, env.handle, args)
		if err != nil {
			span.NoticeError(err)
			return err
		}
		return printValue(cmd.OutOrStdout(), out)
	}
}

// printValue writes v indented. Indenting works on the encoded text, so
// integers keep every digit.
func printValue(w io.Writer, v wirecodec.Value) error {
	raw, err := wirecodec.Encode(v)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}

func parseHash(s string) (domain.Hash, error) {
	h, err := domain.ParseHash(s)
	if err != nil {
		return domain.Hash{}, apperror.InvalidInput("hash", err)
	}
	return h, nil
}

func parseDenom(s string) (domain.Denom, error) {
	d, err := domain.ParseDenomName(s)
	if err != nil {
		return domain.Denom{}, apperror.InvalidInput("denom", err)
	}
	return d, nil
}

// parseValue reads a display-unit amount such as "0.5" into micro units.
func parseValue(d domain.Denom, s string) (*big.Int, error) {
	a, err := domain.ParseAmount(d, s)
	if err != nil {
		return nil, apperror.InvalidInput("value", fmt.Errorf("%q: %w", s, err))
	}
	if a.IsZero() {
		return nil, apperror.InvalidInput("value", fmt.Errorf("%q: must be positive", s))
	}
	return a.Raw(), nil
}
