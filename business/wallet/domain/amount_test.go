package domain_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/melwalletd-client/business/wallet/domain"
)

func TestAmount_Basic(t *testing.T) {
	faucet := domain.NewAmount(domain.MEL, big.NewInt(1001000000))

	if faucet.IsZero() {
		t.Error("expected non-zero amount")
	}

	if !faucet.ToDecimal().Equal(decimal.NewFromInt(1001)) {
		t.Errorf("expected 1001, got %s", faucet.ToDecimal().String())
	}

	if faucet.String() != "1001 MEL" {
		t.Errorf("expected '1001 MEL', got '%s'", faucet.String())
	}
}

func TestAmount_Immutable(t *testing.T) {
	raw := big.NewInt(5)
	a := domain.NewAmount(domain.SYM, raw)
	raw.SetInt64(99)

	if a.Raw().Int64() != 5 {
		t.Errorf("expected 5, got %s", a.Raw())
	}

	a.Raw().SetInt64(77)
	if a.Raw().Int64() != 5 {
		t.Errorf("Raw must return a copy, got %s", a.Raw())
	}
}

func TestAmount_AddSub(t *testing.T) {
	one := domain.NewAmount(domain.MEL, big.NewInt(1000000))
	two := domain.NewAmount(domain.MEL, big.NewInt(2000000))

	sum, err := one.Add(two)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sum.ToDecimal().Equal(decimal.NewFromInt(3)) {
		t.Errorf("expected 3, got %s", sum.ToDecimal())
	}

	if _, err := one.Sub(two); !errors.Is(err, domain.ErrNegativeResult) {
		t.Errorf("expected ErrNegativeResult, got %v", err)
	}

	other := domain.NewAmount(domain.SYM, big.NewInt(1))
	if _, err := one.Add(other); !errors.Is(err, domain.ErrDenomMismatch) {
		t.Errorf("expected ErrDenomMismatch, got %v", err)
	}
}

func TestAmount_LargeValuesKeepPrecision(t *testing.T) {
	raw, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	a := domain.NewAmount(domain.MEL, raw)

	if a.Raw().Cmp(raw) != 0 {
		t.Errorf("expected %s, got %s", raw, a.Raw())
	}
	if a.ToDecimal().String() != "123456789012345678901234.56789" {
		t.Errorf("unexpected decimal %s", a.ToDecimal())
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr error
	}{
		{"1001", 1001000000, nil},
		{"0.5", 500000, nil},
		{"0.000001", 1, nil},
		{"0.0000001", 0, domain.ErrTooManyDecimals},
		{"-1", 0, domain.ErrNegativeAmount},
		{"abc", 0, domain.ErrInvalidAmountStr},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := domain.ParseAmount(domain.MEL, tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Raw().Int64() != tt.want {
				t.Errorf("expected %d, got %s", tt.want, got.Raw())
			}
		})
	}
}

func TestWalletSummary_Balance(t *testing.T) {
	s := domain.WalletSummary{
		DetailedBalance: map[domain.Denom]*big.Int{domain.MEL: big.NewInt(42)},
	}
	if got := s.Balance(domain.MEL).Raw().Int64(); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if !s.Balance(domain.ERG).IsZero() {
		t.Error("expected zero ERG balance")
	}
}
