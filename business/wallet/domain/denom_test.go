package domain_test

import (
	"math/big"
	"testing"

	"github.com/fd1az/melwalletd-client/business/wallet/domain"
	"github.com/fd1az/melwalletd-client/internal/apperror"
)

func TestDenom_FixedTagsRoundTrip(t *testing.T) {
	tests := []struct {
		tag  string
		want domain.Denom
		name string
	}{
		{"6D", domain.MEL, "MEL"},
		{"73", domain.SYM, "SYM"},
		{"64", domain.ERG, "ERG"},
		{"00", domain.NewCoin, "NEWCOIN"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			d, err := domain.ParseDenomTag(tt.tag)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d != tt.want {
				t.Errorf("expected %s, got %s", tt.want, d)
			}
			if d.Tag() != tt.tag {
				t.Errorf("expected tag %s, got %s", tt.tag, d.Tag())
			}
			if d.String() != tt.name {
				t.Errorf("expected name %s, got %s", tt.name, d.String())
			}
		})
	}
}

func TestDenom_LowercaseFixedTag(t *testing.T) {
	d, err := domain.ParseDenomTag("6d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != domain.MEL {
		t.Errorf("expected MEL, got %s", d)
	}
}

func TestDenom_CustomRoundTrip(t *testing.T) {
	for _, h := range []string{
		"0a",
		"6d6d",
		"c0ffee",
		"C0FFEE",
		"C0ffEe",
		"2f3cd6a6b3a3b0e1a1d7c26e6c3d5b1a6f4c3e2d1b0a9f8e7d6c5b4a3f2e1d0c",
	} {
		d, err := domain.ParseDenomTag(h)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", h, err)
		}
		if !d.IsCustom() {
			t.Fatalf("%s: expected custom denom, got %s", h, d)
		}
		if d.Tag() != h {
			t.Errorf("expected tag %s, got %s", h, d.Tag())
		}
	}
}

func TestDenom_CustomTagCaseIsTheSameToken(t *testing.T) {
	upper, err := domain.ParseDenomTag("C0FFEE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lower, err := domain.ParseDenomTag("c0ffee")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if upper == lower {
		t.Error("expected distinct keys for distinct tag spellings")
	}
	if !upper.Equal(lower) || upper.Canonical() != lower {
		t.Errorf("expected %s and %s to be the same token", upper.Tag(), lower.Tag())
	}
	if string(upper.Bytes()) != string(lower.Bytes()) {
		t.Errorf("expected equal bytes, got %x and %x", upper.Bytes(), lower.Bytes())
	}
	if upper.String() != "CUSTOM-C0FFEE" || lower.String() != "CUSTOM-C0FFEE" {
		t.Errorf("unexpected names %s, %s", upper, lower)
	}

	s := domain.WalletSummary{DetailedBalance: map[domain.Denom]*big.Int{upper: big.NewInt(9)}}
	if got := s.Balance(lower).Raw().String(); got != "9" {
		t.Errorf("expected balance 9 under either spelling, got %s", got)
	}
}

func TestDenom_CustomMatchingFixedByteNormalizes(t *testing.T) {
	d, err := domain.CustomDenom([]byte{'m'})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != domain.MEL {
		t.Errorf("expected MEL, got %s", d)
	}
}

func TestDenom_InvalidTags(t *testing.T) {
	for _, tag := range []string{"", "zz", "6", "abc"} {
		_, err := domain.ParseDenomTag(tag)
		if !apperror.IsDomain(err) {
			t.Errorf("tag %q: expected domain error, got %v", tag, err)
		}
	}
}

func TestDenom_ParseName(t *testing.T) {
	tests := map[string]domain.Denom{
		"MEL":       domain.MEL,
		"sym":       domain.SYM,
		"Erg":       domain.ERG,
		"NEWCOIN":   domain.NewCoin,
		"(NEWCOIN)": domain.NewCoin,
	}
	for name, want := range tests {
		got, err := domain.ParseDenomName(name)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if got != want {
			t.Errorf("%s: expected %s, got %s", name, want, got)
		}
	}

	custom, err := domain.ParseDenomName("CUSTOM-C0FFEE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if custom.Tag() != "c0ffee" || custom.String() != "CUSTOM-C0FFEE" {
		t.Errorf("unexpected custom denom %s (tag %s)", custom, custom.Tag())
	}

	if _, err := domain.ParseDenomName("DOGE"); !apperror.IsDomain(err) {
		t.Errorf("expected domain error, got %v", err)
	}
}

func TestPoolKey_ParseAndString(t *testing.T) {
	k, err := domain.ParsePoolKey("MEL:SYM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k.Left != domain.MEL || k.Right != domain.SYM {
		t.Errorf("unexpected pool key %+v", k)
	}
	if k.String() != "MEL:SYM" {
		t.Errorf("expected MEL:SYM, got %s", k.String())
	}
	if string(k.Bytes()) != "s" {
		t.Errorf("expected pool bytes of SYM, got %x", k.Bytes())
	}

	if _, err := domain.ParsePoolKey("MEL"); !apperror.IsDomain(err) {
		t.Errorf("expected domain error, got %v", err)
	}
}

func TestTransaction_NetSpent(t *testing.T) {
	self := domain.Address("t1self")
	tx := domain.Transaction{
		Kind: domain.TxNormal,
		Outputs: []domain.CoinData{
			{Covhash: "t1other", Value: big.NewInt(700), Denom: domain.MEL},
			{Covhash: self, Value: big.NewInt(300), Denom: domain.MEL},
			{Covhash: "t1other", Value: big.NewInt(50), Denom: domain.SYM},
		},
		Fee: big.NewInt(12),
	}

	if got := tx.NetSpent(self); got.Cmp(big.NewInt(712)) != 0 {
		t.Errorf("expected 712, got %s", got)
	}
}
