package domain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/fd1az/melwalletd-client/internal/apperror"
)

// DenomKind discriminates the Denom variants.
type DenomKind uint8

const (
	DenomKindMEL DenomKind = iota + 1
	DenomKindSYM
	DenomKindERG
	DenomKindNewCoin
	DenomKindCustom
)

// Denom identifies what a coin is denominated in: one of the fixed native
// denominations, or a custom token named by the bytes of the transaction that
// created it.
//
// Denom is comparable and can be used as a map key. A custom denom keeps its
// tag exactly as received, so two spellings of one token are distinct keys;
// Equal and Canonical compare by token.
type Denom struct {
	kind DenomKind
	// custom holds the hex tag of a Custom denom. Empty otherwise.
	custom string
}

var (
	MEL     = Denom{kind: DenomKindMEL}
	SYM     = Denom{kind: DenomKindSYM}
	ERG     = Denom{kind: DenomKindERG}
	NewCoin = Denom{kind: DenomKindNewCoin}
)

type fixedDenom struct {
	denom Denom
	tag   string
	name  string
	b     byte
}

var fixedDenoms = []fixedDenom{
	{MEL, "6D", "MEL", 'm'},
	{SYM, "73", "SYM", 's'},
	{ERG, "64", "ERG", 'd'},
	{NewCoin, "00", "NEWCOIN", 0x00},
}

const customNamePrefix = "CUSTOM-"

// CustomDenom returns the denom for a custom token. Byte strings that
// coincide with a fixed denomination's tag return that fixed denomination.
func CustomDenom(b []byte) (Denom, error) {
	if len(b) == 0 {
		return Denom{}, apperror.Domain("denom", "custom denomination must not be empty")
	}
	if len(b) == 1 {
		for _, f := range fixedDenoms {
			if f.b == b[0] {
				return f.denom, nil
			}
		}
	}
	return Denom{kind: DenomKindCustom, custom: hex.EncodeToString(b)}, nil
}

// ParseDenomTag decodes the wire form of a denomination: a two-digit hex
// tag for the fixed denominations, any other hex string for a custom one.
// Hex digits are accepted in either case; a custom tag keeps its case.
func ParseDenomTag(tag string) (Denom, error) {
	upper := strings.ToUpper(tag)
	for _, f := range fixedDenoms {
		if f.tag == upper {
			return f.denom, nil
		}
	}
	if tag == "" {
		return Denom{}, apperror.Domain("denom", "empty denomination tag")
	}
	if _, err := hex.DecodeString(tag); err != nil {
		return Denom{}, apperror.Domain("denom", fmt.Sprintf("denomination tag %q is not hex: %v", tag, err))
	}
	return Denom{kind: DenomKindCustom, custom: tag}, nil
}

// CheckDenomTag reports whether tag is a decodable denomination tag.
func CheckDenomTag(tag string) error {
	_, err := ParseDenomTag(tag)
	return err
}

// ParseDenomName parses a display name: MEL, SYM, ERG, NEWCOIN or
// CUSTOM-<hex>. Matching is case-insensitive.
func ParseDenomName(name string) (Denom, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "(NEWCOIN)" {
		return NewCoin, nil
	}
	for _, f := range fixedDenoms {
		if f.name == upper {
			return f.denom, nil
		}
	}
	if rest, ok := strings.CutPrefix(upper, customNamePrefix); ok {
		b, err := hex.DecodeString(rest)
		if err != nil || len(b) == 0 {
			return Denom{}, apperror.Domain("denom", fmt.Sprintf("invalid custom denomination %q", name))
		}
		return CustomDenom(b)
	}
	return Denom{}, apperror.Domain("denom", fmt.Sprintf("unknown denomination %q", name))
}

// Kind returns the variant.
func (d Denom) Kind() DenomKind { return d.kind }

// IsZero reports whether d is the zero value, which is not a valid denom.
func (d Denom) IsZero() bool { return d.kind == 0 }

// IsCustom reports whether d is a custom token.
func (d Denom) IsCustom() bool { return d.kind == DenomKindCustom }

// Bytes returns the on-chain byte form of d.
func (d Denom) Bytes() []byte {
	if d.kind == DenomKindCustom {
		b, _ := hex.DecodeString(d.custom)
		return b
	}
	for _, f := range fixedDenoms {
		if f.denom == d {
			return []byte{f.b}
		}
	}
	return nil
}

// Tag returns the wire form of d: "6D", "73", "64", "00" for the fixed
// denominations, the hex tag of a custom one as it was parsed.
func (d Denom) Tag() string {
	if d.kind == DenomKindCustom {
		return d.custom
	}
	for _, f := range fixedDenoms {
		if f.denom == d {
			return f.tag
		}
	}
	return ""
}

// String returns the display name.
func (d Denom) String() string {
	if d.kind == DenomKindCustom {
		return customNamePrefix + strings.ToUpper(d.custom)
	}
	for _, f := range fixedDenoms {
		if f.denom == d {
			return f.name
		}
	}
	return "INVALID"
}

// Equal reports whether d and o denote the same denomination, ignoring the
// case of a custom tag.
func (d Denom) Equal(o Denom) bool {
	return d.kind == o.kind && strings.EqualFold(d.custom, o.custom)
}

// Canonical returns d with a custom tag in lowercase.
func (d Denom) Canonical() Denom {
	if d.kind == DenomKindCustom {
		d.custom = strings.ToLower(d.custom)
	}
	return d
}
