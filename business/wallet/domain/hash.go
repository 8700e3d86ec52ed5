package domain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/melwalletd-client/internal/apperror"
)

// Hash is a 32-byte chain hash (transaction hash, header hash, state root).
// Its wire form is 64 lowercase hex digits without a 0x prefix.
type Hash common.Hash

// ParseHash parses a 64-digit hex string. A leading 0x is tolerated.
func ParseHash(s string) (Hash, error) {
	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(raw) != 2*common.HashLength {
		return Hash{}, apperror.Domain("hash", fmt.Sprintf("hash %q must be %d hex digits", s, 2*common.HashLength))
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return Hash{}, apperror.Domain("hash", fmt.Sprintf("hash %q is not hex: %v", s, err))
	}
	return Hash(common.BytesToHash(b)), nil
}

// CheckHash reports whether s parses as a Hash.
func CheckHash(s string) error {
	_, err := ParseHash(s)
	return err
}

// String returns the wire form.
func (h Hash) String() string {
	return strings.TrimPrefix(common.Hash(h).Hex(), "0x")
}

// Bytes returns a copy of the hash bytes.
func (h Hash) Bytes() []byte {
	return common.Hash(h).Bytes()
}

// IsZero reports whether every byte of h is zero.
func (h Hash) IsZero() bool {
	return common.Hash(h) == (common.Hash{})
}
