package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/fd1az/melwalletd-client/internal/apperror"
)

// NetID identifies the network a wallet or header belongs to.
type NetID uint8

const (
	NetTestnet  NetID = 0x01
	NetCustom02 NetID = 0x02
	NetCustom03 NetID = 0x03
	NetCustom04 NetID = 0x04
	NetCustom05 NetID = 0x05
	NetCustom06 NetID = 0x06
	NetCustom07 NetID = 0x07
	NetCustom08 NetID = 0x08
	NetMainnet  NetID = 0xff
)

var netNames = map[NetID]string{
	NetTestnet:  "testnet",
	NetCustom02: "custom02",
	NetCustom03: "custom03",
	NetCustom04: "custom04",
	NetCustom05: "custom05",
	NetCustom06: "custom06",
	NetCustom07: "custom07",
	NetCustom08: "custom08",
	NetMainnet:  "mainnet",
}

// NetIDCodes lists every known network code.
func NetIDCodes() []int64 {
	return []int64{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0xff}
}

// NetIDFromCode maps a wire code to a NetID.
func NetIDFromCode(code *big.Int) (NetID, error) {
	if code != nil && code.IsInt64() && code.Int64() >= 0 && code.Int64() <= 0xff {
		n := NetID(code.Int64())
		if _, ok := netNames[n]; ok {
			return n, nil
		}
	}
	return 0, apperror.Domain("network", fmt.Sprintf("unknown network code %s", code))
}

// ParseNetID parses a network name such as "mainnet".
func ParseNetID(name string) (NetID, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for id, n := range netNames {
		if n == lower {
			return id, nil
		}
	}
	return 0, apperror.Domain("network", fmt.Sprintf("unknown network %q", name))
}

// Code returns the wire code.
func (n NetID) Code() *big.Int { return big.NewInt(int64(n)) }

func (n NetID) String() string {
	if name, ok := netNames[n]; ok {
		return name
	}
	return fmt.Sprintf("NetID(%d)", uint8(n))
}

// TxKind is the purpose of a transaction.
type TxKind uint8

const (
	TxNormal      TxKind = 0x00
	TxStake       TxKind = 0x10
	TxDoscMint    TxKind = 0x50
	TxSwap        TxKind = 0x51
	TxLiqDeposit  TxKind = 0x52
	TxLiqWithdraw TxKind = 0x53
	TxFaucet      TxKind = 0xff
)

var txKindNames = map[TxKind]string{
	TxNormal:      "Normal",
	TxStake:       "Stake",
	TxDoscMint:    "DoscMint",
	TxSwap:        "Swap",
	TxLiqDeposit:  "LiqDeposit",
	TxLiqWithdraw: "LiqWithdraw",
	TxFaucet:      "Faucet",
}

// TxKindCodes lists every known transaction kind code.
func TxKindCodes() []int64 {
	return []int64{0x00, 0x10, 0x50, 0x51, 0x52, 0x53, 0xff}
}

// TxKindFromCode maps a wire code to a TxKind.
func TxKindFromCode(code *big.Int) (TxKind, error) {
	if code != nil && code.IsInt64() && code.Int64() >= 0 && code.Int64() <= 0xff {
		k := TxKind(code.Int64())
		if _, ok := txKindNames[k]; ok {
			return k, nil
		}
	}
	return 0, apperror.Domain("kind", fmt.Sprintf("unknown transaction kind code %s", code))
}

// Code returns the wire code.
func (k TxKind) Code() *big.Int { return big.NewInt(int64(k)) }

func (k TxKind) String() string {
	if name, ok := txKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TxKind(0x%02x)", uint8(k))
}
