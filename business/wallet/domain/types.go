// Package domain holds the typed model of melwalletd responses and requests.
//
// Every money, height and weight quantity is a *big.Int. Values are built once
// by the mapper from a decoded response and are not mutated afterwards.
package domain

import (
	"math/big"
	"strings"

	"github.com/fd1az/melwalletd-client/internal/apperror"
)

// Address is a covenant hash in its textual form (e.g. "t1...").
type Address string

// CoinID identifies a spendable output.
type CoinID struct {
	TxHash Hash
	Index  *big.Int
}

// CoinData describes one transaction output.
type CoinData struct {
	Covhash Address
	Value   *big.Int
	Denom   Denom
	// AdditionalData is opaque hex, passed through verbatim.
	AdditionalData string
}

// Transaction is a full transaction as the daemon serializes it.
// Covenants, Data and Sigs are hex strings passed through verbatim.
type Transaction struct {
	Kind      TxKind
	Inputs    []CoinID
	Outputs   []CoinData
	Fee       *big.Int
	Covenants []string
	Data      string
	Sigs      []string
}

// NetSpent is the MEL leaving the wallet at self: outputs paid to other
// covenants plus the fee.
func (tx Transaction) NetSpent(self Address) *big.Int {
	total := new(big.Int)
	for _, out := range tx.Outputs {
		if out.Covhash == self || out.Denom != MEL || out.Value == nil {
			continue
		}
		total.Add(total, out.Value)
	}
	if tx.Fee != nil {
		total.Add(total, tx.Fee)
	}
	return total
}

// Header is the latest block header summary.
type Header struct {
	Network          NetID
	Previous         Hash
	Height           *big.Int
	HistoryHash      Hash
	CoinsHash        Hash
	TransactionsHash Hash
	FeePool          *big.Int
	FeeMultiplier    *big.Int
	DoscSpeed        *big.Int
	PoolsHash        Hash
	StakesHash       Hash
}

// WalletSummary is the overall state of one wallet.
type WalletSummary struct {
	TotalMicromel   *big.Int
	DetailedBalance map[Denom]*big.Int
	StakedMicrosym  *big.Int
	Network         NetID
	Address         Address
	Locked          bool
}

// Balance returns the balance held in d, zero when absent. Custom tags match
// in either case.
func (s WalletSummary) Balance(d Denom) Amount {
	v, ok := s.DetailedBalance[d]
	if !ok && d.IsCustom() {
		for k, kv := range s.DetailedBalance {
			if k.Equal(d) {
				v, ok = kv, true
				break
			}
		}
	}
	if ok && v != nil && v.Sign() >= 0 {
		return NewAmount(d, v)
	}
	return ZeroAmount(d)
}

// PoolKey identifies a melswap pool by its two denominations.
type PoolKey struct {
	Left  Denom
	Right Denom
}

// ParsePoolKey parses "LEFT:RIGHT" using denomination display names.
func ParsePoolKey(s string) (PoolKey, error) {
	left, right, ok := strings.Cut(s, ":")
	if !ok {
		return PoolKey{}, apperror.Domain("pool_key", "pool key must be LEFT:RIGHT")
	}
	l, err := ParseDenomName(left)
	if err != nil {
		return PoolKey{}, err
	}
	r, err := ParseDenomName(right)
	if err != nil {
		return PoolKey{}, err
	}
	return PoolKey{Left: l, Right: r}, nil
}

// String returns the route form "LEFT:RIGHT".
func (k PoolKey) String() string {
	return k.Left.String() + ":" + k.Right.String()
}

// Bytes returns the byte form carried in swap transaction data. A pool
// against MEL is named by its other side alone.
func (k PoolKey) Bytes() []byte {
	switch {
	case k.Left == MEL:
		return k.Right.Bytes()
	case k.Right == MEL:
		return k.Left.Bytes()
	default:
		return append(k.Left.Bytes(), k.Right.Bytes()...)
	}
}

// PoolState describes a melswap pool.
type PoolState struct {
	Lefts      *big.Int
	Rights     *big.Int
	PriceAccum *big.Int
	Liqs       *big.Int
}

// AnnCoinID is an output annotated by the wallet.
type AnnCoinID struct {
	CoinData CoinData
	IsChange bool
	CoinID   string
}

// TransactionStatus is a transaction together with where, if anywhere, it
// was confirmed.
type TransactionStatus struct {
	Raw Transaction
	// ConfirmedHeight is nil while the transaction is pending.
	ConfirmedHeight *big.Int
	Outputs         []AnnCoinID
}

// Confirmed reports whether the transaction has been included in a block.
func (s TransactionStatus) Confirmed() bool {
	return s.ConfirmedHeight != nil
}

// TxRecord is one entry of a wallet's transaction history.
type TxRecord struct {
	Hash Hash
	// Height is nil for unconfirmed transactions.
	Height *big.Int
}

// CoinEntry is one unspent coin owned by a wallet.
type CoinEntry struct {
	ID   CoinID
	Data CoinData
}

// TxBalance is how much a transaction changed a wallet's balances. Values
// are signed.
type TxBalance struct {
	Self     bool
	Kind     TxKind
	Balances map[Denom]*big.Int
}

// SwapInfo is the simulated outcome of a swap.
type SwapInfo struct {
	Result      *big.Int
	PriceImpact *big.Int
	PoolKey     string
}

// PrepareTxArgs is the template the daemon fills into a full transaction.
// Zero-valued optional fields are omitted from the request.
type PrepareTxArgs struct {
	Kind       *TxKind
	Inputs     []CoinID
	Outputs    []CoinData
	SigningKey string
	Data       string
	Covenants  []string
	NoBalance  []Denom
	FeeBallast *big.Int
}
