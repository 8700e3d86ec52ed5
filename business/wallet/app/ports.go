// Package app contains the wallet façade and port definitions for the wallet context.
package app

import (
	"context"
	"math/big"

	"github.com/fd1az/melwalletd-client/business/wallet/domain"
)

// Daemon is a connection to melwalletd. Every method is one independent
// round trip; implementations do not retry.
type Daemon interface {
	ChainReader
	WalletStore
	WalletOps
	TxStatusReader
}

// ChainReader reads chain-wide state.
type ChainReader interface {
	// LatestHeader returns the newest block header the daemon knows.
	LatestHeader(ctx context.Context) (domain.Header, error)

	// PoolInfo returns a melswap pool; NOT_FOUND if it does not exist.
	PoolInfo(ctx context.Context, key domain.PoolKey) (domain.PoolState, error)

	// SimulateSwap quotes a swap; NOT_FOUND if no pool serves the pair.
	SimulateSwap(ctx context.Context, from, to domain.Denom, value *big.Int) (domain.SwapInfo, error)
}

// WalletStore manages the set of wallets.
type WalletStore interface {
	ListWallets(ctx context.Context) (map[string]domain.WalletSummary, error)
	WalletSummary(ctx context.Context, wallet string) (domain.WalletSummary, error)
	CreateWallet(ctx context.Context, wallet, password, secret string) error
}

// WalletOps acts on a single wallet.
type WalletOps interface {
	LockWallet(ctx context.Context, wallet string) error
	UnlockWallet(ctx context.Context, wallet, password string) error
	ExportSK(ctx context.Context, wallet, password string) (string, error)
	PrepareTx(ctx context.Context, wallet string, args domain.PrepareTxArgs) (domain.Transaction, error)
	SendTx(ctx context.Context, wallet string, tx domain.Transaction) (domain.Hash, error)
	SendFaucet(ctx context.Context, wallet string) (domain.Hash, error)
	DumpTransactions(ctx context.Context, wallet string) ([]domain.TxRecord, error)
	TxBalance(ctx context.Context, wallet string, hash domain.Hash) (domain.TxBalance, error)
	DumpCoins(ctx context.Context, wallet string) ([]domain.CoinEntry, error)
}

// TxStatusReader looks up a transaction known to a wallet.
type TxStatusReader interface {
	// TxStatus returns NOT_FOUND for hashes the wallet has never seen.
	TxStatus(ctx context.Context, wallet string, hash domain.Hash) (domain.TransactionStatus, error)
}
