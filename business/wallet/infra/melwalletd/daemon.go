package melwalletd

import (
	"context"
	"math/big"

	"github.com/fd1az/melwalletd-client/business/wallet/domain"
	"github.com/fd1az/melwalletd-client/internal/wirecodec"
)

// ListWallets returns every wallet keyed by name. The JSON-RPC daemon only
// lists names, so each summary is then fetched on its own.
func (c *Client) ListWallets(ctx context.Context) (map[string]domain.WalletSummary, error) {
	if c.protocol != ProtocolJSONRPC {
		return call(ctx, c, OpListWallets, Params{}, walletListShape, WalletListFromWire)
	}

	names, err := call(ctx, c, OpListWallets, Params{}, walletNamesShape, WalletNamesFromWire)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.WalletSummary, len(names))
	for _, name := range names {
		s, err := c.WalletSummary(ctx, name)
		if err != nil {
			return nil, err
		}
		out[name] = s
	}
	return out, nil
}

// WalletSummary returns the balances and status of one wallet.
func (c *Client) WalletSummary(ctx context.Context, wallet string) (domain.WalletSummary, error) {
	return call(ctx, c, OpWalletSummary, Params{Wallet: wallet}, walletSummaryShape, WalletSummaryFromWire)
}

// CreateWallet creates a wallet protected by password. A non-empty secret
// imports an existing key instead of generating one.
func (c *Client) CreateWallet(ctx context.Context, wallet, password, secret string) error {
	var sk wirecodec.Value
	if secret != "" {
		sk = secret
	}
	return c.callUnit(ctx, OpCreateWallet, Params{
		Wallet: wallet,
		Body:   map[string]wirecodec.Value{"password": password, "secret": sk},
	})
}

// LockWallet forgets the wallet's unlocked key.
func (c *Client) LockWallet(ctx context.Context, wallet string) error {
	return c.callUnit(ctx, OpLockWallet, Params{Wallet: wallet})
}

// UnlockWallet unlocks the wallet for signing.
func (c *Client) UnlockWallet(ctx context.Context, wallet, password string) error {
	return c.callUnit(ctx, OpUnlockWallet, Params{
		Wallet: wallet,
		Body:   map[string]wirecodec.Value{"password": password},
	})
}

// ExportSK returns the wallet's secret key.
func (c *Client) ExportSK(ctx context.Context, wallet, password string) (string, error) {
	return call(ctx, c, OpExportSK, Params{
		Wallet: wallet,
		Body:   map[string]wirecodec.Value{"password": password},
	}, secretKeyShape, StringFromWire)
}

// PrepareTx asks the daemon to fill in, balance, and sign a transaction.
func (c *Client) PrepareTx(ctx context.Context, wallet string, args domain.PrepareTxArgs) (domain.Transaction, error) {
	return call(ctx, c, OpPrepareTx, Params{
		Wallet: wallet,
		Body:   PrepareTxArgsToWire(args),
	}, transactionShape, TransactionFromWire)
}

// SendTx broadcasts a prepared transaction and returns its hash.
func (c *Client) SendTx(ctx context.Context, wallet string, tx domain.Transaction) (domain.Hash, error) {
	return call(ctx, c, OpSendTx, Params{
		Wallet: wallet,
		Body:   TransactionToWire(tx),
	}, hashShape, HashFromWire)
}

// SendFaucet asks the daemon to build and send a faucet transaction with its
// default amount. It does not check the network; callers do.
func (c *Client) SendFaucet(ctx context.Context, wallet string) (domain.Hash, error) {
	return call(ctx, c, OpSendFaucet, Params{Wallet: wallet}, hashShape, HashFromWire)
}

// DumpTransactions lists the wallet's transactions, newest first as the
// daemon returns them.
func (c *Client) DumpTransactions(ctx context.Context, wallet string) ([]domain.TxRecord, error) {
	return call(ctx, c, OpDumpTransactions, Params{Wallet: wallet}, txRecordsShape, TxRecordsFromWire)
}

// TxStatus returns a transaction known to the wallet. Unknown hashes are
// NOT_FOUND.
func (c *Client) TxStatus(ctx context.Context, wallet string, hash domain.Hash) (domain.TransactionStatus, error) {
	return call(ctx, c, OpTxStatus, Params{Wallet: wallet, TxHash: hash.String()}, txStatusShape, TransactionStatusFromWire)
}

// TxBalance returns the balance change a transaction caused.
func (c *Client) TxBalance(ctx context.Context, wallet string, hash domain.Hash) (domain.TxBalance, error) {
	return call(ctx, c, OpTxBalance, Params{Wallet: wallet, TxHash: hash.String()}, txBalanceShape, TxBalanceFromWire)
}

// DumpCoins lists the wallet's unspent coins.
func (c *Client) DumpCoins(ctx context.Context, wallet string) ([]domain.CoinEntry, error) {
	return call(ctx, c, OpDumpCoins, Params{Wallet: wallet}, coinsShape, CoinsFromWire)
}

// PoolInfo returns the state of a melswap pool.
func (c *Client) PoolInfo(ctx context.Context, key domain.PoolKey) (domain.PoolState, error) {
	return call(ctx, c, OpPoolInfo, Params{Pool: key.String()}, poolStateShape, PoolStateFromWire)
}

// SimulateSwap quotes swapping value of from into to without sending
// anything.
func (c *Client) SimulateSwap(ctx context.Context, from, to domain.Denom, value *big.Int) (domain.SwapInfo, error) {
	return call(ctx, c, OpSimulateSwap, Params{
		Body: map[string]wirecodec.Value{
			"from":  DenomToWire(from),
			"to":    DenomToWire(to),
			"value": intOrZero(value),
		},
	}, swapInfoShape, SwapInfoFromWire)
}

// LatestHeader returns the header of the latest block the daemon knows.
func (c *Client) LatestHeader(ctx context.Context) (domain.Header, error) {
	return call(ctx, c, OpLatestHeader, Params{}, headerShape, HeaderFromWire)
}
