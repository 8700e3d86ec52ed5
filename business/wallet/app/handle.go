package app

import (
	"context"
	"math/big"

	"github.com/fd1az/melwalletd-client/business/wallet/domain"
	"github.com/fd1az/melwalletd-client/internal/apperror"
	"github.com/fd1az/melwalletd-client/internal/logger"
)

// DaemonHandle is the entry point for talking to one melwalletd.
type DaemonHandle struct {
	daemon       Daemon
	logger       logger.LoggerInterface
	faucetAmount *big.Int
	confirmer    *Confirmer
}

// Option configures a DaemonHandle.
type Option func(*DaemonHandle)

// WithFaucetAmount sets the amount SendFaucet mints when given none. A nil
// amount leaves the choice to the daemon.
func WithFaucetAmount(amount *big.Int) Option {
	return func(h *DaemonHandle) {
		h.faucetAmount = amount
	}
}

// WithConfirmer sets the waiter used by WalletHandle.WaitConfirmed.
func WithConfirmer(c *Confirmer) Option {
	return func(h *DaemonHandle) {
		h.confirmer = c
	}
}

// NewDaemonHandle creates a handle over daemon.
func NewDaemonHandle(daemon Daemon, log logger.LoggerInterface, opts ...Option) *DaemonHandle {
	if log == nil {
		log = logger.Discard()
	}
	h := &DaemonHandle{
		daemon: daemon,
		logger: log,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.confirmer == nil {
		h.confirmer = NewConfirmer(daemon, DefaultConfirmerConfig(), log)
	}
	return h
}

// ListWallets returns every wallet keyed by name.
func (h *DaemonHandle) ListWallets(ctx context.Context) (map[string]domain.WalletSummary, error) {
	return h.daemon.ListWallets(ctx)
}

// Wallet opens a handle on an existing wallet. It fails with NOT_FOUND or
// HTTP_STATUS_ERROR when the daemon does not know the name.
func (h *DaemonHandle) Wallet(ctx context.Context, name string) (*WalletHandle, error) {
	s, err := h.daemon.WalletSummary(ctx, name)
	if err != nil {
		return nil, err
	}
	return &WalletHandle{name: name, address: s.Address, network: s.Network, parent: h}, nil
}

// CreateWallet creates a fresh wallet.
func (h *DaemonHandle) CreateWallet(ctx context.Context, name, password string) error {
	if err := h.daemon.CreateWallet(ctx, name, password, ""); err != nil {
		return err
	}
	h.logger.Info(ctx, "wallet created", "wallet", name)
	return nil
}

// ImportWallet creates a wallet from an existing secret key.
func (h *DaemonHandle) ImportWallet(ctx context.Context, name, password, secret string) error {
	if secret == "" {
		return apperror.InvalidInput("import_wallet", errEmptySecret)
	}
	if err := h.daemon.CreateWallet(ctx, name, password, secret); err != nil {
		return err
	}
	h.logger.Info(ctx, "wallet imported", "wallet", name)
	return nil
}

// LatestHeader returns the newest block header.
func (h *DaemonHandle) LatestHeader(ctx context.Context) (domain.Header, error) {
	return h.daemon.LatestHeader(ctx)
}

// PoolInfo returns the state of a melswap pool.
func (h *DaemonHandle) PoolInfo(ctx context.Context, key domain.PoolKey) (domain.PoolState, error) {
	return h.daemon.PoolInfo(ctx, key)
}

// SimulateSwap quotes swapping value of from into to.
func (h *DaemonHandle) SimulateSwap(ctx context.Context, from, to domain.Denom, value *big.Int) (domain.SwapInfo, error) {
	return h.daemon.SimulateSwap(ctx, from, to, value)
}

// Confirmer returns the handle's confirmation waiter.
func (h *DaemonHandle) Confirmer() *Confirmer {
	return h.confirmer
}

// WalletHandle acts on one named wallet. The address and network are those
// seen when the handle was opened.
type WalletHandle struct {
	name    string
	address domain.Address
	network domain.NetID
	parent  *DaemonHandle
}

func (w *WalletHandle) Name() string            { return w.name }
func (w *WalletHandle) Address() domain.Address { return w.address }
func (w *WalletHandle) Network() domain.NetID   { return w.network }

// Summary fetches the current summary.
func (w *WalletHandle) Summary(ctx context.Context) (domain.WalletSummary, error) {
	return w.parent.daemon.WalletSummary(ctx, w.name)
}

// Balance returns the wallet's current balance of denom.
func (w *WalletHandle) Balance(ctx context.Context, denom domain.Denom) (domain.Amount, error) {
	s, err := w.Summary(ctx)
	if err != nil {
		return domain.Amount{}, err
	}
	return s.Balance(denom), nil
}

func (w *WalletHandle) Lock(ctx context.Context) error {
	return w.parent.daemon.LockWallet(ctx, w.name)
}

func (w *WalletHandle) Unlock(ctx context.Context, password string) error {
	return w.parent.daemon.UnlockWallet(ctx, w.name, password)
}

// ExportSK returns the wallet's secret key.
func (w *WalletHandle) ExportSK(ctx context.Context, password string) (string, error) {
	return w.parent.daemon.ExportSK(ctx, w.name, password)
}

// PrepareTx has the daemon complete and sign a transaction template.
func (w *WalletHandle) PrepareTx(ctx context.Context, args domain.PrepareTxArgs) (domain.Transaction, error) {
	return w.parent.daemon.PrepareTx(ctx, w.name, args)
}

// SendTx broadcasts tx.
func (w *WalletHandle) SendTx(ctx context.Context, tx domain.Transaction) (domain.Hash, error) {
	hash, err := w.parent.daemon.SendTx(ctx, w.name, tx)
	if err != nil {
		return domain.Hash{}, err
	}
	w.parent.logger.Info(ctx, "transaction sent",
		"wallet", w.name,
		"hash", hash.String(),
		"kind", tx.Kind.String(),
		"net_spent", tx.NetSpent(w.address).String())
	return hash, nil
}

// SendFaucet taps the testnet faucet. It refuses on mainnet before any
// faucet request is built, using the wallet's live network. A nil amount
// uses the handle's configured amount, or the daemon's own default when
// none is configured.
func (w *WalletHandle) SendFaucet(ctx context.Context, amount *big.Int) (domain.Hash, error) {
	s, err := w.Summary(ctx)
	if err != nil {
		return domain.Hash{}, err
	}
	if s.Network == domain.NetMainnet {
		return domain.Hash{}, apperror.New(apperror.CodeFaucetOnMainnet, apperror.WithContext(w.name))
	}

	if amount == nil {
		amount = w.parent.faucetAmount
	}
	if amount == nil {
		return w.parent.daemon.SendFaucet(ctx, w.name)
	}

	tx, err := PrepareFaucet(s.Address, amount)
	if err != nil {
		return domain.Hash{}, err
	}
	return w.SendTx(ctx, tx)
}

// Swap swaps value of from into to, paying the proceeds to this wallet.
func (w *WalletHandle) Swap(ctx context.Context, from, to domain.Denom, value *big.Int) (domain.Hash, error) {
	args, err := PrepareSwap(w.address, from, to, value)
	if err != nil {
		return domain.Hash{}, err
	}
	tx, err := w.PrepareTx(ctx, args)
	if err != nil {
		return domain.Hash{}, err
	}
	return w.SendTx(ctx, tx)
}

// Transactions lists the wallet's transactions.
func (w *WalletHandle) Transactions(ctx context.Context) ([]domain.TxRecord, error) {
	return w.parent.daemon.DumpTransactions(ctx, w.name)
}

// Transaction returns one transaction; NOT_FOUND if the wallet never saw it.
func (w *WalletHandle) Transaction(ctx context.Context, hash domain.Hash) (domain.TransactionStatus, error) {
	return w.parent.daemon.TxStatus(ctx, w.name, hash)
}

// TxBalance returns the balance change hash caused.
func (w *WalletHandle) TxBalance(ctx context.Context, hash domain.Hash) (domain.TxBalance, error) {
	return w.parent.daemon.TxBalance(ctx, w.name, hash)
}

// Coins lists the wallet's unspent coins.
func (w *WalletHandle) Coins(ctx context.Context) ([]domain.CoinEntry, error) {
	return w.parent.daemon.DumpCoins(ctx, w.name)
}

// WaitConfirmed blocks until hash is confirmed.
func (w *WalletHandle) WaitConfirmed(ctx context.Context, hash domain.Hash) (domain.TransactionStatus, error) {
	return w.parent.confirmer.Wait(ctx, w.name, hash)
}
