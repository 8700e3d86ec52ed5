package main

import (
	"context"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/fd1az/melwalletd-client/business/wallet/app"
	"github.com/fd1az/melwalletd-client/business/wallet/domain"
	"github.com/fd1az/melwalletd-client/business/wallet/infra/melwalletd"
	"github.com/fd1az/melwalletd-client/internal/wirecodec"
)

var (
	password     string
	secret       string
	faucetAmount string
	waitConfirm  bool
)

func init() {
	rootCmd.AddCommand(
		walletsCmd, summaryCmd, fundsCmd, createCmd, lockCmd, unlockCmd, exportSKCmd,
		faucetCmd, swapCmd, txsCmd, txCmd, balanceCmd, coinsCmd, waitCmd,
	)

	createCmd.Flags().StringVar(&password, "password", "", "password protecting the new wallet")
	createCmd.Flags().StringVar(&secret, "secret", "", "import this secret key instead of generating one")
	unlockCmd.Flags().StringVar(&password, "password", "", "wallet password")
	exportSKCmd.Flags().StringVar(&password, "password", "", "wallet password")

	faucetCmd.Flags().StringVar(&faucetAmount, "amount", "", "MEL to mint, e.g. 1001 (default faucet.amount)")
	faucetCmd.Flags().BoolVar(&waitConfirm, "wait", false, "block until the transaction is confirmed")
	swapCmd.Flags().BoolVar(&waitConfirm, "wait", false, "block until the transaction is confirmed")
}

var walletsCmd = &cobra.Command{
	Use:   "wallets",
	Short: "List every wallet with its summary",
	Args:  cobra.NoArgs,
	RunE: run(func(ctx context.Context, h *app.DaemonHandle, _ []string) (wirecodec.Value, error) {
		list, err := h.ListWallets(ctx)
		if err != nil {
			return nil, err
		}
		out := make(map[string]wirecodec.Value, len(list))
		for name, s := range list {
			out[name] = melwalletd.WalletSummaryToWire(s)
		}
		return out, nil
	}),
}

var summaryCmd = &cobra.Command{
	Use:   "summary NAME",
	Short: "Show a wallet summary",
	Args:  cobra.ExactArgs(1),
	RunE: withWallet(func(ctx context.Context, w *app.WalletHandle, _ []string) (wirecodec.Value, error) {
		s, err := w.Summary(ctx)
		if err != nil {
			return nil, err
		}
		return melwalletd.WalletSummaryToWire(s), nil
	}),
}

var fundsCmd = &cobra.Command{
	Use:   "funds NAME",
	Short: "Show a wallet's balances in display units",
	Args:  cobra.ExactArgs(1),
	RunE: withWallet(func(ctx context.Context, w *app.WalletHandle, _ []string) (wirecodec.Value, error) {
		s, err := w.Summary(ctx)
		if err != nil {
			return nil, err
		}
		out := make(map[string]wirecodec.Value, len(s.DetailedBalance))
		for d := range s.DetailedBalance {
			out[d.String()] = s.Balance(d).ToDecimal().StringFixed(domain.Decimals)
		}
		return out, nil
	}),
}

var createCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a wallet, or import one with --secret",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(ctx context.Context, h *app.DaemonHandle, args []string) (wirecodec.Value, error) {
		var err error
		if secret != "" {
			err = h.ImportWallet(ctx, args[0], password, secret)
		} else {
			err = h.CreateWallet(ctx, args[0], password)
		}
		if err != nil {
			return nil, err
		}
		return map[string]wirecodec.Value{"wallet": args[0], "imported": secret != ""}, nil
	}),
}

var lockCmd = &cobra.Command{
	Use:   "lock NAME",
	Short: "Lock a wallet",
	Args:  cobra.ExactArgs(1),
	RunE: withWallet(func(ctx context.Context, w *app.WalletHandle, _ []string) (wirecodec.Value, error) {
		if err := w.Lock(ctx); err != nil {
			return nil, err
		}
		return map[string]wirecodec.Value{"wallet": w.Name(), "locked": true}, nil
	}),
}

var unlockCmd = &cobra.Command{
	Use:   "unlock NAME",
	Short: "Unlock a wallet",
	Args:  cobra.ExactArgs(1),
	RunE: withWallet(func(ctx context.Context, w *app.WalletHandle, _ []string) (wirecodec.Value, error) {
		if err := w.Unlock(ctx, password); err != nil {
			return nil, err
		}
		return map[string]wirecodec.Value{"wallet": w.Name(), "locked": false}, nil
	}),
}

var exportSKCmd = &cobra.Command{
	Use:   "export-sk NAME",
	Short: "Print a wallet's secret key",
	Args:  cobra.ExactArgs(1),
	RunE: withWallet(func(ctx context.Context, w *app.WalletHandle, _ []string) (wirecodec.Value, error) {
		return w.ExportSK(ctx, password)
	}),
}

var faucetCmd = &cobra.Command{
	Use:   "faucet NAME",
	Short: "Mint testnet MEL into a wallet",
	Args:  cobra.ExactArgs(1),
	RunE: withWallet(func(ctx context.Context, w *app.WalletHandle, _ []string) (wirecodec.Value, error) {
		var amount *big.Int
		if faucetAmount != "" {
			v, err := parseValue(domain.MEL, faucetAmount)
			if err != nil {
				return nil, err
			}
			amount = v
		}
		hash, err := w.SendFaucet(ctx, amount)
		if err != nil {
			return nil, err
		}
		return sent(ctx, w, hash)
	}),
}

var swapCmd = &cobra.Command{
	Use:   "swap NAME FROM TO VALUE",
	Short: "Swap VALUE of FROM into TO through melswap",
	Args:  cobra.ExactArgs(4),
	RunE: withWallet(func(ctx context.Context, w *app.WalletHandle, args []string) (wirecodec.Value, error) {
		from, err := parseDenom(args[1])
		if err != nil {
			return nil, err
		}
		to, err := parseDenom(args[2])
		if err != nil {
			return nil, err
		}
		value, err := parseValue(from, args[3])
		if err != nil {
			return nil, err
		}
		hash, err := w.Swap(ctx, from, to, value)
		if err != nil {
			return nil, err
		}
		return sent(ctx, w, hash)
	}),
}

var txsCmd = &cobra.Command{
	Use:   "txs NAME",
	Short: "List a wallet's transactions",
	Args:  cobra.ExactArgs(1),
	RunE: withWallet(func(ctx context.Context, w *app.WalletHandle, _ []string) (wirecodec.Value, error) {
		records, err := w.Transactions(ctx)
		if err != nil {
			return nil, err
		}
		return melwalletd.TxRecordsToWire(records), nil
	}),
}

var txCmd = &cobra.Command{
	Use:   "tx NAME HASH",
	Short: "Show one transaction and its confirmation status",
	Args:  cobra.ExactArgs(2),
	RunE: withWallet(func(ctx context.Context, w *app.WalletHandle, args []string) (wirecodec.Value, error) {
		hash, err := parseHash(args[1])
		if err != nil {
			return nil, err
		}
		st, err := w.Transaction(ctx, hash)
		if err != nil {
			return nil, err
		}
		return melwalletd.TransactionStatusToWire(st), nil
	}),
}

var balanceCmd = &cobra.Command{
	Use:   "balance NAME HASH",
	Short: "Show how a transaction changed a wallet's balance",
	Args:  cobra.ExactArgs(2),
	RunE: withWallet(func(ctx context.Context, w *app.WalletHandle, args []string) (wirecodec.Value, error) {
		hash, err := parseHash(args[1])
		if err != nil {
			return nil, err
		}
		b, err := w.TxBalance(ctx, hash)
		if err != nil {
			return nil, err
		}
		return melwalletd.TxBalanceToWire(b), nil
	}),
}

var coinsCmd = &cobra.Command{
	Use:   "coins NAME",
	Short: "List a wallet's unspent coins",
	Args:  cobra.ExactArgs(1),
	RunE: withWallet(func(ctx context.Context, w *app.WalletHandle, _ []string) (wirecodec.Value, error) {
		coins, err := w.Coins(ctx)
		if err != nil {
			return nil, err
		}
		return melwalletd.CoinsToWire(coins), nil
	}),
}

var waitCmd = &cobra.Command{
	Use:         "wait NAME HASH",
	Short:       "Block until a transaction is confirmed",
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{longRunning: "true", probeDaemon: "true"},
	RunE: withWallet(func(ctx context.Context, w *app.WalletHandle, args []string) (wirecodec.Value, error) {
		hash, err := parseHash(args[1])
		if err != nil {
			return nil, err
		}
		st, err := w.WaitConfirmed(ctx, hash)
		if err != nil {
			return nil, err
		}
		return melwalletd.TransactionStatusToWire(st), nil
	}),
}

// withWallet opens the wallet named by args[0] before running fn.
func withWallet(fn func(ctx context.Context, w *app.WalletHandle, args []string) (wirecodec.Value, error)) func(*cobra.Command, []string) error {
	return run(func(ctx context.Context, h *app.DaemonHandle, args []string) (wirecodec.Value, error) {
		w, err := h.Wallet(ctx, args[0])
		if err != nil {
			return nil, err
		}
		return fn(ctx, w, args)
	})
}

// sent reports a broadcast hash, or its confirmed status under --wait.
func sent(ctx context.Context, w *app.WalletHandle, hash domain.Hash) (wirecodec.Value, error) {
	if !waitConfirm {
		return hash.String(), nil
	}
	st, err := w.WaitConfirmed(ctx, hash)
	if err != nil {
		return nil, err
	}
	return melwalletd.TransactionStatusToWire(st), nil
}
