package app_test

import (
	"context"
	"encoding/hex"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/melwalletd-client/business/wallet/app"
	"github.com/fd1az/melwalletd-client/business/wallet/domain"
	"github.com/fd1az/melwalletd-client/business/wallet/infra/melwalletd"
	"github.com/fd1az/melwalletd-client/internal/apperror"
)

// stubDaemon is an in-memory Daemon. Unset hooks fail the test.
type stubDaemon struct {
	app.Daemon

	mu      sync.Mutex
	summary domain.WalletSummary
	sent    []domain.Transaction
	faucets int
	status  func(n int) (domain.TransactionStatus, error)
	polls   int
}

func (s *stubDaemon) WalletSummary(context.Context, string) (domain.WalletSummary, error) {
	return s.summary, nil
}

func (s *stubDaemon) SendTx(_ context.Context, _ string, tx domain.Transaction) (domain.Hash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, tx)
	return domain.Hash{0x01}, nil
}

func (s *stubDaemon) SendFaucet(context.Context, string) (domain.Hash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faucets++
	return domain.Hash{0x02}, nil
}

func (s *stubDaemon) PrepareTx(_ context.Context, _ string, args domain.PrepareTxArgs) (domain.Transaction, error) {
	return domain.Transaction{Kind: *args.Kind, Outputs: args.Outputs, Fee: big.NewInt(1), Data: args.Data}, nil
}

func (s *stubDaemon) TxStatus(context.Context, string, domain.Hash) (domain.TransactionStatus, error) {
	s.mu.Lock()
	s.polls++
	n := s.polls
	s.mu.Unlock()
	return s.status(n)
}

func testnetWallet() *stubDaemon {
	return &stubDaemon{summary: domain.WalletSummary{
		TotalMicromel:   big.NewInt(0),
		DetailedBalance: map[domain.Denom]*big.Int{domain.MEL: big.NewInt(7)},
		Network:         domain.NetTestnet,
		Address:         "t-self",
	}}
}

func TestSendFaucet_RefusedOnMainnetBeforeAnyFaucetRequest(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		mu.Lock()
		seen = append(seen, r.Method+" "+r.URL.Path)
		mu.Unlock()
		if r.Method == http.MethodGet && r.URL.Path == "/wallets/main" {
			w.Write([]byte(`{"total_micromel": 5, "detailed_balance": {"6D": 5}, "staked_microsym": 0, "network": 255, "address": "m1", "locked": false}`))
			return
		}
		w.Write([]byte(`"` + strings.Repeat("00", 32) + `"`))
	}))
	defer srv.Close()

	client, err := melwalletd.NewClient(melwalletd.Config{BaseURL: srv.URL}, nil)
	require.NoError(t, err)
	h := app.NewDaemonHandle(client, nil, app.WithFaucetAmount(app.DefaultFaucetAmount))

	w, err := h.Wallet(context.Background(), "main")
	require.NoError(t, err)

	for _, amount := range []*big.Int{nil, big.NewInt(5)} {
		_, err = w.SendFaucet(context.Background(), amount)
		assert.True(t, apperror.HasCode(err, apperror.CodeFaucetOnMainnet), "got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	for _, req := range seen {
		assert.Equal(t, "GET /wallets/main", req, "only summary lookups may reach the daemon")
	}
}

func TestSendFaucet_BuildsFaucetTransaction(t *testing.T) {
	d := testnetWallet()
	h := app.NewDaemonHandle(d, nil, app.WithFaucetAmount(app.DefaultFaucetAmount))
	w, err := h.Wallet(context.Background(), "alice")
	require.NoError(t, err)

	_, err = w.SendFaucet(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, d.sent, 1)
	tx := d.sent[0]
	assert.Equal(t, domain.TxFaucet, tx.Kind)
	assert.Empty(t, tx.Inputs)
	assert.Empty(t, tx.Sigs)
	require.Len(t, tx.Outputs, 1)
	assert.Equal(t, domain.Address("t-self"), tx.Outputs[0].Covhash)
	assert.Equal(t, domain.MEL, tx.Outputs[0].Denom)
	assert.Equal(t, "1001000000", tx.Outputs[0].Value.String())
	assert.Equal(t, "1001000000", tx.Fee.String())
	assert.Len(t, tx.Data, 32)
}

func TestSendFaucet_DaemonDefaultWithoutAmount(t *testing.T) {
	d := testnetWallet()
	w, err := app.NewDaemonHandle(d, nil).Wallet(context.Background(), "alice")
	require.NoError(t, err)

	_, err = w.SendFaucet(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, d.faucets)
	assert.Empty(t, d.sent)
}

func TestPrepareFaucet_RandomData(t *testing.T) {
	a, err := app.PrepareFaucet("t", big.NewInt(1))
	require.NoError(t, err)
	b, err := app.PrepareFaucet("t", big.NewInt(1))
	require.NoError(t, err)

	assert.NotEqual(t, a.Data, b.Data)
	_, err = hex.DecodeString(a.Data)
	assert.NoError(t, err)

	_, err = app.PrepareFaucet("t", big.NewInt(0))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
}

func TestSwap_UsesPoolKeyData(t *testing.T) {
	d := testnetWallet()
	w, err := app.NewDaemonHandle(d, nil).Wallet(context.Background(), "alice")
	require.NoError(t, err)

	_, err = w.Swap(context.Background(), domain.MEL, domain.SYM, big.NewInt(50))
	require.NoError(t, err)

	require.Len(t, d.sent, 1)
	tx := d.sent[0]
	assert.Equal(t, domain.TxSwap, tx.Kind)
	assert.Equal(t, "73", tx.Data)
	assert.Equal(t, domain.MEL, tx.Outputs[0].Denom)
	assert.Equal(t, domain.Address("t-self"), tx.Outputs[0].Covhash)

	_, err = app.PrepareSwap("t", domain.MEL, domain.MEL, big.NewInt(1))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
}

func TestWalletHandle_Balance(t *testing.T) {
	w, err := app.NewDaemonHandle(testnetWallet(), nil).Wallet(context.Background(), "alice")
	require.NoError(t, err)

	mel, err := w.Balance(context.Background(), domain.MEL)
	require.NoError(t, err)
	assert.Equal(t, "7", mel.Raw().String())

	sym, err := w.Balance(context.Background(), domain.SYM)
	require.NoError(t, err)
	assert.True(t, sym.IsZero())
}

func TestImportWallet_RequiresSecret(t *testing.T) {
	err := app.NewDaemonHandle(testnetWallet(), nil).ImportWallet(context.Background(), "x", "pw", "")
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
}
