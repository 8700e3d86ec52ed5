package melwalletd_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/melwalletd-client/business/wallet/domain"
	"github.com/fd1az/melwalletd-client/business/wallet/infra/melwalletd"
	"github.com/fd1az/melwalletd-client/internal/apperror"
	"github.com/fd1az/melwalletd-client/internal/logger"
	"github.com/fd1az/melwalletd-client/internal/wirecodec"
)

const summaryJSON = `{"total_micromel": 1001000000, "detailed_balance": {"6D": 1001000000}, "staked_microsym": 0, "network": 1, "address": "abc...", "locked": false}`

var txHash = strings.Repeat("ab", 32)

// recorded is one request seen by the fake daemon.
type recorded struct {
	method string
	path   string
	body   string
}

// fakeDaemon answers each request path with a fixed status and body.
type fakeDaemon struct {
	t      *testing.T
	routes map[string]func() (int, string)
	srv    *httptest.Server

	mu   sync.Mutex
	seen []recorded
}

func newFakeDaemon(t *testing.T) *fakeDaemon {
	t.Helper()
	f := &fakeDaemon{t: t, routes: map[string]func() (int, string){}}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.seen = append(f.seen, recorded{method: r.Method, path: r.URL.EscapedPath(), body: string(b)})
		f.mu.Unlock()

		h, ok := f.routes[r.Method+" "+r.URL.EscapedPath()]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("no route"))
			return
		}
		status, body := h()
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeDaemon) on(method, path string, status int, body string) {
	f.routes[method+" "+path] = func() (int, string) { return status, body }
}

func (f *fakeDaemon) requests() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recorded(nil), f.seen...)
}

func (f *fakeDaemon) client(protocol melwalletd.Protocol) *melwalletd.Client {
	f.t.Helper()
	c, err := melwalletd.NewClient(melwalletd.Config{BaseURL: f.srv.URL, Protocol: protocol}, nil)
	require.NoError(f.t, err)
	return c
}

func appErr(t *testing.T, err error) *apperror.AppError {
	t.Helper()
	var ae *apperror.AppError
	require.True(t, errors.As(err, &ae), "expected AppError, got %T: %v", err, err)
	return ae
}

func TestWalletSummary_DecodesToDomain(t *testing.T) {
	f := newFakeDaemon(t)
	f.on(http.MethodGet, "/wallets/alice", http.StatusOK, summaryJSON)

	s, err := f.client(melwalletd.ProtocolREST).WalletSummary(context.Background(), "alice")
	require.NoError(t, err)

	require.Len(t, s.DetailedBalance, 1)
	mel, ok := s.DetailedBalance[domain.MEL]
	require.True(t, ok, "expected MEL entry")
	assert.Equal(t, "1001000000", mel.String())
	assert.Equal(t, domain.NetTestnet, s.Network)
	assert.Equal(t, domain.Address("abc..."), s.Address)
	assert.False(t, s.Locked)
}

func TestWalletSummary_MissingAddressIsValidationError(t *testing.T) {
	f := newFakeDaemon(t)
	f.on(http.MethodGet, "/wallets/alice", http.StatusOK,
		`{"total_micromel": 1, "detailed_balance": {}, "staked_microsym": 0, "network": 1, "locked": false}`)

	_, err := f.client(melwalletd.ProtocolREST).WalletSummary(context.Background(), "alice")

	ae := appErr(t, err)
	assert.Equal(t, apperror.CodeValidationError, ae.Code)
	assert.Equal(t, "address", ae.Field)
	assert.Equal(t, "wallet_summary", ae.Context)
}

func TestWalletSummary_RejectsOutOfSetValues(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{
			name:  "unknown network",
			body:  `{"total_micromel": 1, "detailed_balance": {}, "staked_microsym": 0, "network": 9, "address": "a", "locked": false}`,
			field: "network",
		},
		{
			name:  "non-hex denom key",
			body:  `{"total_micromel": 1, "detailed_balance": {"zz": 1}, "staked_microsym": 0, "network": 1, "address": "a", "locked": false}`,
			field: `detailed_balance["zz"]`,
		},
		{
			name:  "string amount",
			body:  `{"total_micromel": "1", "detailed_balance": {}, "staked_microsym": 0, "network": 1, "address": "a", "locked": false}`,
			field: "total_micromel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeDaemon(t)
			f.on(http.MethodGet, "/wallets/alice", http.StatusOK, tt.body)

			_, err := f.client(melwalletd.ProtocolREST).WalletSummary(context.Background(), "alice")

			ae := appErr(t, err)
			assert.Equal(t, apperror.CodeValidationError, ae.Code)
			assert.Equal(t, tt.field, ae.Field)
		})
	}
}

func TestClient_ConnectionRefusedIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := melwalletd.NewClient(melwalletd.Config{BaseURL: url}, nil)
	require.NoError(t, err)

	_, err = c.WalletSummary(context.Background(), "alice")

	assert.True(t, apperror.IsTransport(err), "got %v", err)
	assert.False(t, apperror.IsDecode(err))
	assert.False(t, apperror.IsValidation(err))
}

func TestClient_StatusErrorKeepsBodyVerbatim(t *testing.T) {
	f := newFakeDaemon(t)
	f.on(http.MethodPost, "/wallets/alice/unlock", http.StatusForbidden, "wrong password <html>")

	err := f.client(melwalletd.ProtocolREST).UnlockWallet(context.Background(), "alice", "nope")

	ae := appErr(t, err)
	assert.Equal(t, apperror.CodeHTTPStatusError, ae.Code)
	assert.Equal(t, http.StatusForbidden, ae.StatusCode)
	assert.Equal(t, "wrong password <html>", string(ae.Body))
}

func TestClient_FailureLogCarriesErrorDetails(t *testing.T) {
	f := newFakeDaemon(t)
	f.on(http.MethodPost, "/wallets/alice/unlock", http.StatusInternalServerError, "boom")

	var buf bytes.Buffer
	c, err := melwalletd.NewClient(melwalletd.Config{BaseURL: f.srv.URL}, logger.New(&buf, logger.LevelDebug, "test", nil))
	require.NoError(t, err)

	err = c.UnlockWallet(context.Background(), "alice", "hunter2")
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"daemon call failed"`)
	assert.Contains(t, out, `"details":{`)
	assert.Contains(t, out, `"code":"HTTP_STATUS_ERROR"`)
	assert.Contains(t, out, `"statusCode":500`)
	assert.Contains(t, out, `"stack":`)
	assert.NotContains(t, out, "hunter2")
}

func TestClient_MalformedBodyIsDecodeError(t *testing.T) {
	for name, body := range map[string]string{
		"not json": "definitely not json",
		"float":    `{"lefts": 1.5, "rights": 1, "price_accum": 1, "liqs": 1}`,
	} {
		t.Run(name, func(t *testing.T) {
			f := newFakeDaemon(t)
			f.on(http.MethodGet, "/pools/MEL:SYM", http.StatusOK, body)

			_, err := f.client(melwalletd.ProtocolREST).PoolInfo(context.Background(),
				domain.PoolKey{Left: domain.MEL, Right: domain.SYM})

			ae := appErr(t, err)
			assert.Equal(t, apperror.CodeDecodeError, ae.Code)
			assert.Equal(t, body, string(ae.Body))
		})
	}
}

func TestTxStatus_404IsNotFound(t *testing.T) {
	f := newFakeDaemon(t)
	hash, err := domain.ParseHash(txHash)
	require.NoError(t, err)

	_, err = f.client(melwalletd.ProtocolREST).TxStatus(context.Background(), "alice", hash)

	assert.True(t, apperror.IsNotFound(err), "got %v", err)
	seen := f.requests()
	require.Len(t, seen, 1)
	assert.Equal(t, "/wallets/alice/transactions/"+txHash, seen[0].path)
}

func TestTxStatus_PendingTransaction(t *testing.T) {
	f := newFakeDaemon(t)
	f.on(http.MethodGet, "/wallets/alice/transactions/"+txHash, http.StatusOK, `{
		"raw": {"kind": 0, "inputs": [], "outputs": [
			{"covhash": "t1", "value": 9007199254740993, "denom": "6D", "additional_data": ""}
		], "fee": 12, "covenants": [], "data": "", "sigs": []},
		"confirmed_height": null,
		"outputs": []
	}`)
	hash, _ := domain.ParseHash(txHash)

	st, err := f.client(melwalletd.ProtocolREST).TxStatus(context.Background(), "alice", hash)
	require.NoError(t, err)

	assert.False(t, st.Confirmed())
	require.Len(t, st.Raw.Outputs, 1)
	assert.Equal(t, "9007199254740993", st.Raw.Outputs[0].Value.String())
}

func TestTxBalance_DecodesTuple(t *testing.T) {
	f := newFakeDaemon(t)
	f.on(http.MethodGet, "/wallets/alice/transactions/"+txHash+"/balance", http.StatusOK,
		`[true, 0, {"6D": -1000012, "c0ffee": 5}]`)
	hash, _ := domain.ParseHash(txHash)

	b, err := f.client(melwalletd.ProtocolREST).TxBalance(context.Background(), "alice", hash)
	require.NoError(t, err)

	assert.True(t, b.Self)
	assert.Equal(t, domain.TxNormal, b.Kind)
	assert.Equal(t, "-1000012", b.Balances[domain.MEL].String())

	custom, err := domain.ParseDenomTag("c0ffee")
	require.NoError(t, err)
	assert.Equal(t, "5", b.Balances[custom].String())
}

func TestDumpTransactions_NullHeight(t *testing.T) {
	f := newFakeDaemon(t)
	f.on(http.MethodGet, "/wallets/alice/transactions", http.StatusOK,
		`[["`+txHash+`", 42], ["`+strings.Repeat("cd", 32)+`", null]]`)

	recs, err := f.client(melwalletd.ProtocolREST).DumpTransactions(context.Background(), "alice")
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, txHash, recs[0].Hash.String())
	assert.Equal(t, "42", recs[0].Height.String())
	assert.Nil(t, recs[1].Height)
}

func TestUnitOperations_SendExpectedRequests(t *testing.T) {
	f := newFakeDaemon(t)
	f.on(http.MethodPut, "/wallets/bob", http.StatusOK, "")
	f.on(http.MethodPost, "/wallets/bob/unlock", http.StatusOK, "")
	f.on(http.MethodPost, "/wallets/bob/lock", http.StatusOK, "whatever")
	c := f.client(melwalletd.ProtocolREST)
	ctx := context.Background()

	require.NoError(t, c.CreateWallet(ctx, "bob", "pw", ""))
	require.NoError(t, c.UnlockWallet(ctx, "bob", "pw"))
	require.NoError(t, c.LockWallet(ctx, "bob"))

	seen := f.requests()
	require.Len(t, seen, 3)
	assert.Equal(t, `{"password":"pw","secret":null}`, seen[0].body)
	assert.Equal(t, `{"password":"pw"}`, seen[1].body)
	assert.Equal(t, "", seen[2].body)
}

func TestPrepareAndSend(t *testing.T) {
	txJSON := `{"kind":0,"inputs":[{"txhash":"` + txHash + `","index":0}],"outputs":[{"covhash":"t2","value":100,"denom":"6D","additional_data":""}],"fee":3,"covenants":[],"data":"","sigs":["00"]}`

	f := newFakeDaemon(t)
	f.on(http.MethodPost, "/wallets/alice/prepare-tx", http.StatusOK, txJSON)
	f.on(http.MethodPost, "/wallets/alice/send-tx", http.StatusOK, `"`+txHash+`"`)
	c := f.client(melwalletd.ProtocolREST)
	ctx := context.Background()

	tx, err := c.PrepareTx(ctx, "alice", domain.PrepareTxArgs{
		Outputs: []domain.CoinData{{Covhash: "t2", Value: big.NewInt(100), Denom: domain.MEL}},
	})
	require.NoError(t, err)

	hash, err := c.SendTx(ctx, "alice", tx)
	require.NoError(t, err)
	assert.Equal(t, txHash, hash.String())

	seen := f.requests()
	require.Len(t, seen, 2)
	assert.Equal(t, `{"outputs":[{"additional_data":"","covhash":"t2","denom":"6D","value":100}]}`, seen[0].body)

	// The signed transaction goes back exactly as the daemon produced it.
	sent, err := wirecodec.DecodeString(seen[1].body)
	require.NoError(t, err)
	want, err := wirecodec.DecodeString(txJSON)
	require.NoError(t, err)
	assert.Equal(t, string(wirecodec.MustEncode(want)), string(wirecodec.MustEncode(sent)))
}

func TestSimulateSwap_NullIsNotFound(t *testing.T) {
	f := newFakeDaemon(t)
	f.on(http.MethodPost, "/pool_info", http.StatusOK, "null")

	_, err := f.client(melwalletd.ProtocolREST).SimulateSwap(context.Background(), domain.MEL, domain.SYM, big.NewInt(10))

	assert.True(t, apperror.IsNotFound(err), "got %v", err)
	seen := f.requests()
	require.Len(t, seen, 1)
	assert.Equal(t, `{"from":"6D","to":"73","value":10}`, seen[0].body)
}

func TestLatestHeader(t *testing.T) {
	h := func(b string) string { return `"` + strings.Repeat(b, 64) + `"` }
	f := newFakeDaemon(t)
	f.on(http.MethodGet, "/summary", http.StatusOK, `{
		"network": 255, "previous": `+h("1")+`, "height": 1234567,
		"history_hash": `+h("2")+`, "coins_hash": `+h("3")+`, "transactions_hash": `+h("4")+`,
		"fee_pool": 10, "fee_multiplier": 20, "dosc_speed": 30,
		"pools_hash": `+h("5")+`, "stakes_hash": `+h("6")+`}`)

	hdr, err := f.client(melwalletd.ProtocolREST).LatestHeader(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.NetMainnet, hdr.Network)
	assert.Equal(t, "1234567", hdr.Height.String())
	assert.Equal(t, strings.Repeat("6", 64), hdr.StakesHash.String())
}

// -----------------------------------------------------------------------------
// JSON-RPC
// -----------------------------------------------------------------------------

// rpcDaemon answers JSON-RPC calls by method name.
func rpcDaemon(t *testing.T, results map[string]string) (*httptest.Server, func() []wirecodec.Value) {
	t.Helper()
	var (
		mu     sync.Mutex
		params []wirecodec.Value
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/", r.URL.Path)

		b, _ := io.ReadAll(r.Body)
		v, err := wirecodec.Decode(b)
		if err != nil {
			t.Errorf("request is not JSON: %v", err)
			return
		}
		req := v.(map[string]wirecodec.Value)
		assert.Equal(t, "2.0", req["jsonrpc"])
		mu.Lock()
		params = append(params, req["params"])
		mu.Unlock()

		method := req["method"].(string)
		payload, ok := results[method]
		if !ok {
			t.Errorf("unexpected method %s", method)
			payload = `"result": null`
		}
		w.Write([]byte(`{"jsonrpc": "2.0", "id": ` + req["id"].(*big.Int).String() + `, ` + payload + `}`))
	}))
	t.Cleanup(srv.Close)
	return srv, func() []wirecodec.Value {
		mu.Lock()
		defer mu.Unlock()
		return append([]wirecodec.Value(nil), params...)
	}
}

func rpcClient(t *testing.T, srv *httptest.Server) *melwalletd.Client {
	t.Helper()
	c, err := melwalletd.NewClient(melwalletd.Config{BaseURL: srv.URL, Protocol: melwalletd.ProtocolJSONRPC}, nil)
	require.NoError(t, err)
	return c
}

func TestRPC_ResultFlowsThroughSamePipeline(t *testing.T) {
	srv, params := rpcDaemon(t, map[string]string{
		"wallet_summary": `"result": ` + summaryJSON,
	})

	s, err := rpcClient(t, srv).WalletSummary(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, "1001000000", s.DetailedBalance[domain.MEL].String())
	sent := params()
	require.Len(t, sent, 1)
	assert.Equal(t, `["alice"]`, string(wirecodec.MustEncode(sent[0])))
}

func TestRPC_ErrorObjectIsApplicationError(t *testing.T) {
	srv, _ := rpcDaemon(t, map[string]string{
		"export_sk": `"error": {"code": -32000, "message": "wallet is locked"}`,
	})

	_, err := rpcClient(t, srv).ExportSK(context.Background(), "alice", "pw")

	ae := appErr(t, err)
	assert.Equal(t, apperror.CodeApplicationError, ae.Code)
	assert.Equal(t, -32000, ae.StatusCode)
	assert.Equal(t, "wallet is locked", ae.Message)
}

func TestRPC_NullResultIsNotFound(t *testing.T) {
	srv, _ := rpcDaemon(t, map[string]string{
		"melswap_info": `"result": null`,
	})

	_, err := rpcClient(t, srv).PoolInfo(context.Background(), domain.PoolKey{Left: domain.MEL, Right: domain.SYM})

	assert.True(t, apperror.IsNotFound(err), "got %v", err)
}

func TestRPC_ListWalletsFetchesEachSummary(t *testing.T) {
	srv, params := rpcDaemon(t, map[string]string{
		"list_wallets":   `"result": ["alice"]`,
		"wallet_summary": `"result": ` + summaryJSON,
	})

	wallets, err := rpcClient(t, srv).ListWallets(context.Background())
	require.NoError(t, err)

	require.Contains(t, wallets, "alice")
	assert.Equal(t, domain.NetTestnet, wallets["alice"].Network)
	assert.Len(t, params(), 2)
}

func TestRPC_CreateWalletPositionalParams(t *testing.T) {
	srv, params := rpcDaemon(t, map[string]string{
		"create_wallet": `"result": null`,
	})

	require.NoError(t, rpcClient(t, srv).CreateWallet(context.Background(), "bob", "pw", ""))
	sent := params()
	require.Len(t, sent, 1)
	assert.Equal(t, `["bob","pw",null]`, string(wirecodec.MustEncode(sent[0])))
}
