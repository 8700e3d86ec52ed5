package melwalletd

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fd1az/melwalletd-client/internal/apperror"
	"github.com/fd1az/melwalletd-client/internal/wirecodec"
)

// Operation is a logical daemon call. Its value doubles as the JSON-RPC
// method name.
type Operation string

const (
	OpListWallets      Operation = "list_wallets"
	OpWalletSummary    Operation = "wallet_summary"
	OpCreateWallet     Operation = "create_wallet"
	OpLockWallet       Operation = "lock_wallet"
	OpUnlockWallet     Operation = "unlock_wallet"
	OpExportSK         Operation = "export_sk"
	OpPrepareTx        Operation = "prepare_tx"
	OpSendTx           Operation = "send_tx"
	OpSendFaucet       Operation = "send_faucet"
	OpDumpTransactions Operation = "dump_transactions"
	OpTxStatus         Operation = "tx_status"
	OpTxBalance        Operation = "tx_balance"
	OpDumpCoins        Operation = "dump_coins"
	OpPoolInfo         Operation = "melswap_info"
	OpSimulateSwap     Operation = "simulate_swap"
	OpLatestHeader     Operation = "latest_header"
)

// Path placeholders filled from Params.
const (
	segWallet = "{wallet}"
	segHash   = "{hash}"
	segPool   = "{pool}"
)

// JSON-RPC positional argument sources. Any other name is looked up in
// Params.Body.
const (
	argWallet = "@wallet"
	argHash   = "@hash"
	argPool   = "@pool"
	argBody   = "@body"
)

type route struct {
	method  string
	path    []string
	body    bool
	rpcArgs []string
}

var routes = map[Operation]route{
	OpListWallets:      {method: http.MethodGet, path: []string{"wallets"}},
	OpWalletSummary:    {method: http.MethodGet, path: []string{"wallets", segWallet}, rpcArgs: []string{argWallet}},
	OpCreateWallet:     {method: http.MethodPut, path: []string{"wallets", segWallet}, body: true, rpcArgs: []string{argWallet, "password", "secret"}},
	OpLockWallet:       {method: http.MethodPost, path: []string{"wallets", segWallet, "lock"}, rpcArgs: []string{argWallet}},
	OpUnlockWallet:     {method: http.MethodPost, path: []string{"wallets", segWallet, "unlock"}, body: true, rpcArgs: []string{argWallet, "password"}},
	OpExportSK:         {method: http.MethodPost, path: []string{"wallets", segWallet, "export-sk"}, body: true, rpcArgs: []string{argWallet, "password"}},
	OpPrepareTx:        {method: http.MethodPost, path: []string{"wallets", segWallet, "prepare-tx"}, body: true, rpcArgs: []string{argWallet, argBody}},
	OpSendTx:           {method: http.MethodPost, path: []string{"wallets", segWallet, "send-tx"}, body: true, rpcArgs: []string{argWallet, argBody}},
	OpSendFaucet:       {method: http.MethodPost, path: []string{"wallets", segWallet, "send-faucet"}, rpcArgs: []string{argWallet}},
	OpDumpTransactions: {method: http.MethodGet, path: []string{"wallets", segWallet, "transactions"}, rpcArgs: []string{argWallet}},
	OpTxStatus:         {method: http.MethodGet, path: []string{"wallets", segWallet, "transactions", segHash}, rpcArgs: []string{argWallet, argHash}},
	OpTxBalance:        {method: http.MethodGet, path: []string{"wallets", segWallet, "transactions", segHash, "balance"}, rpcArgs: []string{argWallet, argHash}},
	OpDumpCoins:        {method: http.MethodGet, path: []string{"wallets", segWallet, "coins"}, rpcArgs: []string{argWallet}},
	OpPoolInfo:         {method: http.MethodGet, path: []string{"pools", segPool}, rpcArgs: []string{argPool}},
	OpSimulateSwap:     {method: http.MethodPost, path: []string{"pool_info"}, body: true, rpcArgs: []string{"to", "from", "value"}},
	OpLatestHeader:     {method: http.MethodGet, path: []string{"summary"}},
}

// Params carries the values an operation's route and body need. Path
// values are used verbatim as path segments.
type Params struct {
	Wallet string
	TxHash string
	Pool   string
	// Body is the wire-form request payload, already mapped from the domain.
	Body map[string]wirecodec.Value
}

// Descriptor is a fully built request.
type Descriptor struct {
	Operation Operation
	Method    string
	// Segments are the unescaped path segments.
	Segments []string
	// Body is the encoded payload, nil when the request has none.
	Body []byte
}

// Path returns the request path with each segment escaped.
func (d Descriptor) Path() string {
	escaped := make([]string, len(d.Segments))
	for i, s := range d.Segments {
		escaped[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(escaped, "/")
}

// Build maps a REST operation and its parameters to a request descriptor.
// It performs no I/O; equal inputs yield equal descriptors.
func Build(op Operation, p Params) (Descriptor, error) {
	r, ok := routes[op]
	if !ok {
		return Descriptor{}, apperror.InvalidInput(string(op), fmt.Errorf("unknown operation %q", op))
	}

	segments := make([]string, len(r.path))
	for i, seg := range r.path {
		v, err := fill(op, seg, p)
		if err != nil {
			return Descriptor{}, err
		}
		segments[i] = v
	}

	d := Descriptor{Operation: op, Method: r.method, Segments: segments}
	if r.body {
		body := p.Body
		if body == nil {
			body = map[string]wirecodec.Value{}
		}
		b, err := wirecodec.Encode(body)
		if err != nil {
			return Descriptor{}, apperror.InvalidInput(string(op), err)
		}
		d.Body = b
	}
	return d, nil
}

// BuildRPC maps an operation to a JSON-RPC 2.0 request posted to the root
// path. Arguments are positional, in the order the daemon declares them.
func BuildRPC(op Operation, p Params, id int64) (Descriptor, error) {
	r, ok := routes[op]
	if !ok {
		return Descriptor{}, apperror.InvalidInput(string(op), fmt.Errorf("unknown operation %q", op))
	}

	args := make([]wirecodec.Value, len(r.rpcArgs))
	for i, name := range r.rpcArgs {
		switch name {
		case argWallet, argHash, argPool:
			v, err := fill(op, placeholderFor(name), p)
			if err != nil {
				return Descriptor{}, err
			}
			args[i] = v
		case argBody:
			args[i] = p.Body
		default:
			args[i] = p.Body[name]
		}
	}

	body, err := encodeRPCRequest(op, args, id)
	if err != nil {
		return Descriptor{}, apperror.InvalidInput(string(op), err)
	}
	return Descriptor{Operation: op, Method: http.MethodPost, Segments: []string{}, Body: body}, nil
}

func placeholderFor(arg string) string {
	switch arg {
	case argWallet:
		return segWallet
	case argHash:
		return segHash
	default:
		return segPool
	}
}

func fill(op Operation, seg string, p Params) (string, error) {
	var v, name string
	switch seg {
	case segWallet:
		v, name = p.Wallet, "wallet name"
	case segHash:
		v, name = p.TxHash, "transaction hash"
	case segPool:
		v, name = p.Pool, "pool key"
	default:
		return seg, nil
	}
	if v == "" {
		return "", apperror.InvalidInput(string(op), fmt.Errorf("%s is required", name))
	}
	return v, nil
}
