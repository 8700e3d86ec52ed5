package melwalletd

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strconv"

	"github.com/fd1az/melwalletd-client/business/wallet/domain"
	"github.com/fd1az/melwalletd-client/internal/apperror"
	"github.com/fd1az/melwalletd-client/internal/wirecodec"
)

// reader converts a decoded value into domain types. The first failure is
// kept and every later read becomes a no-op, so callers check err once.
type reader struct {
	err error
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *reader) mismatch(path, expected string, v wirecodec.Value) {
	r.fail(apperror.Validation("", path, expected, string(wirecodec.KindOf(v))))
}

// atField re-homes a domain error onto the field it was read from.
func (r *reader) atField(path string, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		appErr.Field = path
		r.fail(appErr)
		return
	}
	r.fail(apperror.Domain(path, err.Error()))
}

func (r *reader) object(v wirecodec.Value, path string) map[string]wirecodec.Value {
	if r.err != nil {
		return nil
	}
	o, ok := v.(map[string]wirecodec.Value)
	if !ok {
		r.mismatch(path, "object", v)
	}
	return o
}

func (r *reader) array(v wirecodec.Value, path string) []wirecodec.Value {
	if r.err != nil {
		return nil
	}
	a, ok := v.([]wirecodec.Value)
	if !ok {
		r.mismatch(path, "array", v)
	}
	return a
}

func (r *reader) tuple(v wirecodec.Value, path string, n int) []wirecodec.Value {
	a := r.array(v, path)
	if r.err == nil && len(a) != n {
		r.fail(apperror.Validation("", path, fmt.Sprintf("tuple of %d elements", n), fmt.Sprintf("array of %d elements", len(a))))
		return nil
	}
	return a
}

func (r *reader) integer(v wirecodec.Value, path string) *big.Int {
	if r.err != nil {
		return nil
	}
	n, ok := v.(*big.Int)
	if !ok || n == nil {
		r.mismatch(path, "integer", v)
		return nil
	}
	return n
}

func (r *reader) optInteger(v wirecodec.Value, path string) *big.Int {
	if v == nil {
		return nil
	}
	return r.integer(v, path)
}

func (r *reader) str(v wirecodec.Value, path string) string {
	if r.err != nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.mismatch(path, "string", v)
	}
	return s
}

func (r *reader) boolean(v wirecodec.Value, path string) bool {
	if r.err != nil {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		r.mismatch(path, "bool", v)
	}
	return b
}

func (r *reader) strings(v wirecodec.Value, path string) []string {
	arr := r.array(v, path)
	out := make([]string, len(arr))
	for i, e := range arr {
		out[i] = r.str(e, index(path, i))
	}
	return out
}

func (r *reader) denom(v wirecodec.Value, path string) domain.Denom {
	tag := r.str(v, path)
	if r.err != nil {
		return domain.Denom{}
	}
	d, err := domain.ParseDenomTag(tag)
	if err != nil {
		r.atField(path, err)
	}
	return d
}

func (r *reader) hash(v wirecodec.Value, path string) domain.Hash {
	s := r.str(v, path)
	if r.err != nil {
		return domain.Hash{}
	}
	h, err := domain.ParseHash(s)
	if err != nil {
		r.atField(path, err)
	}
	return h
}

func (r *reader) netID(v wirecodec.Value, path string) domain.NetID {
	code := r.integer(v, path)
	if r.err != nil {
		return 0
	}
	n, err := domain.NetIDFromCode(code)
	if err != nil {
		r.atField(path, err)
	}
	return n
}

func (r *reader) txKind(v wirecodec.Value, path string) domain.TxKind {
	code := r.integer(v, path)
	if r.err != nil {
		return 0
	}
	k, err := domain.TxKindFromCode(code)
	if err != nil {
		r.atField(path, err)
	}
	return k
}

func (r *reader) balances(v wirecodec.Value, path string) map[domain.Denom]*big.Int {
	o := r.object(v, path)
	tags := make([]string, 0, len(o))
	for tag := range o {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	out := make(map[domain.Denom]*big.Int, len(o))
	seen := make(map[domain.Denom]string, len(o))
	for _, tag := range tags {
		kp := key(path, tag)
		d := r.denom(tag, kp)
		n := r.integer(o[tag], kp)
		if r.err != nil {
			return nil
		}
		if prev, dup := seen[d.Canonical()]; dup {
			r.fail(apperror.Validation("", kp, "unique denomination", fmt.Sprintf("same denomination as %q", prev)))
			return nil
		}
		seen[d.Canonical()] = tag
		out[d] = n
	}
	return out
}

func (r *reader) coinID(v wirecodec.Value, path string) domain.CoinID {
	o := r.object(v, path)
	return domain.CoinID{
		TxHash: r.hash(o["txhash"], field(path, "txhash")),
		Index:  r.integer(o["index"], field(path, "index")),
	}
}

func (r *reader) coinData(v wirecodec.Value, path string) domain.CoinData {
	o := r.object(v, path)
	return domain.CoinData{
		Covhash:        domain.Address(r.str(o["covhash"], field(path, "covhash"))),
		Value:          r.integer(o["value"], field(path, "value")),
		Denom:          r.denom(o["denom"], field(path, "denom")),
		AdditionalData: r.str(o["additional_data"], field(path, "additional_data")),
	}
}

func (r *reader) transaction(v wirecodec.Value, path string) domain.Transaction {
	o := r.object(v, path)

	inputs := r.array(o["inputs"], field(path, "inputs"))
	ids := make([]domain.CoinID, len(inputs))
	for i, in := range inputs {
		ids[i] = r.coinID(in, index(field(path, "inputs"), i))
	}

	outputs := r.array(o["outputs"], field(path, "outputs"))
	outs := make([]domain.CoinData, len(outputs))
	for i, out := range outputs {
		outs[i] = r.coinData(out, index(field(path, "outputs"), i))
	}

	return domain.Transaction{
		Kind:      r.txKind(o["kind"], field(path, "kind")),
		Inputs:    ids,
		Outputs:   outs,
		Fee:       r.integer(o["fee"], field(path, "fee")),
		Covenants: r.strings(o["covenants"], field(path, "covenants")),
		Data:      r.str(o["data"], field(path, "data")),
		Sigs:      r.strings(o["sigs"], field(path, "sigs")),
	}
}

func (r *reader) walletSummary(v wirecodec.Value, path string) domain.WalletSummary {
	o := r.object(v, path)
	return domain.WalletSummary{
		TotalMicromel:   r.integer(o["total_micromel"], field(path, "total_micromel")),
		DetailedBalance: r.balances(o["detailed_balance"], field(path, "detailed_balance")),
		StakedMicrosym:  r.integer(o["staked_microsym"], field(path, "staked_microsym")),
		Network:         r.netID(o["network"], field(path, "network")),
		Address:         domain.Address(r.str(o["address"], field(path, "address"))),
		Locked:          r.boolean(o["locked"], field(path, "locked")),
	}
}

func (r *reader) annCoinID(v wirecodec.Value, path string) domain.AnnCoinID {
	o := r.object(v, path)
	return domain.AnnCoinID{
		CoinData: r.coinData(o["coin_data"], field(path, "coin_data")),
		IsChange: r.boolean(o["is_change"], field(path, "is_change")),
		CoinID:   r.str(o["coin_id"], field(path, "coin_id")),
	}
}

func finish[T any](r *reader, v T) (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return v, nil
}

// -----------------------------------------------------------------------------
// Wire -> domain
// -----------------------------------------------------------------------------

// DenomFromWire decodes a denomination tag.
func DenomFromWire(v wirecodec.Value) (domain.Denom, error) {
	var r reader
	return finish(&r, r.denom(v, ""))
}

// TxKindFromWire decodes a transaction kind code.
func TxKindFromWire(v wirecodec.Value) (domain.TxKind, error) {
	var r reader
	return finish(&r, r.txKind(v, ""))
}

// NetIDFromWire decodes a network code.
func NetIDFromWire(v wirecodec.Value) (domain.NetID, error) {
	var r reader
	return finish(&r, r.netID(v, ""))
}

// CoinDataFromWire decodes one output.
func CoinDataFromWire(v wirecodec.Value) (domain.CoinData, error) {
	var r reader
	return finish(&r, r.coinData(v, ""))
}

// TransactionFromWire decodes a transaction.
func TransactionFromWire(v wirecodec.Value) (domain.Transaction, error) {
	var r reader
	return finish(&r, r.transaction(v, ""))
}

// WalletSummaryFromWire decodes a wallet summary.
func WalletSummaryFromWire(v wirecodec.Value) (domain.WalletSummary, error) {
	var r reader
	return finish(&r, r.walletSummary(v, ""))
}

// WalletListFromWire decodes the name -> summary map.
func WalletListFromWire(v wirecodec.Value) (map[string]domain.WalletSummary, error) {
	var r reader
	o := r.object(v, "")
	out := make(map[string]domain.WalletSummary, len(o))
	for name, s := range o {
		out[name] = r.walletSummary(s, key("", name))
	}
	return finish(&r, out)
}

// WalletNamesFromWire decodes a list of wallet names.
func WalletNamesFromWire(v wirecodec.Value) ([]string, error) {
	var r reader
	return finish(&r, r.strings(v, ""))
}

// TransactionStatusFromWire decodes a transaction status.
func TransactionStatusFromWire(v wirecodec.Value) (domain.TransactionStatus, error) {
	var r reader
	o := r.object(v, "")

	outputs := r.array(o["outputs"], "outputs")
	anns := make([]domain.AnnCoinID, len(outputs))
	for i, out := range outputs {
		anns[i] = r.annCoinID(out, index("outputs", i))
	}

	return finish(&r, domain.TransactionStatus{
		Raw:             r.transaction(o["raw"], "raw"),
		ConfirmedHeight: r.optInteger(o["confirmed_height"], "confirmed_height"),
		Outputs:         anns,
	})
}

// HeaderFromWire decodes a block header summary.
func HeaderFromWire(v wirecodec.Value) (domain.Header, error) {
	var r reader
	o := r.object(v, "")
	return finish(&r, domain.Header{
		Network:          r.netID(o["network"], "network"),
		Previous:         r.hash(o["previous"], "previous"),
		Height:           r.integer(o["height"], "height"),
		HistoryHash:      r.hash(o["history_hash"], "history_hash"),
		CoinsHash:        r.hash(o["coins_hash"], "coins_hash"),
		TransactionsHash: r.hash(o["transactions_hash"], "transactions_hash"),
		FeePool:          r.integer(o["fee_pool"], "fee_pool"),
		FeeMultiplier:    r.integer(o["fee_multiplier"], "fee_multiplier"),
		DoscSpeed:        r.integer(o["dosc_speed"], "dosc_speed"),
		PoolsHash:        r.hash(o["pools_hash"], "pools_hash"),
		StakesHash:       r.hash(o["stakes_hash"], "stakes_hash"),
	})
}

// PoolStateFromWire decodes a pool state.
func PoolStateFromWire(v wirecodec.Value) (domain.PoolState, error) {
	var r reader
	o := r.object(v, "")
	return finish(&r, domain.PoolState{
		Lefts:      r.integer(o["lefts"], "lefts"),
		Rights:     r.integer(o["rights"], "rights"),
		PriceAccum: r.integer(o["price_accum"], "price_accum"),
		Liqs:       r.integer(o["liqs"], "liqs"),
	})
}

// TxBalanceFromWire decodes the [self, kind, balances] tuple.
func TxBalanceFromWire(v wirecodec.Value) (domain.TxBalance, error) {
	var r reader
	t := r.tuple(v, "", 3)
	if r.err != nil {
		return domain.TxBalance{}, r.err
	}
	return finish(&r, domain.TxBalance{
		Self:     r.boolean(t[0], "[0]"),
		Kind:     r.txKind(t[1], "[1]"),
		Balances: r.balances(t[2], "[2]"),
	})
}

// TxRecordsFromWire decodes a transaction history.
func TxRecordsFromWire(v wirecodec.Value) ([]domain.TxRecord, error) {
	var r reader
	arr := r.array(v, "")
	out := make([]domain.TxRecord, 0, len(arr))
	for i, e := range arr {
		p := index("", i)
		t := r.tuple(e, p, 2)
		if r.err != nil {
			break
		}
		out = append(out, domain.TxRecord{
			Hash:   r.hash(t[0], index(p, 0)),
			Height: r.optInteger(t[1], index(p, 1)),
		})
	}
	return finish(&r, out)
}

// CoinsFromWire decodes a coin dump.
func CoinsFromWire(v wirecodec.Value) ([]domain.CoinEntry, error) {
	var r reader
	arr := r.array(v, "")
	out := make([]domain.CoinEntry, 0, len(arr))
	for i, e := range arr {
		p := index("", i)
		t := r.tuple(e, p, 2)
		if r.err != nil {
			break
		}
		out = append(out, domain.CoinEntry{
			ID:   r.coinID(t[0], index(p, 0)),
			Data: r.coinData(t[1], index(p, 1)),
		})
	}
	return finish(&r, out)
}

// SwapInfoFromWire decodes a simulated swap.
func SwapInfoFromWire(v wirecodec.Value) (domain.SwapInfo, error) {
	var r reader
	o := r.object(v, "")
	return finish(&r, domain.SwapInfo{
		Result:      r.integer(o["result"], "result"),
		PriceImpact: r.integer(o["price_impact"], "price_impact"),
		PoolKey:     r.str(o["poolkey"], "poolkey"),
	})
}

// HashFromWire decodes a bare hash string.
func HashFromWire(v wirecodec.Value) (domain.Hash, error) {
	var r reader
	return finish(&r, r.hash(v, ""))
}

// StringFromWire decodes a bare string.
func StringFromWire(v wirecodec.Value) (string, error) {
	var r reader
	return finish(&r, r.str(v, ""))
}

// -----------------------------------------------------------------------------
// Domain -> wire
// -----------------------------------------------------------------------------

type object = map[string]wirecodec.Value

func DenomToWire(d domain.Denom) wirecodec.Value { return d.Tag() }

func TxKindToWire(k domain.TxKind) wirecodec.Value { return k.Code() }

func NetIDToWire(n domain.NetID) wirecodec.Value { return n.Code() }

func CoinIDToWire(c domain.CoinID) wirecodec.Value {
	return object{"txhash": c.TxHash.String(), "index": intOrZero(c.Index)}
}

func CoinDataToWire(c domain.CoinData) wirecodec.Value {
	return object{
		"covhash":         string(c.Covhash),
		"value":           intOrZero(c.Value),
		"denom":           DenomToWire(c.Denom),
		"additional_data": c.AdditionalData,
	}
}

func TransactionToWire(tx domain.Transaction) map[string]wirecodec.Value {
	inputs := make([]wirecodec.Value, len(tx.Inputs))
	for i, in := range tx.Inputs {
		inputs[i] = CoinIDToWire(in)
	}
	outputs := make([]wirecodec.Value, len(tx.Outputs))
	for i, out := range tx.Outputs {
		outputs[i] = CoinDataToWire(out)
	}
	return object{
		"kind":      TxKindToWire(tx.Kind),
		"inputs":    inputs,
		"outputs":   outputs,
		"fee":       intOrZero(tx.Fee),
		"covenants": stringsToWire(tx.Covenants),
		"data":      tx.Data,
		"sigs":      stringsToWire(tx.Sigs),
	}
}

func WalletSummaryToWire(s domain.WalletSummary) wirecodec.Value {
	return object{
		"total_micromel":   intOrZero(s.TotalMicromel),
		"detailed_balance": balancesToWire(s.DetailedBalance),
		"staked_microsym":  intOrZero(s.StakedMicrosym),
		"network":          NetIDToWire(s.Network),
		"address":          string(s.Address),
		"locked":           s.Locked,
	}
}

func TransactionStatusToWire(s domain.TransactionStatus) wirecodec.Value {
	outputs := make([]wirecodec.Value, len(s.Outputs))
	for i, a := range s.Outputs {
		outputs[i] = object{
			"coin_data": CoinDataToWire(a.CoinData),
			"is_change": a.IsChange,
			"coin_id":   a.CoinID,
		}
	}
	var height wirecodec.Value
	if s.ConfirmedHeight != nil {
		height = s.ConfirmedHeight
	}
	return object{
		"raw":              TransactionToWire(s.Raw),
		"confirmed_height": height,
		"outputs":          outputs,
	}
}

func HeaderToWire(h domain.Header) wirecodec.Value {
	return object{
		"network":           NetIDToWire(h.Network),
		"previous":          h.Previous.String(),
		"height":            intOrZero(h.Height),
		"history_hash":      h.HistoryHash.String(),
		"coins_hash":        h.CoinsHash.String(),
		"transactions_hash": h.TransactionsHash.String(),
		"fee_pool":          intOrZero(h.FeePool),
		"fee_multiplier":    intOrZero(h.FeeMultiplier),
		"dosc_speed":        intOrZero(h.DoscSpeed),
		"pools_hash":        h.PoolsHash.String(),
		"stakes_hash":       h.StakesHash.String(),
	}
}

func PoolStateToWire(p domain.PoolState) wirecodec.Value {
	return object{
		"lefts":       intOrZero(p.Lefts),
		"rights":      intOrZero(p.Rights),
		"price_accum": intOrZero(p.PriceAccum),
		"liqs":        intOrZero(p.Liqs),
	}
}

func TxBalanceToWire(b domain.TxBalance) wirecodec.Value {
	return []wirecodec.Value{b.Self, TxKindToWire(b.Kind), balancesToWire(b.Balances)}
}

func TxRecordsToWire(records []domain.TxRecord) wirecodec.Value {
	out := make([]wirecodec.Value, len(records))
	for i, rec := range records {
		var height wirecodec.Value
		if rec.Height != nil {
			height = rec.Height
		}
		out[i] = []wirecodec.Value{rec.Hash.String(), height}
	}
	return out
}

func CoinsToWire(coins []domain.CoinEntry) wirecodec.Value {
	out := make([]wirecodec.Value, len(coins))
	for i, c := range coins {
		out[i] = []wirecodec.Value{CoinIDToWire(c.ID), CoinDataToWire(c.Data)}
	}
	return out
}

func SwapInfoToWire(s domain.SwapInfo) wirecodec.Value {
	return object{
		"result":       intOrZero(s.Result),
		"price_impact": intOrZero(s.PriceImpact),
		"poolkey":      s.PoolKey,
	}
}

// PrepareTxArgsToWire builds the prepare-tx request body. Unset optional
// fields are left out so the daemon applies its defaults.
func PrepareTxArgsToWire(a domain.PrepareTxArgs) object {
	outputs := make([]wirecodec.Value, len(a.Outputs))
	for i, out := range a.Outputs {
		outputs[i] = CoinDataToWire(out)
	}
	body := object{"outputs": outputs}

	if len(a.Inputs) > 0 {
		inputs := make([]wirecodec.Value, len(a.Inputs))
		for i, in := range a.Inputs {
			inputs[i] = CoinIDToWire(in)
		}
		body["inputs"] = inputs
	}
	if a.Kind != nil {
		body["kind"] = TxKindToWire(*a.Kind)
	}
	if a.SigningKey != "" {
		body["signing_key"] = a.SigningKey
	}
	if a.Data != "" {
		body["data"] = a.Data
	}
	if len(a.Covenants) > 0 {
		body["covenants"] = stringsToWire(a.Covenants)
	}
	if len(a.NoBalance) > 0 {
		nb := make([]wirecodec.Value, len(a.NoBalance))
		for i, d := range a.NoBalance {
			nb[i] = DenomToWire(d)
		}
		body["nobalance"] = nb
	}
	if a.FeeBallast != nil {
		body["fee_ballast"] = a.FeeBallast
	}
	return body
}

func balancesToWire(m map[domain.Denom]*big.Int) object {
	out := make(object, len(m))
	for d, v := range m {
		out[d.Tag()] = intOrZero(v)
	}
	return out
}

func stringsToWire(ss []string) []wirecodec.Value {
	out := make([]wirecodec.Value, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func intOrZero(n *big.Int) *big.Int {
	if n == nil {
		return new(big.Int)
	}
	return n
}

func field(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func index(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func key(path, k string) string {
	return path + "[" + strconv.Quote(k) + "]"
}
