package app

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/fd1az/melwalletd-client/business/wallet/domain"
	"github.com/fd1az/melwalletd-client/internal/apperror"
)

var (
	errSameDenom   = errors.New("cannot swap a denomination into itself")
	errEmptySecret = errors.New("secret key is required")
)

func errNonPositive(name string) error {
	return fmt.Errorf("%s must be positive", name)
}

// DefaultFaucetAmount is what a faucet transaction mints when no amount is
// given, in micromel.
var DefaultFaucetAmount = big.NewInt(1001000000)

// PrepareFaucet builds a faucet transaction minting amount MEL to address.
// Faucet transactions carry no inputs or signatures and pay their whole
// value as fee; the random data keeps repeated taps distinct.
func PrepareFaucet(address domain.Address, amount *big.Int) (domain.Transaction, error) {
	if amount == nil || amount.Sign() <= 0 {
		return domain.Transaction{}, apperror.InvalidInput("prepare_faucet", errNonPositive("amount"))
	}

	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return domain.Transaction{}, apperror.Internal(apperror.CodeInternalError, "prepare_faucet", err)
	}

	return domain.Transaction{
		Kind:   domain.TxFaucet,
		Inputs: []domain.CoinID{},
		Outputs: []domain.CoinData{{
			Covhash: address,
			Value:   new(big.Int).Set(amount),
			Denom:   domain.MEL,
		}},
		Fee:       new(big.Int).Set(amount),
		Covenants: []string{},
		Data:      hex.EncodeToString(nonce),
		Sigs:      []string{},
	}, nil
}

// PrepareSwap builds the template for swapping value of from into to, with
// the proceeds paid to address.
func PrepareSwap(address domain.Address, from, to domain.Denom, value *big.Int) (domain.PrepareTxArgs, error) {
	if value == nil || value.Sign() <= 0 {
		return domain.PrepareTxArgs{}, apperror.InvalidInput("prepare_swap", errNonPositive("value"))
	}
	if from == to {
		return domain.PrepareTxArgs{}, apperror.InvalidInput("prepare_swap", errSameDenom)
	}

	kind := domain.TxSwap
	key := domain.PoolKey{Left: from, Right: to}
	return domain.PrepareTxArgs{
		Kind: &kind,
		Outputs: []domain.CoinData{{
			Covhash: address,
			Value:   new(big.Int).Set(value),
			Denom:   from,
		}},
		Data: hex.EncodeToString(key.Bytes()),
	}, nil
}
