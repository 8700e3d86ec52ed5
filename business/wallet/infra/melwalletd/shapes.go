package melwalletd

import (
	"github.com/fd1az/melwalletd-client/business/wallet/domain"
	"github.com/fd1az/melwalletd-client/internal/shape"
)

// Wire shapes of daemon responses. Each response is checked against its
// shape before the mapper reads it.
var (
	denomTagShape = shape.Tag("denom tag", domain.CheckDenomTag)
	hashShape     = shape.Tag("hash", domain.CheckHash)
	netIDShape    = shape.IntEnum("network", domain.NetIDCodes()...)
	txKindShape   = shape.IntEnum("transaction kind", domain.TxKindCodes()...)

	coinIDShape = shape.Object("CoinID",
		shape.Required("txhash", hashShape),
		shape.Required("index", shape.Integer()),
	)

	coinDataShape = shape.Object("CoinData",
		shape.Required("covhash", shape.String()),
		shape.Required("value", shape.Integer()),
		shape.Required("denom", denomTagShape),
		shape.Required("additional_data", shape.String()),
	)

	transactionShape = shape.Object("Transaction",
		shape.Required("kind", txKindShape),
		shape.Required("inputs", shape.ArrayOf(coinIDShape)),
		shape.Required("outputs", shape.ArrayOf(coinDataShape)),
		shape.Required("fee", shape.Integer()),
		shape.Required("covenants", shape.ArrayOf(shape.String())),
		shape.Required("data", shape.String()),
		shape.Required("sigs", shape.ArrayOf(shape.String())),
	)

	headerShape = shape.Object("Header",
		shape.Required("network", netIDShape),
		shape.Required("previous", hashShape),
		shape.Required("height", shape.Integer()),
		shape.Required("history_hash", hashShape),
		shape.Required("coins_hash", hashShape),
		shape.Required("transactions_hash", hashShape),
		shape.Required("fee_pool", shape.Integer()),
		shape.Required("fee_multiplier", shape.Integer()),
		shape.Required("dosc_speed", shape.Integer()),
		shape.Required("pools_hash", hashShape),
		shape.Required("stakes_hash", hashShape),
	)

	walletSummaryShape = shape.Object("WalletSummary",
		shape.Required("total_micromel", shape.Integer()),
		shape.Required("detailed_balance", shape.MapOf(denomTagShape, shape.Integer())),
		shape.Required("staked_microsym", shape.Integer()),
		shape.Required("network", netIDShape),
		shape.Required("address", shape.String()),
		shape.Required("locked", shape.Bool()),
	)

	walletListShape  = shape.MapOf(shape.String(), walletSummaryShape)
	walletNamesShape = shape.ArrayOf(shape.String())

	annCoinIDShape = shape.Object("AnnCoinID",
		shape.Required("coin_data", coinDataShape),
		shape.Required("is_change", shape.Bool()),
		shape.Required("coin_id", shape.String()),
	)

	txStatusShape = shape.Object("TransactionStatus",
		shape.Required("raw", transactionShape),
		shape.Optional("confirmed_height", shape.Nullable(shape.Integer())),
		shape.Required("outputs", shape.ArrayOf(annCoinIDShape)),
	)

	txBalanceShape = shape.Tuple(
		shape.Bool(),
		txKindShape,
		shape.MapOf(denomTagShape, shape.Integer()),
	)

	txRecordsShape = shape.ArrayOf(shape.Tuple(hashShape, shape.Nullable(shape.Integer())))

	coinsShape = shape.ArrayOf(shape.Tuple(coinIDShape, coinDataShape))

	poolStateShape = shape.Object("PoolState",
		shape.Required("lefts", shape.Integer()),
		shape.Required("rights", shape.Integer()),
		shape.Required("price_accum", shape.Integer()),
		shape.Required("liqs", shape.Integer()),
	)

	swapInfoShape = shape.Object("SwapInfo",
		shape.Required("result", shape.Integer()),
		shape.Required("price_impact", shape.Integer()),
		shape.Required("poolkey", shape.String()),
	)

	secretKeyShape = shape.String()
)
