package melwalletd

import (
	"math/big"

	"github.com/fd1az/melwalletd-client/internal/apperror"
	"github.com/fd1az/melwalletd-client/internal/shape"
	"github.com/fd1az/melwalletd-client/internal/wirecodec"
)

const jsonrpcVersion = "2.0"

var rpcErrorShape = shape.Object("JSON-RPC error",
	shape.Required("code", shape.Integer()),
	shape.Required("message", shape.String()),
	shape.Optional("data", shape.Any()),
)

var rpcResponseShape = shape.Object("JSON-RPC response",
	shape.Required("jsonrpc", shape.String()),
	shape.Optional("id", shape.Any()),
	shape.Optional("result", shape.Any()),
	shape.Optional("error", shape.Nullable(rpcErrorShape)),
)

func encodeRPCRequest(op Operation, params []wirecodec.Value, id int64) ([]byte, error) {
	return wirecodec.Encode(map[string]wirecodec.Value{
		"jsonrpc": jsonrpcVersion,
		"id":      big.NewInt(id),
		"method":  string(op),
		"params":  params,
	})
}

// unwrapRPC validates a decoded JSON-RPC response and returns its result.
// A daemon error object becomes an APPLICATION_ERROR carrying the daemon's
// code and message verbatim.
func unwrapRPC(op Operation, v wirecodec.Value) (wirecodec.Value, error) {
	if err := shape.Validate(v, rpcResponseShape); err != nil {
		return nil, validationError(op, "", err)
	}
	env := v.(map[string]wirecodec.Value)

	if e, ok := env["error"].(map[string]wirecodec.Value); ok {
		code := e["code"].(*big.Int)
		rpcCode := 0
		if code.IsInt64() {
			rpcCode = int(code.Int64())
		}
		return nil, apperror.Application(string(op), rpcCode, e["message"].(string))
	}

	result, ok := env["result"]
	if !ok {
		return nil, apperror.Validation(string(op), "result", "result or error", "missing")
	}
	return result, nil
}
