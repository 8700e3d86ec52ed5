// Package di contains dependency injection tokens for the wallet context.
package di

import (
	"github.com/fd1az/melwalletd-client/business/wallet/app"
	"github.com/fd1az/melwalletd-client/business/wallet/infra/melwalletd"
	"github.com/fd1az/melwalletd-client/internal/di"
)

// Public service tokens - exposed to other modules
var (
	DaemonHandle = di.NewToken[*app.DaemonHandle]("wallet.DaemonHandle")
)

// Private dependency tokens - internal to wallet module
var (
	DaemonClient = di.NewToken[*melwalletd.Client]("wallet:daemonClient")
	Confirmer    = di.NewToken[*app.Confirmer]("wallet:confirmer")
)

func GetDaemonHandle(c di.ServiceRegistry) *app.DaemonHandle {
	return di.GetToken(c, DaemonHandle)
}

func GetDaemonClient(c di.ServiceRegistry) *melwalletd.Client {
	return di.GetToken(c, DaemonClient)
}

func GetConfirmer(c di.ServiceRegistry) *app.Confirmer {
	return di.GetToken(c, Confirmer)
}
