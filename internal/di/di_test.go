package di_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fd1az/melwalletd-client/internal/di"
)

type service struct{ dep string }

func TestToken_FactoryRunsOnceAndResolvesDeps(t *testing.T) {
	c := di.NewContainer()
	c.Register("name", "melwalletd")

	tok := di.NewToken[*service]("test:service")
	calls := 0
	di.RegisterToken(c, tok, func(sr di.ServiceRegistry) *service {
		calls++
		return &service{dep: sr.Get("name").(string)}
	})

	a := di.GetToken(c, tok)
	b := di.GetToken(c, tok)

	assert.Same(t, a, b)
	assert.Equal(t, "melwalletd", a.dep)
	assert.Equal(t, 1, calls)
}

func TestGet_UnknownPanics(t *testing.T) {
	assert.Panics(t, func() { di.NewContainer().Get("missing") })
}
