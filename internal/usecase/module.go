package usecase

import (
	"go.uber.org/fx"

	pkgAuth "github.com/polkiloo/vendingmachine/internal/pkg/auth"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newBuilder,
)

func newBuilder(hasher pkgAuth.PasswordHasher, tokens pkgAuth.Strategy) *Builder {
	return NewBuilder(hasher, tokens)
}
