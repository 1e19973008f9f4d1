package usecase

import (
	"time"

	"github.com/polkiloo/vendingmachine/internal/domain/model"
	"github.com/polkiloo/vendingmachine/internal/domain/repository"
	pkgAuth "github.com/polkiloo/vendingmachine/internal/pkg/auth"
)

// IDGenerator returns fresh aggregate identifiers.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Services groups use cases sharing one set of repositories, usually one transaction.
type Services struct {
	Machines  *MachineUseCase
	Orders    *OrderUseCase
	Payments  *PaymentUseCase
	Operators *OperatorUseCase
}

// Builder binds use cases to repositories.
type Builder struct {
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
	newID  IDGenerator
	now    Clock
}

// BuilderOption customizes Builder.
type BuilderOption func(*Builder)

// WithIDGenerator overrides identifier generation.
func WithIDGenerator(gen IDGenerator) BuilderOption {
	return func(b *Builder) { b.newID = gen }
}

// WithClock overrides the time source.
func WithClock(now Clock) BuilderOption {
	return func(b *Builder) { b.now = now }
}

// NewBuilder constructs Builder.
func NewBuilder(hasher pkgAuth.PasswordHasher, tokens pkgAuth.Strategy, opts ...BuilderOption) *Builder {
	b := &Builder{hasher: hasher, tokens: tokens, newID: model.NewID, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bind builds use cases on top of repos.
func (b *Builder) Bind(repos repository.Factory) *Services {
	return &Services{
		Machines:  NewMachineUseCase(repos.Machines()),
		Orders:    NewOrderUseCase(repos.Machines(), repos.Orders(), b.newID, b.now),
		Payments:  NewPaymentUseCase(repos.Orders(), repos.Payments(), b.newID, b.now),
		Operators: NewOperatorUseCase(repos.Owners(), repos.Machines(), b.hasher, b.tokens),
	}
}

// ParseToken extracts the owner ID from a bearer token.
func (b *Builder) ParseToken(token string) (string, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	return b.tokens.ParseToken(token)
}

// Now returns the builder's current time.
func (b *Builder) Now() time.Time {
	return b.now()
}

// NewID returns a fresh identifier from the builder's generator.
func (b *Builder) NewID() string {
	return b.newID()
}

// IssueToken signs a bearer token for ownerID.
func (b *Builder) IssueToken(ownerID string) (string, error) {
	return b.tokens.IssueToken(ownerID)
}
