package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/vendingmachine/internal/domain/errors"
	"github.com/polkiloo/vendingmachine/internal/domain/model"
	"github.com/polkiloo/vendingmachine/internal/domain/repository"
	pkgAuth "github.com/polkiloo/vendingmachine/internal/pkg/auth"
)

// OperatorUseCase handles machine owners: sign in and access to their machines.
type OperatorUseCase struct {
	owners   repository.OwnerRepository
	machines repository.MachineRepository
	hasher   pkgAuth.PasswordHasher
	tokens   pkgAuth.Strategy
}

// NewOperatorUseCase constructs OperatorUseCase.
func NewOperatorUseCase(owners repository.OwnerRepository, machines repository.MachineRepository, hasher pkgAuth.PasswordHasher, tokens pkgAuth.Strategy) *OperatorUseCase {
	return &OperatorUseCase{owners: owners, machines: machines, hasher: hasher, tokens: tokens}
}

// Authenticate validates credentials and returns auth token.
func (u *OperatorUseCase) Authenticate(ctx context.Context, email, password string) (*model.Owner, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	owner, err := u.owners.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(owner.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(owner.ID)
	if err != nil {
		return nil, "", err
	}

	return owner, token, nil
}

// Register stores a new owner with a hashed password.
func (u *OperatorUseCase) Register(ctx context.Context, id, fullName, email, password string) (*model.Owner, error) {
	if password == "" {
		return nil, domainErrors.ErrInvalidCredentials
	}
	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	owner, err := model.NewOwner(id, fullName, email, hash)
	if err != nil {
		return nil, err
	}
	if err := u.owners.Save(ctx, owner); err != nil {
		return nil, err
	}
	return owner, nil
}

// OwnedMachine loads a machine and checks it belongs to ownerID.
func (u *OperatorUseCase) OwnedMachine(ctx context.Context, ownerID, machineID string) (*model.Machine, error) {
	machine, err := loadMachine(ctx, u.machines, machineID)
	if err != nil {
		return nil, err
	}
	if machine.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: machine %s", domainErrors.ErrForbidden, machineID)
	}
	return machine, nil
}
