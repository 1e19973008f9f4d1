package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Machines() MachineRepository
	Orders() OrderRepository
	Payments() PaymentRepository
	Owners() OwnerRepository
}

// Transactor runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	Atomically(ctx context.Context, fn func(ctx context.Context, repos Factory) error) error
}
