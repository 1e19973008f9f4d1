package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/vendingmachine/internal/domain/errors"
	"github.com/polkiloo/vendingmachine/internal/domain/repository"
)

const uniqueViolation = "23505"

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxPool interface {
	querier
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

var (
	_ repository.Transactor = (*Storage)(nil)
	_ repository.Factory    = txRepositories{}
)

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, maxConns int, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		logger.Error("schema initialization failed", slog.Any("error", err))
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// txRepositories binds every repository to one transaction.
type txRepositories struct {
	tx pgx.Tx
}

func (r txRepositories) Machines() repository.MachineRepository {
	return &machineRepository{db: r.tx}
}

func (r txRepositories) Orders() repository.OrderRepository {
	return &orderRepository{db: r.tx}
}

func (r txRepositories) Payments() repository.PaymentRepository {
	return &paymentRepository{db: r.tx}
}

func (r txRepositories) Owners() repository.OwnerRepository {
	return &ownerRepository{db: r.tx}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS owners (
            id UUID PRIMARY KEY,
            full_name TEXT NOT NULL,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            unit_price INTEGER NOT NULL CHECK (unit_price >= 0)
        )`,
		`CREATE TABLE IF NOT EXISTS machines (
            id UUID PRIMARY KEY,
            owner_id UUID NOT NULL REFERENCES owners(id),
            state TEXT NOT NULL,
            coin_01_qty INTEGER NOT NULL DEFAULT 0 CHECK (coin_01_qty >= 0),
            coin_05_qty INTEGER NOT NULL DEFAULT 0 CHECK (coin_05_qty >= 0),
            coin_10_qty INTEGER NOT NULL DEFAULT 0 CHECK (coin_10_qty >= 0),
            coin_25_qty INTEGER NOT NULL DEFAULT 0 CHECK (coin_25_qty >= 0),
            coin_50_qty INTEGER NOT NULL DEFAULT 0 CHECK (coin_50_qty >= 0),
            coin_100_qty INTEGER NOT NULL DEFAULT 0 CHECK (coin_100_qty >= 0)
        )`,
		`CREATE TABLE IF NOT EXISTS machine_products (
            machine_id UUID NOT NULL REFERENCES machines(id),
            product_id UUID NOT NULL REFERENCES products(id),
            product_qty INTEGER NOT NULL CHECK (product_qty >= 0),
            code TEXT NOT NULL,
            PRIMARY KEY (machine_id, product_id),
            UNIQUE (machine_id, code)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id UUID NOT NULL,
            machine_id UUID NOT NULL REFERENCES machines(id),
            status TEXT NOT NULL,
            total_amount INTEGER NOT NULL,
            created_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL,
            PRIMARY KEY (id, created_at)
        ) PARTITION BY RANGE (created_at)`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id UUID PRIMARY KEY,
            order_id UUID NOT NULL,
            order_created_at TIMESTAMPTZ NOT NULL,
            product_id UUID NOT NULL,
            product_name TEXT NOT NULL,
            product_code TEXT NOT NULL,
            unit_price INTEGER NOT NULL,
            qty INTEGER NOT NULL CHECK (qty > 0),
            price INTEGER NOT NULL,
            created_at TIMESTAMPTZ NOT NULL,
            FOREIGN KEY (order_id, order_created_at) REFERENCES orders(id, created_at)
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            id UUID PRIMARY KEY,
            order_id UUID UNIQUE NOT NULL,
            payment_type TEXT NOT NULL,
            amount INTEGER NOT NULL,
            paid_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS cash_payments (
            payment_id UUID PRIMARY KEY REFERENCES payments(id),
            cash_tendered INTEGER NOT NULL,
            change_amount INTEGER NOT NULL CHECK (change_amount >= 0)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id, order_created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_machine ON orders(machine_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// Atomically runs fn with repositories sharing one transaction.
func (s *Storage) Atomically(ctx context.Context, fn func(ctx context.Context, repos repository.Factory) error) error {
	return s.WithinTransaction(ctx, func(tx pgx.Tx) error {
		return fn(ctx, txRepositories{tx: tx})
	})
}

// WithinTransaction executes function inside transaction boundary. A panic in fn rolls
// the transaction back before it propagates.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// translateError maps driver errors onto storage sentinel errors.
func translateError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domainErrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", domainErrors.ErrAlreadyExists, pgErr.ConstraintName)
	}
	return err
}
