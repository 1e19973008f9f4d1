package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/vendingmachine/internal/domain/errors"
	"github.com/polkiloo/vendingmachine/internal/domain/model"
)

type orderRepository struct {
	db querier
}

// partitionName returns the monthly orders partition holding createdAt.
func partitionName(createdAt time.Time) string {
	return fmt.Sprintf("orders_y%04dm%02d", createdAt.Year(), int(createdAt.Month()))
}

// monthRange returns the UTC creation month bounds used for partition pruning.
func monthRange(createdAt time.Time) (time.Time, time.Time) {
	return model.OrderPeriod(createdAt.UTC())
}

// ensurePartition creates the partition for createdAt unless it already exists. The
// existence check keeps purchases from taking a DDL lock on orders once the partition
// maintainer has created the month ahead of time.
func (r *orderRepository) ensurePartition(ctx context.Context, createdAt time.Time) error {
	const partitionExists = `SELECT EXISTS (SELECT 1 FROM pg_tables WHERE schemaname = current_schema() AND tablename = $1)`

	from, to := monthRange(createdAt)
	name := partitionName(from)

	var exists bool
	if err := r.db.QueryRow(ctx, partitionExists, name).Scan(&exists); err != nil {
		return fmt.Errorf("check orders partition: %w", err)
	}
	if exists {
		return nil
	}

	stmt := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s PARTITION OF orders FOR VALUES FROM ('%s') TO ('%s')`,
		pgx.Identifier{name}.Sanitize(), from.Format(time.RFC3339), to.Format(time.RFC3339),
	)
	if _, err := r.db.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("ensure orders partition: %w", err)
	}
	return nil
}

// Save stores the order with its items.
func (r *orderRepository) Save(ctx context.Context, o *model.Order) error {
	const insertOrder = `INSERT INTO orders (id, machine_id, status, total_amount, created_at, updated_at)
                         VALUES ($1, $2, $3, $4, $5, $6)`
	const insertItem = `INSERT INTO order_items (id, order_id, order_created_at, product_id, product_name, product_code,
                        unit_price, qty, price, created_at)
                        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if err := r.ensurePartition(ctx, o.CreatedAt); err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, insertOrder, o.ID, o.MachineID, string(o.Status), o.TotalAmount, o.CreatedAt, o.UpdatedAt); err != nil {
		return translateError(err)
	}

	for _, item := range o.Items {
		_, err := r.db.Exec(ctx, insertItem, item.ID, o.ID, o.CreatedAt, item.Product.ID, item.Product.Name,
			item.Product.Code, item.UnitPrice, item.Quantity, item.Price, item.CreatedAt)
		if err != nil {
			return translateError(err)
		}
	}
	return nil
}

// Update persists status changes of the order.
func (r *orderRepository) Update(ctx context.Context, o *model.Order) error {
	const query = `UPDATE orders SET status=$1, updated_at=$2
                   WHERE id=$3 AND machine_id=$4 AND created_at >= $5 AND created_at < $6`
	from, to := monthRange(o.CreatedAt)
	tag, err := r.db.Exec(ctx, query, string(o.Status), o.UpdatedAt, o.ID, o.MachineID, from, to)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %s", domainErrors.ErrNotFound, o.ID)
	}
	return nil
}

// FindByIDAndMachineID looks the order up within the creation month of createdAt.
func (r *orderRepository) FindByIDAndMachineID(ctx context.Context, orderID, machineID string, createdAt time.Time) (*model.Order, error) {
	const orderQuery = `SELECT id, machine_id, status, created_at, updated_at FROM orders
                        WHERE id=$1 AND machine_id=$2 AND created_at >= $3 AND created_at < $4
                        FOR UPDATE`
	const itemsQuery = `SELECT id, product_id, product_name, product_code, unit_price, qty, price, created_at
                        FROM order_items WHERE order_id=$1 AND order_created_at=$2
                        ORDER BY created_at, id`

	from, to := monthRange(createdAt)
	var (
		id, machine, status string
		created, updated    time.Time
	)
	err := r.db.QueryRow(ctx, orderQuery, orderID, machineID, from, to).Scan(&id, &machine, &status, &created, &updated)
	if err != nil {
		return nil, translateError(err)
	}

	rows, err := r.db.Query(ctx, itemsQuery, id, created)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.Product.ID, &item.Product.Name, &item.Product.Code,
			&item.UnitPrice, &item.Quantity, &item.Price, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.Product.UnitPrice = item.UnitPrice
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	orderStatus, err := model.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	return model.RestoreOrder(id, machine, items, orderStatus, created, updated)
}

// EnsureOrderPartitions creates the orders partition for the month of at and for the
// following ahead months.
func (s *Storage) EnsureOrderPartitions(ctx context.Context, at time.Time, ahead int) error {
	repo := &orderRepository{db: s.pool}
	from, _ := monthRange(at)
	for i := 0; i <= ahead; i++ {
		if err := repo.ensurePartition(ctx, from.AddDate(0, i, 0)); err != nil {
			return err
		}
	}
	return nil
}
