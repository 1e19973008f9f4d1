package postgres

import (
	"context"
	"fmt"

	domainErrors "github.com/polkiloo/vendingmachine/internal/domain/errors"
	"github.com/polkiloo/vendingmachine/internal/domain/model"
)

type machineRepository struct {
	db querier
}

// FindByID loads the machine with its stock and locks the machine row until the
// surrounding transaction ends.
func (r *machineRepository) FindByID(ctx context.Context, id string) (*model.Machine, error) {
	const machineQuery = `SELECT id, owner_id, state,
                          coin_01_qty, coin_05_qty, coin_10_qty, coin_25_qty, coin_50_qty, coin_100_qty
                          FROM machines WHERE id=$1 FOR UPDATE`
	var (
		m     model.Machine
		state string
	)
	err := r.db.QueryRow(ctx, machineQuery, id).Scan(
		&m.ID, &m.OwnerID, &state,
		&m.Coins[0], &m.Coins[1], &m.Coins[2], &m.Coins[3], &m.Coins[4], &m.Coins[5],
	)
	if err != nil {
		return nil, translateError(err)
	}

	if m.State, err = model.ParseMachineState(state); err != nil {
		return nil, err
	}

	if m.Products, err = r.products(ctx, m.ID); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *machineRepository) products(ctx context.Context, machineID string) ([]model.Product, error) {
	const query = `SELECT p.id, p.name, mp.code, mp.product_qty, p.unit_price
                   FROM machine_products mp
                   JOIN products p ON p.id = mp.product_id
                   WHERE mp.machine_id=$1
                   ORDER BY mp.code`
	rows, err := r.db.Query(ctx, query, machineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.Quantity, &p.UnitPrice); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Save provisions a new machine together with its catalog entries and stock.
func (r *machineRepository) Save(ctx context.Context, m *model.Machine) error {
	const insertMachine = `INSERT INTO machines (id, owner_id, state,
                           coin_01_qty, coin_05_qty, coin_10_qty, coin_25_qty, coin_50_qty, coin_100_qty)
                           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	const upsertProduct = `INSERT INTO products (id, name, unit_price) VALUES ($1, $2, $3)
                           ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, unit_price = EXCLUDED.unit_price`
	const insertStock = `INSERT INTO machine_products (machine_id, product_id, product_qty, code) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, insertMachine, m.ID, m.OwnerID, string(m.State),
		m.Coins[0], m.Coins[1], m.Coins[2], m.Coins[3], m.Coins[4], m.Coins[5])
	if err != nil {
		return translateError(err)
	}

	for _, p := range m.Products {
		if _, err := r.db.Exec(ctx, upsertProduct, p.ID, p.Name, p.UnitPrice); err != nil {
			return translateError(err)
		}
		if _, err := r.db.Exec(ctx, insertStock, m.ID, p.ID, p.Quantity, p.Code); err != nil {
			return translateError(err)
		}
	}
	return nil
}

// Update persists state, coin ledger and stock quantities.
func (r *machineRepository) Update(ctx context.Context, m *model.Machine) error {
	const updateMachine = `UPDATE machines SET state=$1,
                           coin_01_qty=$2, coin_05_qty=$3, coin_10_qty=$4, coin_25_qty=$5, coin_50_qty=$6, coin_100_qty=$7
                           WHERE id=$8`
	const updateStock = `UPDATE machine_products SET product_qty=$1 WHERE machine_id=$2 AND product_id=$3`

	tag, err := r.db.Exec(ctx, updateMachine, string(m.State),
		m.Coins[0], m.Coins[1], m.Coins[2], m.Coins[3], m.Coins[4], m.Coins[5], m.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: machine %s", domainErrors.ErrNotFound, m.ID)
	}

	for _, p := range m.Products {
		tag, err := r.db.Exec(ctx, updateStock, p.Quantity, m.ID, p.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: product %s in machine %s", domainErrors.ErrNotFound, p.ID, m.ID)
		}
	}
	return nil
}
