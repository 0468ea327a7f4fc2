package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"mortar/internal/database"
	"mortar/internal/domain"
	"mortar/internal/errors"
)

type MySQLPurchaseOrderRepository struct {
	db *sql.DB
}

func NewMySQLPurchaseOrderRepository(db *sql.DB) *MySQLPurchaseOrderRepository {
	return &MySQLPurchaseOrderRepository{db: db}
}

func (r *MySQLPurchaseOrderRepository) Insert(ctx context.Context, tx database.Tx, order *domain.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, order_number, supplier_id, created_by, status, total_amount,
		                             expected_delivery_date, received_date, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := tx.ExecContext(ctx, query,
		order.ID, order.OrderNumber, order.SupplierID, order.CreatedBy, order.Status, order.TotalAmount,
		order.ExpectedDeliveryDate, order.ReceivedDate, order.Notes,
	)
	if err != nil {
		if database.IsDuplicateEntry(err) {
			return errors.NewConflictError(fmt.Sprintf("order number %s already exists", order.OrderNumber))
		}
		return fmt.Errorf("inserting purchase order: %w", err)
	}

	return r.insertItems(ctx, tx, order.ID, order.Items)
}

func (r *MySQLPurchaseOrderRepository) Update(ctx context.Context, tx database.Tx, order *domain.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders
		SET supplier_id = ?, status = ?, total_amount = ?, expected_delivery_date = ?, received_date = ?, notes = ?
		WHERE id = ?`

	result, err := tx.ExecContext(ctx, query,
		order.SupplierID, order.Status, order.TotalAmount,
		order.ExpectedDeliveryDate, order.ReceivedDate, order.Notes, order.ID,
	)
	if err != nil {
		return fmt.Errorf("updating purchase order: %w", err)
	}

	if _, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	return nil
}

// ReplaceItems swaps the stored item list for the given one.
func (r *MySQLPurchaseOrderRepository) ReplaceItems(ctx context.Context, tx database.Tx, orderID string, items []domain.PurchaseOrderItem) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM purchase_order_items WHERE order_id = ?`, orderID); err != nil {
		return fmt.Errorf("deleting purchase order items: %w", err)
	}
	return r.insertItems(ctx, tx, orderID, items)
}

func (r *MySQLPurchaseOrderRepository) Delete(ctx context.Context, tx database.Tx, id string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM purchase_order_items WHERE order_id = ?`, id); err != nil {
		return fmt.Errorf("deleting purchase order items: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM purchase_orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting purchase order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError("Purchase order not found")
	}

	return nil
}

func (r *MySQLPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, tx database.Tx, id string) (*domain.PurchaseOrder, error) {
	query := selectOrder + ` WHERE id = ? FOR UPDATE`

	order, err := scanOrder(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	items, err := r.itemsForOrders(ctx, tx, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]

	return order, nil
}

func (r *MySQLPurchaseOrderRepository) FindByID(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	query := selectOrder + ` WHERE id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	items, err := r.itemsForOrders(ctx, r.db, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]

	return order, nil
}

func (r *MySQLPurchaseOrderRepository) FindAll(ctx context.Context) ([]domain.PurchaseOrder, error) {
	query := selectOrder + ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.PurchaseOrder
	var ids []string
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating purchase order rows: %w", err)
	}

	items, err := r.itemsForOrders(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, nil
}

const selectOrder = `
	SELECT id, order_number, supplier_id, created_by, status, total_amount,
	       expected_delivery_date, received_date, notes, created_at, updated_at
	FROM purchase_orders`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.PurchaseOrder, error) {
	var order domain.PurchaseOrder
	var notes sql.NullString

	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.SupplierID, &order.CreatedBy, &order.Status, &order.TotalAmount,
		&order.ExpectedDeliveryDate, &order.ReceivedDate, &notes, &order.CreatedAt, &order.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Purchase order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning purchase order row: %w", err)
	}

	order.Notes = notes.String
	return &order, nil
}

func (r *MySQLPurchaseOrderRepository) insertItems(ctx context.Context, tx database.Tx, orderID string, items []domain.PurchaseOrderItem) error {
	query := `INSERT INTO purchase_order_items (order_id, product_id, quantity, unit_cost, subtotal) VALUES (?, ?, ?, ?, ?)`
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, query, orderID, item.ProductID, item.Quantity, item.UnitCost, item.Subtotal); err != nil {
			return fmt.Errorf("inserting purchase order item: %w", err)
		}
	}
	return nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *MySQLPurchaseOrderRepository) itemsForOrders(ctx context.Context, q queryer, orderIDs []string) (map[string][]domain.PurchaseOrderItem, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(orderIDs))
	args := make([]any, 0, len(orderIDs))
	for i, id := range orderIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT id, order_id, product_id, quantity, unit_cost, subtotal
		FROM purchase_order_items
		WHERE order_id IN (%s)
		ORDER BY id`,
		strings.Join(placeholders, ", "),
	)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying purchase order items: %w", err)
	}
	defer rows.Close()

	items := make(map[string][]domain.PurchaseOrderItem)
	for rows.Next() {
		var item domain.PurchaseOrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitCost, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("scanning purchase order item row: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating purchase order item rows: %w", err)
	}

	return items, nil
}
