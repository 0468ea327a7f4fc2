package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"mortar/internal/database"
	"mortar/internal/domain"
	"mortar/internal/dto"
	"mortar/internal/errors"
)

type MySQLSaleRepository struct {
	db *sql.DB
}

func NewMySQLSaleRepository(db *sql.DB) *MySQLSaleRepository {
	return &MySQLSaleRepository{db: db}
}

func (r *MySQLSaleRepository) Insert(ctx context.Context, tx database.Tx, sale *domain.Sale) error {
	query := `
		INSERT INTO sales (id, invoice_number, sale_date, customer_id, customer_name, customer_phone,
		                   total, paid_amount, due_amount, payment_method, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := tx.ExecContext(ctx, query,
		sale.ID, sale.InvoiceNumber, sale.Date, sale.CustomerID, sale.CustomerName, sale.CustomerPhone,
		sale.Total, sale.PaidAmount, sale.DueAmount, sale.PaymentMethod, sale.Status,
	)
	if err != nil {
		if database.IsDuplicateEntry(err) {
			return errors.NewConflictError(fmt.Sprintf("invoice number %s already exists", sale.InvoiceNumber))
		}
		return fmt.Errorf("inserting sale: %w", err)
	}

	itemQuery := `INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, subtotal) VALUES (?, ?, ?, ?, ?)`
	for _, item := range sale.Items {
		if _, err := tx.ExecContext(ctx, itemQuery, sale.ID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal); err != nil {
			return fmt.Errorf("inserting sale item: %w", err)
		}
	}

	return nil
}

func (r *MySQLSaleRepository) FindByIDForUpdate(ctx context.Context, tx database.Tx, id string) (*domain.Sale, error) {
	query := `
		SELECT id, invoice_number, sale_date, customer_id, customer_name, customer_phone,
		       total, paid_amount, due_amount, payment_method, status, created_at, updated_at
		FROM sales
		WHERE id = ?
		FOR UPDATE`

	sale, err := r.scanSale(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	items, err := r.itemsForSales(ctx, tx, []string{sale.ID})
	if err != nil {
		return nil, err
	}
	sale.Items = items[sale.ID]

	return sale, nil
}

func (r *MySQLSaleRepository) UpdatePayment(ctx context.Context, tx database.Tx, id string, paid, due decimal.Decimal, status string) error {
	query := `UPDATE sales SET paid_amount = ?, due_amount = ?, status = ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, paid, due, status, id)
	if err != nil {
		return fmt.Errorf("updating sale payment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError("Sale not found")
	}

	return nil
}

func (r *MySQLSaleRepository) FindByID(ctx context.Context, id string) (*domain.Sale, error) {
	query := `
		SELECT id, invoice_number, sale_date, customer_id, customer_name, customer_phone,
		       total, paid_amount, due_amount, payment_method, status, created_at, updated_at
		FROM sales
		WHERE id = ?`

	sale, err := r.scanSale(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	items, err := r.itemsForSales(ctx, r.db, []string{sale.ID})
	if err != nil {
		return nil, err
	}
	sale.Items = items[sale.ID]

	return sale, nil
}

func (r *MySQLSaleRepository) FindAll(ctx context.Context) ([]domain.Sale, error) {
	query := `
		SELECT id, invoice_number, sale_date, customer_id, customer_name, customer_phone,
		       total, paid_amount, due_amount, payment_method, status, created_at, updated_at
		FROM sales
		ORDER BY created_at DESC`

	return r.querySales(ctx, query)
}

func (r *MySQLSaleRepository) FindByCustomer(ctx context.Context, customerID string) ([]domain.Sale, error) {
	query := `
		SELECT id, invoice_number, sale_date, customer_id, customer_name, customer_phone,
		       total, paid_amount, due_amount, payment_method, status, created_at, updated_at
		FROM sales
		WHERE customer_id = ?
		ORDER BY sale_date DESC`

	return r.querySales(ctx, query, customerID)
}

func (r *MySQLSaleRepository) FindDuesByCustomer(ctx context.Context, customerID string) ([]domain.Sale, error) {
	query := `
		SELECT id, invoice_number, sale_date, customer_id, customer_name, customer_phone,
		       total, paid_amount, due_amount, payment_method, status, created_at, updated_at
		FROM sales
		WHERE customer_id = ? AND status = ?
		ORDER BY created_at DESC`

	return r.querySales(ctx, query, customerID, domain.SaleStatusPartial)
}

// Summary aggregates sale totals since the start of the current day and
// the current month.
func (r *MySQLSaleRepository) Summary(ctx context.Context, dayStart, monthStart time.Time) (*dto.SalesSummary, error) {
	query := `SELECT COALESCE(SUM(total), 0), COUNT(*) FROM sales WHERE sale_date >= ?`

	summary := &dto.SalesSummary{}
	if err := r.db.QueryRowContext(ctx, query, dayStart).Scan(&summary.Daily.Total, &summary.Daily.Count); err != nil {
		return nil, fmt.Errorf("querying daily sales summary: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, query, monthStart).Scan(&summary.Monthly.Total, &summary.Monthly.Count); err != nil {
		return nil, fmt.Errorf("querying monthly sales summary: %w", err)
	}

	return summary, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *MySQLSaleRepository) scanSale(row rowScanner) (*domain.Sale, error) {
	var sale domain.Sale
	var phone sql.NullString

	err := row.Scan(
		&sale.ID, &sale.InvoiceNumber, &sale.Date, &sale.CustomerID, &sale.CustomerName, &phone,
		&sale.Total, &sale.PaidAmount, &sale.DueAmount, &sale.PaymentMethod, &sale.Status,
		&sale.CreatedAt, &sale.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Sale not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning sale row: %w", err)
	}

	sale.CustomerPhone = phone.String
	return &sale, nil
}

func (r *MySQLSaleRepository) querySales(ctx context.Context, query string, args ...any) ([]domain.Sale, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.Sale
	var ids []string
	for rows.Next() {
		sale, err := r.scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, *sale)
		ids = append(ids, sale.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sale rows: %w", err)
	}

	items, err := r.itemsForSales(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range sales {
		sales[i].Items = items[sales[i].ID]
	}

	return sales, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *MySQLSaleRepository) itemsForSales(ctx context.Context, q queryer, saleIDs []string) (map[string][]domain.SaleItem, error) {
	if len(saleIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(saleIDs))
	args := make([]any, 0, len(saleIDs))
	for i, id := range saleIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal
		FROM sale_items
		WHERE sale_id IN (%s)
		ORDER BY id`,
		strings.Join(placeholders, ", "),
	)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sale items: %w", err)
	}
	defer rows.Close()

	items := make(map[string][]domain.SaleItem)
	for rows.Next() {
		var item domain.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("scanning sale item row: %w", err)
		}
		items[item.SaleID] = append(items[item.SaleID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sale item rows: %w", err)
	}

	return items, nil
}
