package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mortar/internal/domain"
	"mortar/internal/dto"
)

const topLimit = 5

// MySQLRepository runs the reporting aggregates. Reports read committed
// state only and never join the write paths; they tolerate slightly stale
// numbers under concurrent traffic.
type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) SalesReport(ctx context.Context, from, to time.Time) (*dto.SalesReport, error) {
	report := &dto.SalesReport{TopSellingProducts: []dto.TopProduct{}}

	query := `
		SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(AVG(total), 0)
		FROM sales
		WHERE created_at BETWEEN ? AND ?`

	err := r.db.QueryRowContext(ctx, query, from, to).
		Scan(&report.TotalSales, &report.TotalRevenue, &report.AverageOrderValue)
	if err != nil {
		return nil, fmt.Errorf("aggregating sales: %w", err)
	}

	topQuery := `
		SELECT si.product_id, COALESCE(p.name, 'Unknown Product'), SUM(si.quantity), SUM(si.subtotal) AS revenue
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		LEFT JOIN products p ON p.id = si.product_id
		WHERE s.created_at BETWEEN ? AND ?
		GROUP BY si.product_id, p.name
		ORDER BY revenue DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, topQuery, from, to, topLimit)
	if err != nil {
		return nil, fmt.Errorf("querying top products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p dto.TopProduct
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Quantity, &p.Revenue); err != nil {
			return nil, fmt.Errorf("scanning top product row: %w", err)
		}
		report.TopSellingProducts = append(report.TopSellingProducts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating top product rows: %w", err)
	}

	return report, nil
}

func (r *MySQLRepository) InventoryReport(ctx context.Context, now time.Time) (*dto.InventoryReport, error) {
	report := &dto.InventoryReport{}

	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(price * stock), 0),
		       COALESCE(SUM(stock = 0), 0),
		       COALESCE(SUM(stock <= reorder_level), 0),
		       COALESCE(SUM(expiry_date IS NOT NULL AND expiry_date BETWEEN ? AND ?), 0)
		FROM products`

	err := r.db.QueryRowContext(ctx, query, now, now.AddDate(0, 6, 0)).
		Scan(&report.TotalProducts, &report.TotalValue, &report.OutOfStock,
			&report.LowStockProducts, &report.ExpiringProducts)
	if err != nil {
		return nil, fmt.Errorf("aggregating inventory: %w", err)
	}

	return report, nil
}

func (r *MySQLRepository) CustomersReport(ctx context.Context, from, to time.Time) (*dto.CustomersReport, error) {
	report := &dto.CustomersReport{TopCustomers: []dto.TopCustomer{}}

	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(created_at BETWEEN ? AND ?), 0),
		       (SELECT COUNT(DISTINCT customer_id) FROM sales WHERE created_at BETWEEN ? AND ?)
		FROM customers`

	err := r.db.QueryRowContext(ctx, query, from, to, from, to).
		Scan(&report.TotalCustomers, &report.NewCustomers, &report.ActiveCustomers)
	if err != nil {
		return nil, fmt.Errorf("aggregating customers: %w", err)
	}

	topQuery := `
		SELECT customer_id, customer_name, COUNT(*), SUM(total) AS spent
		FROM sales
		WHERE created_at BETWEEN ? AND ?
		GROUP BY customer_id, customer_name
		ORDER BY spent DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, topQuery, from, to, topLimit)
	if err != nil {
		return nil, fmt.Errorf("querying top customers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c dto.TopCustomer
		if err := rows.Scan(&c.CustomerID, &c.Name, &c.TotalPurchases, &c.TotalSpent); err != nil {
			return nil, fmt.Errorf("scanning top customer row: %w", err)
		}
		report.TopCustomers = append(report.TopCustomers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating top customer rows: %w", err)
	}

	return report, nil
}

func (r *MySQLRepository) PurchasesReport(ctx context.Context, from, to time.Time) (*dto.PurchasesReport, error) {
	report := &dto.PurchasesReport{TopSuppliers: []dto.TopSupplier{}}

	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(total_amount), 0),
		       COALESCE(SUM(status = ?), 0)
		FROM purchase_orders
		WHERE created_at BETWEEN ? AND ?`

	err := r.db.QueryRowContext(ctx, query, domain.OrderStatusOrdered, from, to).
		Scan(&report.TotalPurchases, &report.TotalCost, &report.PendingOrders)
	if err != nil {
		return nil, fmt.Errorf("aggregating purchase orders: %w", err)
	}

	topQuery := `
		SELECT po.supplier_id, COALESCE(sup.name, 'Unknown Supplier'), COUNT(*), SUM(po.total_amount) AS amount
		FROM purchase_orders po
		LEFT JOIN suppliers sup ON sup.id = po.supplier_id
		WHERE po.created_at BETWEEN ? AND ?
		GROUP BY po.supplier_id, sup.name
		ORDER BY amount DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, topQuery, from, to, topLimit)
	if err != nil {
		return nil, fmt.Errorf("querying top suppliers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s dto.TopSupplier
		if err := rows.Scan(&s.SupplierID, &s.Name, &s.OrderCount, &s.TotalAmount); err != nil {
			return nil, fmt.Errorf("scanning top supplier row: %w", err)
		}
		report.TopSuppliers = append(report.TopSuppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating top supplier rows: %w", err)
	}

	return report, nil
}
