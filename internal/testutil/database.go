package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration test database. It expects a MySQL
// instance on localhost:3306 with a database named 'mortar_test' and skips
// the test when none is reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/mortar_test?parseTime=true&loc=UTC"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{
		"sale_items", "sales",
		"purchase_order_items", "purchase_orders",
		"sequences", "products", "customers", "suppliers",
	}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema the repositories expect.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createProducts := `
	CREATE TABLE IF NOT EXISTS products (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		category VARCHAR(100) NOT NULL DEFAULT '',
		price DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		stock INT NOT NULL DEFAULT 0,
		reorder_level INT NOT NULL DEFAULT 0,
		expiry_date DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_expiry (expiry_date)
	)`

	createCustomers := `
	CREATE TABLE IF NOT EXISTS customers (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(150) NOT NULL UNIQUE,
		phone VARCHAR(30) NOT NULL,
		address JSON NOT NULL,
		health_info JSON NOT NULL,
		date_of_birth DATETIME NULL,
		gender VARCHAR(10) NOT NULL DEFAULT 'other',
		insurance_info JSON NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createSuppliers := `
	CREATE TABLE IF NOT EXISTS suppliers (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(150) NOT NULL,
		phone VARCHAR(30) NOT NULL,
		address JSON NOT NULL,
		contact_person VARCHAR(100) NULL,
		tax_id VARCHAR(50) NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		notes TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createSales := `
	CREATE TABLE IF NOT EXISTS sales (
		id CHAR(36) NOT NULL PRIMARY KEY,
		invoice_number VARCHAR(20) NOT NULL UNIQUE,
		sale_date DATETIME NOT NULL,
		customer_id CHAR(36) NOT NULL,
		customer_name VARCHAR(255) NOT NULL,
		customer_phone VARCHAR(30) NULL,
		total DECIMAL(10,2) NOT NULL,
		paid_amount DECIMAL(10,2) NOT NULL,
		due_amount DECIMAL(10,2) NOT NULL,
		payment_method VARCHAR(10) NOT NULL,
		status VARCHAR(10) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_customer (customer_id),
		INDEX idx_status (status)
	)`

	createSaleItems := `
	CREATE TABLE IF NOT EXISTS sale_items (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		sale_id CHAR(36) NOT NULL,
		product_id CHAR(36) NOT NULL,
		quantity INT NOT NULL,
		unit_price DECIMAL(10,2) NOT NULL,
		subtotal DECIMAL(10,2) NOT NULL,
		FOREIGN KEY (sale_id) REFERENCES sales(id) ON DELETE CASCADE,
		INDEX idx_product (product_id)
	)`

	createPurchaseOrders := `
	CREATE TABLE IF NOT EXISTS purchase_orders (
		id CHAR(36) NOT NULL PRIMARY KEY,
		order_number VARCHAR(20) NOT NULL UNIQUE,
		supplier_id CHAR(36) NOT NULL,
		created_by VARCHAR(255) NOT NULL,
		status VARCHAR(20) NOT NULL,
		total_amount DECIMAL(10,2) NOT NULL,
		expected_delivery_date DATETIME NULL,
		received_date DATETIME NULL,
		notes TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_supplier (supplier_id),
		INDEX idx_status (status)
	)`

	createPurchaseOrderItems := `
	CREATE TABLE IF NOT EXISTS purchase_order_items (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		order_id CHAR(36) NOT NULL,
		product_id CHAR(36) NOT NULL,
		quantity INT NOT NULL,
		unit_cost DECIMAL(10,2) NOT NULL,
		subtotal DECIMAL(10,2) NOT NULL,
		FOREIGN KEY (order_id) REFERENCES purchase_orders(id) ON DELETE CASCADE,
		INDEX idx_product (product_id)
	)`

	createSequences := `
	CREATE TABLE IF NOT EXISTS sequences (
		name VARCHAR(50) NOT NULL PRIMARY KEY,
		value BIGINT UNSIGNED NOT NULL
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"products", createProducts},
		{"customers", createCustomers},
		{"suppliers", createSuppliers},
		{"sales", createSales},
		{"sale_items", createSaleItems},
		{"purchase_orders", createPurchaseOrders},
		{"purchase_order_items", createPurchaseOrderItems},
		{"sequences", createSequences},
	}

	for _, tbl := range tables {
		if _, err := db.Exec(tbl.query); err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
