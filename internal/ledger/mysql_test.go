package ledger

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"mortar/internal/errors"
	"mortar/internal/testutil"
)

func insertProduct(t *testing.T, db *sql.DB, id, name string, stock int) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO products (id, name, category, price, stock, reorder_level) VALUES (?, ?, 'test', 1.00, ?, 0)`,
		id, name, stock)
	if err != nil {
		t.Fatalf("inserting product: %v", err)
	}
}

func productStock(t *testing.T, db *sql.DB, id string) int {
	t.Helper()
	var stock int
	if err := db.QueryRow(`SELECT stock FROM products WHERE id = ?`, id).Scan(&stock); err != nil {
		t.Fatalf("reading stock: %v", err)
	}
	return stock
}

func TestReserve(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	insertProduct(t, db, "p-1", "Aspirin", 10)

	ctx := context.Background()
	led := NewMySQLLedger()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	if err := led.Reserve(ctx, tx, "p-1", 4); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if got := productStock(t, db, "p-1"); got != 6 {
		t.Errorf("expected stock 6, got %d", got)
	}
}

func TestReserveInsufficientStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	insertProduct(t, db, "p-1", "Aspirin", 3)

	ctx := context.Background()
	led := NewMySQLLedger()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback()

	err = led.Reserve(ctx, tx, "p-1", 4)
	if _, ok := errors.IsInsufficientStockError(err); !ok {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
}

func TestReserveMissingProduct(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	ctx := context.Background()
	led := NewMySQLLedger()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback()

	err = led.Reserve(ctx, tx, "missing", 1)
	if _, ok := errors.IsNotFoundError(err); !ok {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestCreditAndDebit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	insertProduct(t, db, "p-1", "Aspirin", 5)

	ctx := context.Background()
	led := NewMySQLLedger()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	if err := led.Credit(ctx, tx, "p-1", 10); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := led.Debit(ctx, tx, "p-1", 3); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if got := productStock(t, db, "p-1"); got != 12 {
		t.Errorf("expected stock 12, got %d", got)
	}
}

// TestConcurrentReserveNeverOversells hammers one product from many
// goroutines; the conditional decrement must keep committed stock
// non-negative and every successful reservation accounted for.
func TestConcurrentReserveNeverOversells(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	const initialStock = 50
	insertProduct(t, db, "p-1", "Aspirin", initialStock)

	ctx := context.Background()
	led := NewMySQLLedger()

	const workers = 20
	const perWorker = 5

	var wg sync.WaitGroup
	successes := make(chan int, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok := 0
			for j := 0; j < perWorker; j++ {
				tx, err := db.BeginTx(ctx, nil)
				if err != nil {
					continue
				}
				if err := led.Reserve(ctx, tx, "p-1", 1); err != nil {
					tx.Rollback()
					continue
				}
				if err := tx.Commit(); err == nil {
					ok++
				}
			}
			successes <- ok
		}()
	}

	wg.Wait()
	close(successes)

	total := 0
	for n := range successes {
		total += n
	}

	remaining := productStock(t, db, "p-1")
	if remaining < 0 {
		t.Fatalf("stock went negative: %d", remaining)
	}
	if remaining+total != initialStock {
		t.Errorf("stock accounting broken: %d remaining + %d reserved != %d", remaining, total, initialStock)
	}
}
