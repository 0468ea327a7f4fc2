package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mortar/internal/domain"
	apperrors "mortar/internal/errors"
	"mortar/internal/testutil"
)

func seedSale(t *testing.T, repo *MySQLSaleRepository, invoice, customerID string) *domain.Sale {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	sale := &domain.Sale{
		ID:            uuid.New().String(),
		InvoiceNumber: invoice,
		Date:          now,
		CustomerID:    customerID,
		CustomerName:  "Jane Smith",
		Items: []domain.SaleItem{
			{ProductID: "p-1", Quantity: 2, UnitPrice: decimal.RequireFromString("9.99"), Subtotal: decimal.RequireFromString("19.98")},
		},
		Total:         decimal.RequireFromString("19.98"),
		PaidAmount:    decimal.RequireFromString("10.00"),
		DueAmount:     decimal.RequireFromString("9.98"),
		PaymentMethod: domain.PaymentMethodCash,
		Status:        domain.SaleStatusPartial,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	ctx := context.Background()
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	if err := repo.Insert(ctx, tx, sale); err != nil {
		tx.Rollback()
		t.Fatalf("insert sale: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	return sale
}

func TestInsertAndFindByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLSaleRepository(db)
	seeded := seedSale(t, repo, "INV000001", "c-1")

	found, err := repo.FindByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}

	if found.InvoiceNumber != "INV000001" {
		t.Errorf("expected invoice INV000001, got %s", found.InvoiceNumber)
	}
	if len(found.Items) != 1 || found.Items[0].ProductID != "p-1" {
		t.Errorf("expected one item for p-1, got %v", found.Items)
	}
	if !found.Total.Equal(seeded.Total) {
		t.Errorf("expected total %s, got %s", seeded.Total, found.Total)
	}
}

func TestInsertDuplicateInvoiceIsConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLSaleRepository(db)
	seedSale(t, repo, "INV000001", "c-1")

	dup := seedableSaleForInvoice("INV000001")
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback()

	err = repo.Insert(ctx, tx, dup)
	if _, ok := apperrors.IsConflictError(err); !ok {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func seedableSaleForInvoice(invoice string) *domain.Sale {
	now := time.Now().UTC()
	return &domain.Sale{
		ID:            uuid.New().String(),
		InvoiceNumber: invoice,
		Date:          now,
		CustomerID:    "c-2",
		CustomerName:  "John Doe",
		Total:         decimal.Zero,
		PaidAmount:    decimal.Zero,
		DueAmount:     decimal.Zero,
		PaymentMethod: domain.PaymentMethodCash,
		Status:        domain.SaleStatusPaid,
	}
}

func TestFindDuesByCustomer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLSaleRepository(db)
	seedSale(t, repo, "INV000001", "c-1")
	seedSale(t, repo, "INV000002", "c-2")

	dues, err := repo.FindDuesByCustomer(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("find dues: %v", err)
	}

	if len(dues) != 1 || dues[0].CustomerID != "c-1" {
		t.Errorf("expected one partial sale for c-1, got %v", dues)
	}
}

func TestUpdatePayment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLSaleRepository(db)
	seeded := seedSale(t, repo, "INV000001", "c-1")

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	err = repo.UpdatePayment(ctx, tx, seeded.ID,
		decimal.RequireFromString("19.98"), decimal.Zero, domain.SaleStatusPaid)
	if err != nil {
		tx.Rollback()
		t.Fatalf("update payment: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	found, err := repo.FindByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if found.Status != domain.SaleStatusPaid || !found.DueAmount.IsZero() {
		t.Errorf("expected paid with zero due, got status %s due %s", found.Status, found.DueAmount)
	}
}

func TestSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLSaleRepository(db)
	seedSale(t, repo, "INV000001", "c-1")
	seedSale(t, repo, "INV000002", "c-1")

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	summary, err := repo.Summary(context.Background(), dayStart, monthStart)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.Daily.Count != 2 {
		t.Errorf("expected 2 sales today, got %d", summary.Daily.Count)
	}
	if !summary.Daily.Total.Equal(decimal.RequireFromString("39.96")) {
		t.Errorf("expected daily total 39.96, got %s", summary.Daily.Total)
	}
	if summary.Monthly.Count != 2 {
		t.Errorf("expected 2 sales this month, got %d", summary.Monthly.Count)
	}
}
