package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"mortar/internal/database"
	"mortar/internal/domain"
	"mortar/internal/dto"
	"mortar/internal/ledger"
	"mortar/internal/sequence"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (database.Tx, error)
}

type SaleRepository interface {
	Insert(ctx context.Context, tx database.Tx, sale *domain.Sale) error
	FindByIDForUpdate(ctx context.Context, tx database.Tx, id string) (*domain.Sale, error)
	UpdatePayment(ctx context.Context, tx database.Tx, id string, paid, due decimal.Decimal, status string) error
}

type SequenceGenerator interface {
	Next(ctx context.Context, tx database.Tx, name, prefix string) (string, error)
}

// SaleService turns a validated sale request into a committed sale document
// plus stock debits, as one atomic unit. Any failure rolls the whole unit
// back; no debit and no document survive a partial failure.
type SaleService struct {
	db        TransactionManager
	saleRepo  SaleRepository
	sequences SequenceGenerator
	ledger    ledger.Ledger
	logger    *zap.Logger
	txTimeout time.Duration
}

func NewSaleService(
	db TransactionManager,
	saleRepo SaleRepository,
	sequences SequenceGenerator,
	stockLedger ledger.Ledger,
	logger *zap.Logger,
	txTimeout time.Duration,
) *SaleService {
	return &SaleService{
		db:        db,
		saleRepo:  saleRepo,
		sequences: sequences,
		ledger:    stockLedger,
		logger:    logger,
		txTimeout: txTimeout,
	}
}

func (s *SaleService) CreateSale(ctx context.Context, input dto.NewSale) (*domain.Sale, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	// Rollback is a no-op once the transaction has committed.
	defer tx.Rollback()

	invoiceNumber, err := s.sequences.Next(txCtx, tx, sequence.NameSale, sequence.PrefixInvoice)
	if err != nil {
		return nil, err
	}

	// Reserve in product-id order to avoid lock-order deadlocks between
	// concurrent sales; the stored item list keeps submission order.
	reserveOrder := make([]dto.NewSaleItem, len(input.Items))
	copy(reserveOrder, input.Items)
	sort.Slice(reserveOrder, func(i, j int) bool { return reserveOrder[i].ProductID < reserveOrder[j].ProductID })

	for _, item := range reserveOrder {
		if err := s.ledger.Reserve(txCtx, tx, item.ProductID, item.Quantity); err != nil {
			s.logger.Warn("stock reservation failed",
				zap.String("productId", item.ProductID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
			return nil, err
		}
	}

	sale := buildSale(invoiceNumber, input)

	if err := s.saleRepo.Insert(txCtx, tx, sale); err != nil {
		s.logger.Error("failed to insert sale", zap.String("invoiceNumber", invoiceNumber), zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit sale", zap.String("invoiceNumber", invoiceNumber), zap.Error(err))
		return nil, err
	}

	s.logger.Info("sale committed",
		zap.String("invoiceNumber", invoiceNumber),
		zap.Int("itemCount", len(sale.Items)),
		zap.String("total", sale.Total.String()),
		zap.String("status", sale.Status))

	return sale, nil
}

// RecordPayment appends a payment to an existing sale and recomputes the
// due amount and status under a row lock.
func (s *SaleService) RecordPayment(ctx context.Context, saleID string, amount decimal.Decimal) (*domain.Sale, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	sale, err := s.saleRepo.FindByIDForUpdate(txCtx, tx, saleID)
	if err != nil {
		return nil, err
	}

	newPaid := sale.PaidAmount.Add(amount)
	newDue := sale.Total.Sub(newPaid)
	status := domain.SaleStatusFor(newDue)

	if err := s.saleRepo.UpdatePayment(txCtx, tx, saleID, newPaid, newDue, status); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit payment", zap.String("saleId", saleID), zap.Error(err))
		return nil, err
	}

	sale.PaidAmount = newPaid
	sale.DueAmount = newDue
	sale.Status = status

	s.logger.Info("payment recorded",
		zap.String("saleId", saleID),
		zap.String("paidAmount", newPaid.String()),
		zap.String("status", status))

	return sale, nil
}

func buildSale(invoiceNumber string, input dto.NewSale) *domain.Sale {
	items := make([]domain.SaleItem, len(input.Items))
	total := decimal.Zero
	for i, item := range input.Items {
		subtotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		items[i] = domain.SaleItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  subtotal,
		}
		total = total.Add(subtotal)
	}

	due := total.Sub(input.PaidAmount)
	now := time.Now().UTC()

	return &domain.Sale{
		ID:            uuid.New().String(),
		InvoiceNumber: invoiceNumber,
		Date:          now,
		CustomerID:    input.CustomerID,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		Items:         items,
		Total:         total,
		PaidAmount:    input.PaidAmount,
		DueAmount:     due,
		PaymentMethod: input.PaymentMethod,
		Status:        domain.SaleStatusFor(due),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
