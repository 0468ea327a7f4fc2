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
	"mortar/internal/errors"
	"mortar/internal/ledger"
	"mortar/internal/sequence"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (database.Tx, error)
}

type PurchaseOrderRepository interface {
	Insert(ctx context.Context, tx database.Tx, order *domain.PurchaseOrder) error
	Update(ctx context.Context, tx database.Tx, order *domain.PurchaseOrder) error
	ReplaceItems(ctx context.Context, tx database.Tx, orderID string, items []domain.PurchaseOrderItem) error
	Delete(ctx context.Context, tx database.Tx, id string) error
	FindByIDForUpdate(ctx context.Context, tx database.Tx, id string) (*domain.PurchaseOrder, error)
}

type SequenceGenerator interface {
	Next(ctx context.Context, tx database.Tx, name, prefix string) (string, error)
}

// PurchaseService manages the purchase-order lifecycle. Stock is credited
// exactly when an order enters the received state and debited exactly when
// it leaves it (or is deleted while received); the ledger effects and the
// document write always share one transaction.
type PurchaseService struct {
	db        TransactionManager
	orderRepo PurchaseOrderRepository
	sequences SequenceGenerator
	ledger    ledger.Ledger
	logger    *zap.Logger
	txTimeout time.Duration
}

func NewPurchaseService(
	db TransactionManager,
	orderRepo PurchaseOrderRepository,
	sequences SequenceGenerator,
	stockLedger ledger.Ledger,
	logger *zap.Logger,
	txTimeout time.Duration,
) *PurchaseService {
	return &PurchaseService{
		db:        db,
		orderRepo: orderRepo,
		sequences: sequences,
		ledger:    stockLedger,
		logger:    logger,
		txTimeout: txTimeout,
	}
}

func (s *PurchaseService) Create(ctx context.Context, input dto.NewPurchaseOrder) (*domain.PurchaseOrder, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	orderNumber, err := s.sequences.Next(txCtx, tx, sequence.NamePurchaseOrder, sequence.PrefixOrder)
	if err != nil {
		return nil, err
	}

	order := buildOrder(orderNumber, input)

	if order.Status == domain.OrderStatusReceived {
		if order.ReceivedDate == nil {
			now := time.Now().UTC()
			order.ReceivedDate = &now
		}
		if err := s.creditItems(txCtx, tx, order.Items); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Insert(txCtx, tx, order); err != nil {
		s.logger.Error("failed to insert purchase order", zap.String("orderNumber", orderNumber), zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit purchase order", zap.String("orderNumber", orderNumber), zap.Error(err))
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.String("orderNumber", orderNumber),
		zap.String("status", order.Status),
		zap.Int("itemCount", len(order.Items)))

	return order, nil
}

// Transition applies a full-order update, crediting stock when the order
// enters the received state and reversing the prior credit when it leaves.
// The reversal debits the previously stored item list, not the submitted
// one, so an update that changes both items and status cannot double count.
func (s *PurchaseService) Transition(ctx context.Context, orderID string, input dto.NewPurchaseOrder) (*domain.PurchaseOrder, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	old, err := s.orderRepo.FindByIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		return nil, err
	}

	updated := buildOrder(old.OrderNumber, input)
	updated.ID = old.ID
	updated.CreatedBy = old.CreatedBy
	updated.CreatedAt = old.CreatedAt
	updated.ReceivedDate = old.ReceivedDate

	entering := old.Status != domain.OrderStatusReceived && updated.Status == domain.OrderStatusReceived
	leaving := old.Status == domain.OrderStatusReceived && updated.Status != domain.OrderStatusReceived

	if old.Status == domain.OrderStatusReceived && updated.Status == domain.OrderStatusReceived &&
		!domain.SameItems(old.Items, updated.Items) {
		// Editing the items of an order whose stock credit has already been
		// applied would silently drift stock; force an un-receive first.
		return nil, errors.NewConflictError("cannot change items of a received order; move it out of received first")
	}

	switch {
	case entering:
		if err := s.creditItems(txCtx, tx, updated.Items); err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		updated.ReceivedDate = &now
	case leaving:
		if err := s.debitItems(txCtx, tx, old.Items); err != nil {
			return nil, err
		}
		updated.ReceivedDate = nil
	}

	if err := s.orderRepo.Update(txCtx, tx, updated); err != nil {
		return nil, err
	}

	if err := s.orderRepo.ReplaceItems(txCtx, tx, updated.ID, updated.Items); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit purchase order transition", zap.String("orderId", orderID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("purchase order updated",
		zap.String("orderId", orderID),
		zap.String("oldStatus", old.Status),
		zap.String("newStatus", updated.Status))

	return updated, nil
}

// Delete removes an order; if its stock credit has been applied, the credit
// is reversed in the same transaction before the document goes away.
func (s *PurchaseService) Delete(ctx context.Context, orderID string) error {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	order, err := s.orderRepo.FindByIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		return err
	}

	if order.Status == domain.OrderStatusReceived {
		if err := s.debitItems(txCtx, tx, order.Items); err != nil {
			return err
		}
	}

	if err := s.orderRepo.Delete(txCtx, tx, orderID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit purchase order delete", zap.String("orderId", orderID), zap.Error(err))
		return err
	}

	s.logger.Info("purchase order deleted",
		zap.String("orderId", orderID),
		zap.String("status", order.Status))

	return nil
}

func (s *PurchaseService) creditItems(ctx context.Context, tx database.Tx, items []domain.PurchaseOrderItem) error {
	for _, item := range lockOrder(items) {
		if err := s.ledger.Credit(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *PurchaseService) debitItems(ctx context.Context, tx database.Tx, items []domain.PurchaseOrderItem) error {
	for _, item := range lockOrder(items) {
		if err := s.ledger.Debit(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// lockOrder sorts a copy of the items by product id so concurrent
// transitions take product row locks in a consistent order.
func lockOrder(items []domain.PurchaseOrderItem) []domain.PurchaseOrderItem {
	sorted := make([]domain.PurchaseOrderItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })
	return sorted
}

func buildOrder(orderNumber string, input dto.NewPurchaseOrder) *domain.PurchaseOrder {
	items := make([]domain.PurchaseOrderItem, len(input.Items))
	total := decimal.Zero
	for i, item := range input.Items {
		subtotal := item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity)))
		items[i] = domain.PurchaseOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
			Subtotal:  subtotal,
		}
		total = total.Add(subtotal)
	}

	now := time.Now().UTC()

	return &domain.PurchaseOrder{
		ID:                   uuid.New().String(),
		OrderNumber:          orderNumber,
		SupplierID:           input.SupplierID,
		CreatedBy:            input.CreatedBy,
		Items:                items,
		Status:               input.Status,
		TotalAmount:          total,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		Notes:                input.Notes,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}
