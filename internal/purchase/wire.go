package purchase

import (
	"database/sql"

	"go.uber.org/zap"

	"mortar/internal/config"
	"mortar/internal/database"
	"mortar/internal/ledger"
	"mortar/internal/purchase/controller"
	"mortar/internal/purchase/repository"
	"mortar/internal/purchase/service"
	"mortar/internal/purchase/usecase"
	"mortar/internal/sequence"
)

func NewModule(db *sql.DB, cfg *config.Config, stockLedger ledger.Ledger, logger *zap.Logger) *controller.PurchaseController {
	orderRepo := repository.NewMySQLPurchaseOrderRepository(db)

	svc := service.NewPurchaseService(
		database.NewManager(db),
		orderRepo,
		sequence.NewMySQLGenerator(),
		stockLedger,
		logger,
		cfg.Processing.TxTimeout,
	)

	uc := usecase.NewPurchaseUseCase(svc, orderRepo, logger, cfg.Processing.MaxRetryAttempts)

	return controller.NewPurchaseController(uc, logger)
}
