package sale

import (
	"database/sql"

	"go.uber.org/zap"

	"mortar/internal/config"
	"mortar/internal/database"
	"mortar/internal/ledger"
	"mortar/internal/sale/controller"
	"mortar/internal/sale/repository"
	"mortar/internal/sale/service"
	"mortar/internal/sale/usecase"
	"mortar/internal/sequence"
)

func NewModule(db *sql.DB, cfg *config.Config, stockLedger ledger.Ledger, logger *zap.Logger) *controller.SaleController {
	saleRepo := repository.NewMySQLSaleRepository(db)

	svc := service.NewSaleService(
		database.NewManager(db),
		saleRepo,
		sequence.NewMySQLGenerator(),
		stockLedger,
		logger,
		cfg.Processing.TxTimeout,
	)

	uc := usecase.NewSaleUseCase(svc, saleRepo, logger, cfg.Processing.MaxRetryAttempts)

	return controller.NewSaleController(uc, logger)
}
