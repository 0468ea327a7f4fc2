package customer

import (
	"database/sql"

	"go.uber.org/zap"

	"mortar/internal/customer/repository"
	salerepo "mortar/internal/sale/repository"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	return NewController(
		repository.NewMySQLRepository(db),
		salerepo.NewMySQLSaleRepository(db),
		logger,
	)
}
