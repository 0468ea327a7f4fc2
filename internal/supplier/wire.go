package supplier

import (
	"database/sql"

	"go.uber.org/zap"

	"mortar/internal/supplier/repository"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	return NewController(repository.NewMySQLRepository(db), logger)
}
