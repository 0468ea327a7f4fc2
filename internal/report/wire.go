package report

import (
	"database/sql"

	"go.uber.org/zap"

	"mortar/internal/report/repository"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	return NewController(repository.NewMySQLRepository(db), logger)
}
