package car

import (
	"github.com/m04kA/SMC-BayBookingService/pkg/dbmetrics"
)

// DBExecutor интерфейс для выполнения запросов (может быть *sql.DB или *sql.Tx)
type DBExecutor = dbmetrics.DBExecutor
