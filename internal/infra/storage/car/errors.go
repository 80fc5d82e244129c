package car

import "errors"

var (
	ErrCarNotFound = errors.New("car.repository: car not found")
	ErrBuildQuery  = errors.New("car.repository: failed to build query")
	ErrExecQuery   = errors.New("car.repository: failed to execute query")
	ErrScanRow     = errors.New("car.repository: failed to scan row")
)
