package bay

import "errors"

var (
	ErrLocationNotFound = errors.New("bay.repository: location not found")
	ErrBayNotFound      = errors.New("bay.repository: bay not found")
	ErrBuildQuery       = errors.New("bay.repository: failed to build query")
	ErrExecQuery        = errors.New("bay.repository: failed to execute query")
	ErrScanRow          = errors.New("bay.repository: failed to scan row")
)
