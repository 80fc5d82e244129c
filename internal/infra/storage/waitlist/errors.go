package waitlist

import "errors"

var (
	ErrRequestNotFound = errors.New("waitlist.repository: waitlist request not found")
	ErrBuildQuery      = errors.New("waitlist.repository: failed to build query")
	ErrExecQuery       = errors.New("waitlist.repository: failed to execute query")
	ErrScanRow         = errors.New("waitlist.repository: failed to scan row")
)
