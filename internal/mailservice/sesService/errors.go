package sesservice

import "errors"

// Static errors for wrapping.
var (
	ErrSESRegionMissing = errors.New("ses region is mandatory")
)
