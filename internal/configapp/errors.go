package configapp

import "errors"

// Static errors for wrapping.
var (
	ErrMissingConfiguration = errors.New("missing required configuration")
)
