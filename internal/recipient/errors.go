package recipient

import "errors"

// Static errors for wrapping.
var (
	ErrInvalidAddress   = errors.New("invalid email address")
	ErrDuplicateAddress = errors.New("address already subscribed")
	ErrAddressNotFound  = errors.New("address not found")
)
