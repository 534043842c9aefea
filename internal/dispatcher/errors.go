package dispatcher

import "errors"

// Static errors for wrapping.
var (
	ErrEmptyMessage   = errors.New("message cannot be empty")
	ErrMessageTooLong = errors.New("message is too long")
	ErrNoRecipients   = errors.New("no recipients configured")
)
