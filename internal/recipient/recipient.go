// Package recipient manages the set of email addresses that receive alerts.
package recipient

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// addressRegexp accepts the usual local@domain.tld shape. Addresses are
// lower-cased before matching.
var addressRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Store holds the subscribed addresses, unique by address.
type Store interface {
	Add(ctx context.Context, address string) error
	Remove(ctx context.Context, address string) error
	List(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
}

// Normalize trims surrounding whitespace and lower-cases an address.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// ValidateAddress checks the syntax of an already normalized address.
func ValidateAddress(address string) error {
	if !addressRegexp.MatchString(address) {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}
	return nil
}
