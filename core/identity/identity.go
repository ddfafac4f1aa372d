package identity

import (
	"context"

	"github.com/dmitrymomot/gatekit/core/session"
)

// Exchanger verifies an identity assertion from the external provider and
// returns the verified attributes. The protocol behind the assertion is the
// provider's concern; consumers treat any error as "unauthenticated" and
// never inspect it beyond errors.Is(err, ErrExchangeFailed).
type Exchanger interface {
	Exchange(ctx context.Context, assertion string) (session.Identity, error)
}

// ExchangerFunc adapts a function to the Exchanger interface.
type ExchangerFunc func(ctx context.Context, assertion string) (session.Identity, error)

// Exchange implements Exchanger.
func (f ExchangerFunc) Exchange(ctx context.Context, assertion string) (session.Identity, error) {
	return f(ctx, assertion)
}
