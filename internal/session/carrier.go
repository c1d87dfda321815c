// Package session resolves where the ambient basket id lives for a request:
// a redis-backed server-side session when the client carries a session
// cookie, or a durable client cookie otherwise. The basket manager only sees
// the Carrier interface; strategy selection happens here, outside the core.
package session

import "context"

// BasketIDKey is the field the basket id is stored under in both strategies.
const BasketIDKey = "basket_id"

// Carrier reads and writes the ambient basket id for the current request.
type Carrier interface {
	// Current returns the remembered basket id, or "" when none is set.
	Current(ctx context.Context) (string, error)
	// Remember persists the basket id for subsequent requests.
	Remember(ctx context.Context, basketID string) error
	// Forget drops the remembered basket id so a stale id is never
	// re-resolved on the next request.
	Forget(ctx context.Context) error
}
