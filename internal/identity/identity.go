package identity

import "github.com/google/uuid"

// Principal is an authenticated identity capable of owning a basket. Type is
// the polymorphic discriminator stored alongside the id (e.g. "customer"),
// mirroring the user_type/user_id column pair.
type Principal struct {
	Type string
	ID   uuid.UUID
}

// Context is the request-scoped identity snapshot handed to the basket
// manager. It is built once per request by the HTTP layer and injected
// explicitly; the core never reaches into ambient request state.
type Context struct {
	// Principal is nil for anonymous callers.
	Principal *Principal
	// Fingerprint is the transport-level client fingerprint (User-Agent).
	Fingerprint string
	// WantsJSON reports whether the caller expects a machine-readable
	// response. Browser-style clients get session/cookie auto-detection.
	WantsJSON bool
}

// Authenticated reports whether a principal is present.
func (c Context) Authenticated() bool {
	return c.Principal != nil && c.Principal.ID != uuid.Nil
}
