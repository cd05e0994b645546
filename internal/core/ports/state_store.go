package ports

import "context"

// StateStore binds the CSRF-protecting OAuth state nonce to a browser
// session between the redirect and callback legs of the handshake.
type StateStore interface {
	Issue(ctx context.Context, sessionID, state string) error
	// Consume removes and returns the state bound to the session. A missing
	// binding yields an empty string with no error; the nonce is single-use.
	Consume(ctx context.Context, sessionID string) (string, error)
}
