package ports

import "context"

// Mail is an outbound HTML email.
type Mail struct {
	To       string
	Subject  string
	HTMLBody string
}

// Mailer delivers a single mail synchronously.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// Notifier accepts mail for asynchronous, best-effort delivery. Dispatch must
// not block the caller; delivery failures are logged, never propagated.
type Notifier interface {
	Dispatch(mail Mail)
}
