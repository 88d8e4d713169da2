package verification

import "context"

// Mailer delivers one-time codes and decision notices. Delivery is
// best-effort: a send failure never fails the adjudication itself.
type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}
