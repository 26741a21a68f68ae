package ports

import "context"

// EmailMessage is a fully-formed outbound email.
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers a single message synchronously.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailDispatcher accepts messages for asynchronous, fire-and-forget
// delivery. Enqueue never blocks the request path on delivery and delivery
// failure never propagates back to the operation that triggered the send.
type EmailDispatcher interface {
	Enqueue(msg EmailMessage)
}
