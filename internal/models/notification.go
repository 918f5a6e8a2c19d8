package models

import "time"

// Notification is one entry of the alert feed shown to the user and,
// conceptually, delivered to guardians. The body is trusted rich content:
// it is built only from strings this service generates itself (guardian
// identifiers are never echoed back as markup).
type Notification struct {
	Body     string    `json:"body"`      // Body is the rendered message, possibly containing a hyperlink.
	PostedAt time.Time `json:"posted_at"` // PostedAt is when the message was appended to the feed.
}
