package models

import "time"

// Session describes one run of active location sharing, from start until
// the countdown expires or the user stops it.
type Session struct {
	ID         string        `json:"id"`          // ID is the unique identifier of the session.
	ShareToken string        `json:"share_token"` // ShareToken is embedded in the share URL sent to guardians.
	StartedAt  time.Time     `json:"started_at"`  // StartedAt is when sharing began.
	EndsAt     time.Time     `json:"ends_at"`     // EndsAt is StartedAt plus the estimated duration.
	Estimated  time.Duration `json:"estimated"`   // Estimated is the user-provided trip duration.
}
