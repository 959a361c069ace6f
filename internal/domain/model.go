package domain

import "time"

// Record is a persisted secret, keyed by the lookup hash derived from its
// token. The token itself is never stored, so a dump of the backing store
// is useless without the matching tokens.
type Record struct {
	LookupHash     string
	Ciphertext     string // base64 encoded AEAD output, tag stripped
	ViewsRemaining int
	ExpiresAt      time.Time
}

// Expired reports whether the record is past its expiration date.
func (r *Record) Expired(now time.Time) bool {
	return r.ExpiresAt.Before(now)
}

type CreateReq struct {
	Data      string `json:"data"`
	MaxViews  int    `json:"maxViews"`
	TimeLimit int    `json:"timeLimit"` // days until expiry, 1..30
}

type CreateRes struct {
	ID        string    `json:"id"`      // base64url token
	AuthTag   string    `json:"authTag"` // base64url tag, required on read
	ExpiresAt time.Time `json:"expiresAt"`
}

type ReadRes struct {
	Data string `json:"data"`
}
