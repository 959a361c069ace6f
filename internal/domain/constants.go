package domain

const (
	// MaxSecretSize is the maximum allowed size for a secret (128 KiB).
	MaxSecretSize = 128 * 1024

	// MaxRequestBodySize is the maximum allowed request body size.
	// Set slightly larger than MaxSecretSize to account for JSON overhead.
	MaxRequestBodySize = MaxSecretSize + 1024

	// MaxViews is the largest view budget a secret can be created with.
	MaxViews = 100

	// MaxTimeLimitDays is the furthest out, in days, a secret may be set
	// to expire.
	MaxTimeLimitDays = 30

	// CreateRetries bounds token regeneration when a freshly generated
	// token collides with an existing lookup hash.
	CreateRetries = 3
)
