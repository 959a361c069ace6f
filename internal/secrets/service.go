// Package secrets orchestrates the lifecycle of a secret: creation mints a
// capability token and encrypts under it, consumption spends one view and
// decrypts. The server keeps no material that could recover a plaintext on
// its own.
package secrets

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/weedz/secrets/internal/crypto"
	"github.com/weedz/secrets/internal/domain"
	"github.com/weedz/secrets/internal/store"
)

type Service struct {
	store store.SecretStore
}

func NewService(st store.SecretStore) *Service {
	return &Service{store: st}
}

func validateCreate(plaintext []byte, viewLimit int, expiresAt, now time.Time) error {
	if len(plaintext) == 0 {
		return domain.Validation("secret is required")
	}
	if len(plaintext) > domain.MaxSecretSize {
		return domain.Validation("secret exceeds maximum size")
	}
	if viewLimit < 1 || viewLimit > domain.MaxViews {
		return domain.Validation("maxViews must be between 1 and 100")
	}
	if expiresAt.Before(now) {
		return domain.Validation("expiration date is in the past")
	}
	if expiresAt.After(now.Add(domain.MaxTimeLimitDays * 24 * time.Hour)) {
		return domain.Validation("expiration date exceeds 30 days")
	}
	return nil
}

// Create encrypts plaintext under a freshly generated token and persists
// the record. It returns the token and the authentication tag; neither is
// ever stored, so they are the caller's only way back to the plaintext.
// A lookup hash collision retries with a new token a bounded number of
// times before giving up with domain.ErrExhausted.
func (s *Service) Create(ctx context.Context, plaintext []byte, viewLimit int, expiresAt time.Time) (token, tag []byte, err error) {
	if err := validateCreate(plaintext, viewLimit, expiresAt, time.Now()); err != nil {
		return nil, nil, err
	}

	for attempt := 0; attempt < domain.CreateRetries; attempt++ {
		token, err = crypto.NewToken()
		if err != nil {
			return nil, nil, err
		}

		var ciphertext []byte
		ciphertext, tag, err = crypto.Encrypt(token, plaintext)
		if err != nil {
			return nil, nil, err
		}

		rec := &domain.Record{
			LookupHash:     crypto.DeriveLookupHash(token),
			Ciphertext:     base64.StdEncoding.EncodeToString(ciphertext),
			ViewsRemaining: viewLimit,
			ExpiresAt:      expiresAt,
		}

		err = s.store.Insert(ctx, rec)
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("store secret: %w", err)
		}
		return token, tag, nil
	}
	return nil, nil, domain.ErrExhausted
}

// Consume spends one view of the secret the token points at and returns the
// plaintext. Absent, expired and exhausted records all collapse to
// domain.ErrNotFound. The decrement happens before decryption, so a
// presented tag that fails to authenticate has still consumed a view; the
// budget guards against enumeration even with a wrong tag.
func (s *Service) Consume(ctx context.Context, token, tag []byte) ([]byte, error) {
	lookupHash := crypto.DeriveLookupHash(token)

	rec, err := s.store.Fetch(ctx, lookupHash)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch secret: %w", err)
	}

	if rec.Expired(time.Now()) {
		if err := s.store.Delete(ctx, lookupHash); err != nil {
			return nil, fmt.Errorf("delete expired secret: %w", err)
		}
		return nil, domain.ErrNotFound
	}

	// Unreachable while DecrementViews holds its contract, since an
	// exhausted record is deleted on its last view.
	if rec.ViewsRemaining <= 0 {
		if err := s.store.Delete(ctx, lookupHash); err != nil {
			return nil, fmt.Errorf("delete exhausted secret: %w", err)
		}
		return nil, domain.ErrNotFound
	}

	remaining, err := s.store.DecrementViews(ctx, lookupHash)
	if errors.Is(err, domain.ErrNotFound) {
		// lost a race on the last view
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("decrement views: %w", err)
	}
	if remaining <= 0 {
		if err := s.store.Delete(ctx, lookupHash); err != nil {
			return nil, fmt.Errorf("delete exhausted secret: %w", err)
		}
	}

	ciphertext, err := base64.StdEncoding.DecodeString(rec.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}
	plaintext, err := crypto.Decrypt(token, tag, ciphertext)
	if err != nil {
		// the view above is spent regardless
		return nil, err
	}
	return plaintext, nil
}
