package sweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/weedz/secrets/internal/domain"
	"github.com/weedz/secrets/internal/store"
)

func TestSweep(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	now := time.Now()

	records := []*domain.Record{
		{LookupHash: "old", Ciphertext: "b2s=", ViewsRemaining: 3, ExpiresAt: now.Add(-time.Hour)},
		{LookupHash: "older", Ciphertext: "b2s=", ViewsRemaining: 1, ExpiresAt: now.Add(-2 * time.Hour)},
		{LookupHash: "fresh", Ciphertext: "b2s=", ViewsRemaining: 1, ExpiresAt: now.Add(time.Hour)},
	}
	for _, rec := range records {
		if err := st.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	s := New(st, time.Hour)
	removed, err := s.Sweep(ctx, now)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	if _, err := st.Fetch(ctx, "fresh"); err != nil {
		t.Errorf("fresh record missing after sweep: %v", err)
	}
	if _, err := st.Fetch(ctx, "old"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expired record survived the sweep")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	st := store.NewMemoryStore()
	s := New(st, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not stop after cancellation")
	}
}
