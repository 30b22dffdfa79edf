package sessionstore

import (
	"context"
	"testing"
	"time"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(time.Hour)
	session := NewSession("s1", store)

	if err := session.Set(ctx, KeyAuthToken, "token-1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, err := session.Get(ctx, KeyAuthToken)
	if err != nil || value != "token-1" {
		t.Fatalf("get = %q, %v", value, err)
	}

	// Absent keys are empty, not errors.
	value, err = session.Get(ctx, KeyUserRoles)
	if err != nil || value != "" {
		t.Fatalf("absent key = %q, %v", value, err)
	}

	if err := session.Delete(ctx, KeyAuthToken); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if session.Has(ctx, KeyAuthToken) {
		t.Fatal("deleted key still present")
	}
}

func TestMemorySessionsIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(time.Hour)

	if err := store.Set(ctx, "a", KeyAuthToken, "token-a"); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, err := store.Get(ctx, "b", KeyAuthToken)
	if err != nil || value != "" {
		t.Fatalf("cross-session read = %q, %v", value, err)
	}
}

func TestMemorySweepRemovesExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(time.Minute)
	current := time.Now()
	store.now = func() time.Time { return current }

	if err := store.Set(ctx, "old", KeyAuthToken, "x"); err != nil {
		t.Fatalf("set: %v", err)
	}

	current = current.Add(2 * time.Minute)
	if err := store.Set(ctx, "fresh", KeyAuthToken, "y"); err != nil {
		t.Fatalf("set: %v", err)
	}

	removed, err := store.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Fatalf("swept %d sessions, want 1", removed)
	}

	if value, _ := store.Get(ctx, "old", KeyAuthToken); value != "" {
		t.Fatal("expired session survived sweep")
	}
	if value, _ := store.Get(ctx, "fresh", KeyAuthToken); value != "y" {
		t.Fatal("fresh session lost in sweep")
	}
}

func TestMemoryExpiredSessionReadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(time.Minute)
	current := time.Now()
	store.now = func() time.Time { return current }

	if err := store.Set(ctx, "s", KeyAuthToken, "x"); err != nil {
		t.Fatalf("set: %v", err)
	}
	current = current.Add(time.Hour)
	if value, _ := store.Get(ctx, "s", KeyAuthToken); value != "" {
		t.Fatal("expired session still readable")
	}
}
