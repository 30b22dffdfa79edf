package authz

import (
	"context"
	"testing"
)

func TestProviderLifecycle(t *testing.T) {
	session := newFakeSession(map[string]string{
		KeyUserRoles: `["Employee"]`,
	})
	provider := NewProvider(NewStore(session))

	if provider.State() != StateUninitialized {
		t.Fatalf("state = %s", provider.State())
	}
	if provider.HasRole("Employee") {
		t.Fatal("uninitialized provider answered true")
	}

	if err := provider.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if provider.State() != StateLoaded {
		t.Fatalf("state after init = %s", provider.State())
	}
	if !provider.HasRole("Employee") {
		t.Fatal("role missing after init")
	}

	if err := provider.Init(context.Background()); err == nil {
		t.Fatal("second init should be rejected")
	}

	if err := provider.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if provider.State() != StateCleared {
		t.Fatalf("state after clear = %s", provider.State())
	}
	if provider.HasRole("Employee") {
		t.Fatal("cleared provider still has role")
	}

	// Fresh login writes new session data, then reloads.
	session.values[KeyUserRoles] = `["HR Manager"]`
	if err := provider.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if provider.State() != StateLoaded {
		t.Fatalf("state after reload = %s", provider.State())
	}
	if !provider.HasRole("HR Manager") || provider.HasRole("Employee") {
		t.Fatalf("reload did not replace state: %v", provider.Roles())
	}
}

func TestProviderReloadBeforeInit(t *testing.T) {
	provider := NewProvider(NewStore(newFakeSession(nil)))
	if err := provider.Reload(context.Background()); err == nil {
		t.Fatal("reload before init should fail")
	}
}

func TestProviderQueriesStableBetweenTransitions(t *testing.T) {
	provider := NewProvider(NewStore(newFakeSession(map[string]string{
		KeyUserRoles: `["Department Head"]`,
	})))
	if err := provider.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}

	first := provider.HasRole("Department Head")
	for i := 0; i < 10; i++ {
		if provider.HasRole("Department Head") != first {
			t.Fatal("query answer changed without a transition")
		}
	}
}
