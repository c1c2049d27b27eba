package session

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "chemviz.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestTokenRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	token, err := st.Token(ctx)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}

	if err := st.SetToken(ctx, "abc"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	token, err = st.Token(ctx)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token != "abc" {
		t.Fatalf("expected token %q, got %q", "abc", token)
	}

	if err := st.SetToken(ctx, "def"); err != nil {
		t.Fatalf("replace token: %v", err)
	}
	token, err = st.Token(ctx)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token != "def" {
		t.Fatalf("expected replaced token %q, got %q", "def", token)
	}
}

func TestClearToken(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if err := st.ClearToken(ctx); err != nil {
		t.Fatalf("clear empty store: %v", err)
	}
	if err := st.SetToken(ctx, "abc"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if err := st.ClearToken(ctx); err != nil {
		t.Fatalf("clear token: %v", err)
	}
	token, err := st.Token(ctx)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token != "" {
		t.Fatalf("expected cleared token, got %q", token)
	}
}
