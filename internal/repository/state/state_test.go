package state

import (
	"context"
	"os"
	"testing"

	"quickbite/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, ok, err := m.Get(ctx, KeyCart); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}

	if err := m.Set(ctx, KeyCart, []byte(`{"lines":[]}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := m.Get(ctx, KeyCart)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(v) != `{"lines":[]}` {
		t.Fatalf("unexpected value %q", v)
	}

	if err := m.Remove(ctx, KeyCart); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := m.Get(ctx, KeyCart); ok {
		t.Fatalf("expected key removed")
	}
}

func TestPostgres_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	g := NewPostgres(pool, nil)
	if err := g.Set(ctx, "test-key", []byte("v1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := g.Set(ctx, "test-key", []byte("v2")); err != nil {
		t.Fatalf("Set upsert: %v", err)
	}
	v, ok, err := g.Get(ctx, "test-key")
	if err != nil || !ok || string(v) != "v2" {
		t.Fatalf("Get: value=%q ok=%v err=%v", v, ok, err)
	}
	if err := g.Remove(ctx, "test-key"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := g.Get(ctx, "test-key"); ok {
		t.Fatalf("expected key removed")
	}
}
