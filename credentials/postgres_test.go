package credentials_test

import (
	"context"
	"os"
	"testing"

	"ecapbot/credentials"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgresStoreRoundTrip(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool.New() error = %v", err)
	}
	sealer, _ := credentials.NewSealer("test-key")
	store := credentials.NewPostgresStore(pool, sealer)
	t.Cleanup(func() { store.Close() })

	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	const userID = -424242
	defer store.Delete(ctx, userID)

	if err := store.Save(ctx, userID, "alice", "p1"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(ctx, userID, "alice", "v1:p2"); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	cred, ok := store.Get(ctx, userID)
	if !ok || cred.Username != "alice" || cred.Password != "v1:p2" {
		t.Fatalf("Get() = %+v %v, want alice/v1:p2", cred, ok)
	}
	store.TouchLastUsed(ctx, userID)

	if _, err := store.PurgeExpired(ctx); err != nil {
		t.Errorf("PurgeExpired() error = %v", err)
	}
	if err := store.Delete(ctx, userID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := store.Get(ctx, userID); ok {
		t.Error("Get() after Delete() reported a credential")
	}
}
