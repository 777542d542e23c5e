package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Fatalf("unexpected file in migrations: %s", name)
		}
	}
	if len(ups) == 0 {
		t.Fatal("expected at least one migration")
	}
	for version := range ups {
		if !downs[version] {
			t.Fatalf("migration %s has no down file", version)
		}
	}
}

func TestEmbeddedMigrationsParseAsSource(t *testing.T) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		t.Fatalf("open source: %v", err)
	}
	defer source.Close()

	first, err := source.First()
	if err != nil {
		t.Fatalf("first version: %v", err)
	}
	if first != 1 {
		t.Fatalf("expected first version 1, got %d", first)
	}
}

func TestSchemaDeclaresReconciliationConstraints(t *testing.T) {
	raw, err := fs.ReadFile(migrationFiles, "migrations/000002_fundraising.up.sql")
	if err != nil {
		t.Fatalf("read fundraising migration: %v", err)
	}
	for _, want := range []string{"ux_donations_idempotency_key", "ux_donations_stripe_session", "ix_donations_payment_intent"} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("expected %s in fundraising schema", want)
		}
	}
}

func TestRunMigrationRequiresDSN(t *testing.T) {
	if err := RunMigration("", MigrateUp, 0, nil); err == nil {
		t.Fatal("expected missing dsn error")
	}
}
