package actions

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stake-plus/congressrp/src/config"
	"github.com/stake-plus/congressrp/src/data"
	"github.com/stake-plus/congressrp/src/data/bills"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "congress.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := data.Migrate(db, bills.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestStartAllWithoutDiscord(t *testing.T) {
	t.Setenv("ENABLE_LEGISLATURE", "false")
	t.Setenv("ENABLE_API", "true")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("API_PORT", "0")

	db := openTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mgr, err := StartAll(ctx, db, config.Bootstrap{})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	mgr.Stop(ctx)
}

func TestStartAllRequiresJWTSecretForAPI(t *testing.T) {
	t.Setenv("ENABLE_LEGISLATURE", "false")
	t.Setenv("ENABLE_API", "true")
	t.Setenv("JWT_SECRET", "")

	db := openTestDB(t)
	if _, err := StartAll(context.Background(), db, config.Bootstrap{Ephemeral: true}); err == nil {
		t.Fatal("expected the API module to refuse an empty jwt secret")
	}
}

func TestStartAllRequiresChambersFile(t *testing.T) {
	t.Setenv("ENABLE_LEGISLATURE", "true")
	t.Setenv("ENABLE_API", "false")

	db := openTestDB(t)
	boot := config.Bootstrap{ChambersFile: filepath.Join(t.TempDir(), "missing.yaml")}
	if _, err := StartAll(context.Background(), db, boot); err == nil {
		t.Fatal("expected a missing chambers file to fail start-up")
	}
}
