package migrations

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun"

	"github.com/kitswap/dex-middleware/pkg/config"
	"github.com/kitswap/dex-middleware/pkg/pgutil"
)

type testDao struct {
	bun.BaseModel `bun:"table:test_table"`
	ID            int64  `bun:",pk,autoincrement"`
	Name          string `bun:",notnull,type:varchar(100)"`
	Age           int    `bun:",nullzero"`
}

func setupDB(t *testing.T) *bun.DB {
	t.Helper()
	requireDockerAccess(t)
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)
	return db
}

func requireDockerAccess(t *testing.T) {
	t.Helper()

	candidates := []string{
		"/var/run/docker.sock",
		filepath.Join(os.Getenv("HOME"), ".docker/run/docker.sock"),
	}

	for _, sock := range candidates {
		if sock == "" {
			continue
		}
		if _, err := os.Stat(sock); err != nil {
			continue
		}
		conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", sock)
		if err == nil {
			_ = conn.Close()
			return
		}
	}

	t.Skip("docker daemon socket is not accessible; skipping testcontainer-backed migration tests")
}

func TestConnectDB_InvalidHost(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "invalid-host-that-does-not-exist",
		Port:     5432,
		User:     "test",
		Password: "test",
		Database: "test",
		SSLMode:  "disable",
	}

	db, err := pgutil.ConnectDB(cfg)
	if err == nil {
		db.Close()
		t.Error("ConnectDB() should fail with invalid host")
	}
}

func TestCreateSchema(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := CreateSchema(ctx, db, &testDao{})
	if err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}

	pgutil.AssertTableExists(t, db, "test_table")

	// Idempotent
	err = CreateSchema(ctx, db, &testDao{})
	if err != nil {
		t.Errorf("CreateSchema() second call failed: %v", err)
	}
}

func TestDropTables(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := CreateSchema(ctx, db, &testDao{})
	if err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}
	pgutil.AssertTableExists(t, db, "test_table")

	err = DropTables(ctx, db, &testDao{})
	if err != nil {
		t.Fatalf("DropTables() failed: %v", err)
	}

	pgutil.AssertTableNotExists(t, db, "test_table")

	// Idempotent
	err = DropTables(ctx, db, &testDao{})
	if err != nil {
		t.Errorf("DropTables() second call failed: %v", err)
	}
}

func TestCreateModelIndexes(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := CreateSchema(ctx, db, &testDao{})
	if err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}

	err = CreateModelIndexes(ctx, db, &testDao{}, "name", "age")
	if err != nil {
		t.Fatalf("CreateModelIndexes() failed: %v", err)
	}

	pgutil.AssertIndexExists(t, db, "idx_test_table_name")
	pgutil.AssertIndexExists(t, db, "idx_test_table_age")
}

func TestDropModelIndexes(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := CreateSchema(ctx, db, &testDao{})
	if err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}

	err = CreateModelIndexes(ctx, db, &testDao{}, "name")
	if err != nil {
		t.Fatalf("CreateModelIndexes() failed: %v", err)
	}
	pgutil.AssertIndexExists(t, db, "idx_test_table_name")

	err = DropModelIndexes(ctx, db, &testDao{}, "name")
	if err != nil {
		t.Fatalf("DropModelIndexes() failed: %v", err)
	}

	var exists bool
	query := `SELECT EXISTS (SELECT FROM pg_indexes WHERE schemaname = 'public' AND indexname = ?)`
	err = db.NewRaw(query, "idx_test_table_name").Scan(ctx, &exists)
	if err != nil {
		t.Fatalf("failed to check name index: %v", err)
	}
	if exists {
		t.Error("idx_test_table_name should be dropped")
	}
}
