package application

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/imagevault/imagevault/catalog/persistence"
	"github.com/imagevault/imagevault/shared/blob"
	"github.com/imagevault/imagevault/shared/db/sqlite"
)

// testEnv wires a real in-memory database and a temp-dir blob store together,
// the same way the server wires them at startup.
type testEnv struct {
	conn   *sql.DB
	images *persistence.SQLiteImageRepository
	tags   *persistence.SQLiteTagRepository
	blobs  *blob.DirStore
	dir    string
	svc    *ImageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	dir := t.TempDir()
	images := persistence.NewImageRepository(conn)
	tags := persistence.NewTagRepository(conn)
	blobs := blob.NewDirStore(dir)

	return &testEnv{
		conn:   conn,
		images: images,
		tags:   tags,
		blobs:  blobs,
		dir:    dir,
		svc:    NewImageService(conn, images, tags, blobs),
	}
}

func (e *testEnv) seedUser(t *testing.T, username string) int64 {
	t.Helper()

	result, err := e.conn.Exec(
		"INSERT INTO users (username, password_hash, role, created_at) VALUES (?, ?, ?, ?)",
		username, "not-a-real-hash", "uploader", time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("Failed to seed user %q: %v", username, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to get seeded user ID: %v", err)
	}
	return id
}

// writeBlob plants a file directly in the content directory, bypassing the
// store, as an operator dropping files in from outside would.
func (e *testEnv) writeBlob(t *testing.T, name string, modTime time.Time) {
	t.Helper()

	path := filepath.Join(e.dir, name)
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		t.Fatalf("Failed to create content directory: %v", err)
	}
	if err := os.WriteFile(path, []byte("blob bytes for "+name), 0o644); err != nil {
		t.Fatalf("Failed to write blob %q: %v", name, err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("Failed to set mtime on %q: %v", name, err)
	}
}

// stubClock makes timeNow return strictly increasing times starting at start,
// one minute apart, so upload ordering in tests is deterministic.
func stubClock(t *testing.T, start time.Time) {
	t.Helper()

	calls := 0
	timeNow = func() time.Time {
		at := start.Add(time.Duration(calls) * time.Minute)
		calls++
		return at
	}
	t.Cleanup(func() { timeNow = time.Now })
}
