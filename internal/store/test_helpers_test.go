package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/testutil"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithClock(testutil.NewDeterministicClock()))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// importProject stores the shared project model and opens it.
func importProject(t *testing.T, s *Store) host.Document {
	t.Helper()
	m, err := host.ParseModel([]byte(testutil.ProjectModel))
	if err != nil {
		t.Fatalf("ParseModel() failed: %v", err)
	}
	snap, err := m.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if _, err := s.Import(context.Background(), snap); err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
	doc, err := s.Document(context.Background(), snap.Title)
	if err != nil {
		t.Fatalf("Document() failed: %v", err)
	}
	return doc
}

func mustExec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
