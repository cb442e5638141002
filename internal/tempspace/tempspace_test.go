package tempspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/studykit/pdfparse/internal/common"
)

func TestTempDirCleanup(t *testing.T) {
	m := NewManager(common.TempConfig{Dir: t.TempDir()}, nil)

	dir, cleanup, err := m.TempDir("render")
	if err != nil {
		t.Fatalf("TempDir: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("dir not created: %v", err)
	}

	cleanup()
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("cleanup did not remove directory")
	}
	cleanup() // safe to call twice
}

func TestCleanupAll(t *testing.T) {
	m := NewManager(common.TempConfig{Dir: t.TempDir()}, nil)

	var dirs []string
	for i := 0; i < 3; i++ {
		dir, _, err := m.TempDir("batch")
		if err != nil {
			t.Fatalf("TempDir: %v", err)
		}
		dirs = append(dirs, dir)
	}

	m.CleanupAll()
	for _, d := range dirs {
		if _, err := os.Stat(d); !os.IsNotExist(err) {
			t.Errorf("directory survived CleanupAll: %s", d)
		}
	}
}

func TestSweepStale(t *testing.T) {
	base := t.TempDir()
	m := NewManager(common.TempConfig{Dir: base, MaxAge: time.Minute}, nil)

	stale := filepath.Join(base, dirPrefix+"old")
	fresh := filepath.Join(base, dirPrefix+"new")
	foreign := filepath.Join(base, "unrelated")
	for _, d := range []string{stale, fresh, foreign} {
		if err := os.Mkdir(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, past, past); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(foreign, past, past); err != nil {
		t.Fatal(err)
	}

	m.SweepStale()

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale scratch directory not swept")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh scratch directory swept")
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Error("foreign directory must never be touched")
	}
}

func TestEnsureSpace(t *testing.T) {
	m := NewManager(common.TempConfig{Dir: t.TempDir(), MinFreeMB: 1}, nil)
	if err := m.EnsureSpace(1); err != nil {
		t.Errorf("1MB floor should be satisfiable: %v", err)
	}
}
