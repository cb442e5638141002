// Package tempspace manages the shared scratch directory used by page
// rasterization. Space is a contended resource: extraction must check and
// reclaim before writing image batches, and fail closed when the floor
// cannot be met.
package tempspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/studykit/pdfparse/internal/common"
)

const dirPrefix = "pdfparse_"

// Manager tracks the temp directories it hands out and can reclaim them.
type Manager struct {
	dir       string
	minFreeMB int
	maxAge    time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	tracked map[string]struct{}
}

func NewManager(cfg common.TempConfig, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	dir := cfg.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Manager{
		dir:       dir,
		minFreeMB: cfg.MinFreeMB,
		maxAge:    maxAge,
		logger:    logger,
		tracked:   make(map[string]struct{}),
	}
}

// TempDir creates a tracked scratch directory. The returned cleanup removes
// it; it is safe to call more than once.
func (m *Manager) TempDir(prefix string) (string, func(), error) {
	dir, err := os.MkdirTemp(m.dir, dirPrefix+prefix)
	if err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}
	m.mu.Lock()
	m.tracked[dir] = struct{}{}
	m.mu.Unlock()

	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			m.logger.Warn("tempspace.cleanup.failed", "dir", dir, "error", err)
		}
		m.mu.Lock()
		delete(m.tracked, dir)
		m.mu.Unlock()
	}
	return dir, cleanup, nil
}

// EnsureSpace verifies at least requiredMB megabytes are free, reclaiming
// tracked and stale directories first if needed. Returns ErrTempSpace when
// the floor still cannot be met: rasterization must not start a batch it
// cannot finish.
func (m *Manager) EnsureSpace(requiredMB int) error {
	if requiredMB <= 0 {
		requiredMB = m.minFreeMB
	}
	if m.freeMB() >= requiredMB {
		return nil
	}

	m.logger.Warn("tempspace.low", "free_mb", m.freeMB(), "required_mb", requiredMB)
	m.CleanupAll()
	m.SweepStale()

	if free := m.freeMB(); free < requiredMB {
		m.logger.Error("tempspace.exhausted", "free_mb", free, "required_mb", requiredMB)
		return fmt.Errorf("%w: %dMB free, %dMB required", common.ErrTempSpace, free, requiredMB)
	}
	return nil
}

// CleanupAll removes every tracked directory.
func (m *Manager) CleanupAll() {
	m.mu.Lock()
	dirs := make([]string, 0, len(m.tracked))
	for d := range m.tracked {
		dirs = append(dirs, d)
	}
	m.mu.Unlock()

	for _, d := range dirs {
		if err := os.RemoveAll(d); err != nil {
			m.logger.Warn("tempspace.cleanup.failed", "dir", d, "error", err)
			continue
		}
		m.mu.Lock()
		delete(m.tracked, d)
		m.mu.Unlock()
	}
}

// SweepStale removes leftover pdfparse scratch directories older than the
// configured max age, including those abandoned by crashed runs.
func (m *Manager) SweepStale() {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-m.maxAge)
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), dirPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		full := filepath.Join(m.dir, e.Name())
		if err := os.RemoveAll(full); err == nil {
			m.logger.Debug("tempspace.swept", "dir", full)
		}
	}
}

func (m *Manager) freeMB() int {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(m.dir, &stat); err != nil {
		// If usage cannot be measured, do not block extraction.
		return int(^uint(0) >> 1)
	}
	return int(stat.Bavail * uint64(stat.Bsize) / (1 << 20))
}
