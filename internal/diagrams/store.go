// Package diagrams renders football route, play, and coverage diagrams to
// PNG files and serves them through a content-addressed on-disk store.
package diagrams

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Kind selects which family of diagram templates to render.
type Kind string

const (
	KindRoute    Kind = "route"
	KindPlay     Kind = "play"
	KindCoverage Kind = "coverage"
)

// ParseKind validates a diagram type string from tool input.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindRoute:
		return KindRoute, nil
	case KindPlay:
		return KindPlay, nil
	case KindCoverage:
		return KindCoverage, nil
	}
	return "", fmt.Errorf("diagram_type must be one of route, play, coverage (got %q)", s)
}

// Store keeps rendered diagrams on disk, keyed by a hash of kind and name so
// repeated requests for the same concept reuse the existing artifact.
type Store struct {
	dir     string
	baseURL string
	logger  *slog.Logger
}

// NewStore creates the diagram directory if needed. baseURL is the public
// path prefix the HTTP server mounts the directory at (e.g. "/diagrams").
func NewStore(dir, baseURL string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating diagram dir: %w", err)
	}
	return &Store{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With("component", "diagrams"),
	}, nil
}

// Dir returns the on-disk directory the store writes to.
func (s *Store) Dir() string { return s.dir }

func (s *Store) filename(kind Kind, name string) string {
	sum := sha256.Sum256([]byte(string(kind) + ":" + strings.ToLower(strings.TrimSpace(name))))
	return hex.EncodeToString(sum[:8]) + ".png"
}

// Ensure renders the diagram for kind+name unless an artifact for it already
// exists, and returns its public URL. created reports whether a render
// actually happened.
func (s *Store) Ensure(kind Kind, name string) (url string, created bool, err error) {
	if strings.TrimSpace(name) == "" {
		return "", false, fmt.Errorf("diagram name is empty")
	}
	file := s.filename(kind, name)
	path := filepath.Join(s.dir, file)
	url = s.baseURL + "/" + file

	if _, statErr := os.Stat(path); statErr == nil {
		return url, false, nil
	}

	if err := render(kind, name, path); err != nil {
		return "", false, fmt.Errorf("rendering %s diagram %q: %w", kind, name, err)
	}
	s.logger.Debug("diagram rendered", "kind", kind, "name", name, "file", file)
	return url, true, nil
}

// Sweep deletes artifacts older than maxAge. Run from the scheduler to keep
// the directory from growing without bound.
func (s *Store) Sweep(maxAge time.Duration) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("reading diagram dir: %w", err)
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".png") {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err == nil {
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("diagram sweep", "removed", removed)
	}
	return nil
}
