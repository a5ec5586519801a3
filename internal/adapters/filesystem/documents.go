package filesystem

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"urlresolver/internal/application"
	"urlresolver/internal/domain"
	"urlresolver/internal/ports"
)

// Store implements ports.DocumentStore on the local filesystem.
// Documents may carry comments and trailing commas (JSONC).
type Store struct {
	baseDir string
}

var _ ports.DocumentStore = (*Store)(nil)

// NewStore creates a store resolving relative paths against baseDir.
// An empty baseDir uses the working directory.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: expandHome(baseDir)}
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}

func (s *Store) resolve(path string) string {
	path = expandHome(path)
	if s.baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.baseDir, path)
}

// readFile reads path, mapping a missing file to application.ErrNotFound
func (s *Store) readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(s.resolve(path))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, application.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// readJSONC standardizes JSONC to JSON and decodes it into v
func (s *Store) readJSONC(path, kind string, v any) error {
	data, err := s.readFile(path)
	if err != nil {
		return err
	}
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return &application.DocumentError{Path: path, Kind: kind, Reason: "invalid JSONC: " + err.Error()}
	}
	if err := json.Unmarshal(standardized, v); err != nil {
		return &application.DocumentError{Path: path, Kind: kind, Reason: err.Error()}
	}
	return nil
}

// ReadSelectRows reads a selectRows response
func (s *Store) ReadSelectRows(path string) (*domain.SelectRowsDocument, error) {
	var doc domain.SelectRowsDocument
	if err := s.readJSONC(path, "rows", &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ReadSearch reads a search response
func (s *Store) ReadSearch(path string) (*domain.SearchDocument, error) {
	var doc domain.SearchDocument
	if err := s.readJSONC(path, "search", &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// WriteJSON writes v as indented JSON, replacing path atomically
func (s *Store) WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	data = append(data, '\n')

	full := s.resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := atomic.WriteFile(full, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
