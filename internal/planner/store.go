package planner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

const (
	DefaultDataFile = "holiday_data.json"
	BackupSuffix    = ".backup"
	TmpSuffix       = ".tmp.json"
	FilePermissions = 0644
)

// Store reads and writes the planner document on disk.
// There is no file locking: the last process to save wins. The mutex only
// serializes callers inside one process.
type Store struct {
	path string
	log  *zap.Logger
	mu   sync.Mutex
}

// StoreOption customizes a Store
type StoreOption func(*Store)

// WithLogger sets the logger used for warnings and save events
func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStore creates a store backed by the JSON file at path
func NewStore(path string, opts ...StoreOption) *Store {
	if path == "" {
		path = DefaultDataFile
	}
	s := &Store{path: path, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Load reads the document. A missing file yields an empty document, and so
// does a malformed one (logged, not returned).
func (s *Store) Load() (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Save overwrites the backing file with the full document
func (s *Store) Save(doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(doc)
}

// Update loads the document, applies fn and saves the result.
// Nothing is written when fn returns an error.
func (s *Store) Update(fn func(Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.saveLocked(doc)
}

func (s *Store) loadLocked() (Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Document{}, nil
	}
	if err != nil {
		return nil, &IOError{Op: "read", Path: s.path, Err: err}
	}

	doc, err := Decode(data)
	if err != nil {
		s.log.Warn("data file is malformed, starting from an empty document",
			zap.String("path", s.path), zap.Error(err))
		return Document{}, nil
	}

	s.log.Debug("document loaded", zap.String("path", s.path), zap.Int("dates", len(doc)))
	return doc, nil
}

func (s *Store) saveLocked(doc Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &IOError{Op: "mkdir", Path: dir, Err: err}
		}
	}

	// Keep the previous generation around
	if _, err := os.Stat(s.path); err == nil {
		if err := copyFile(s.path, s.path+BackupSuffix); err != nil {
			s.log.Warn("failed to create backup", zap.String("path", s.path), zap.Error(err))
		}
	}

	// Write to temp file first
	tmpFile := s.path + TmpSuffix
	if err := os.WriteFile(tmpFile, data, FilePermissions); err != nil {
		return &IOError{Op: "write", Path: tmpFile, Err: err}
	}

	if err := os.Rename(tmpFile, s.path); err != nil {
		_ = os.Remove(tmpFile)
		return &IOError{Op: "rename", Path: s.path, Err: err}
	}

	s.log.Debug("document saved", zap.String("path", s.path), zap.Int("dates", len(doc)))
	return nil
}

// Decode parses a document, applying record defaults
func Decode(data []byte) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrMalformedStorage)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStorage, err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// Encode renders the document as indented UTF-8 JSON with non-ASCII text
// left unescaped. Dates are emitted in sorted order.
func Encode(doc Document) ([]byte, error) {
	// lists must serialize as [] rather than null
	out := make(Document, len(doc))
	for date, rec := range doc {
		switch {
		case rec == nil:
			rec = NewDayRecord()
		case rec.Plans == nil || rec.Achievements == nil:
			c := *rec
			if c.Plans == nil {
				c.Plans = []Plan{}
			}
			if c.Achievements == nil {
				c.Achievements = []Achievement{}
			}
			rec = &c
		}
		out[date] = rec
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, FilePermissions)
}
