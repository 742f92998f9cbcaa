// Package sink provides destinations for generated proxy sources.
package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// OutputSink receives generated file content. Implementations must be safe
// for concurrent calls.
type OutputSink interface {
	// WriteFile writes content to a slash-separated path relative to the
	// sink's root.
	WriteFile(ctx context.Context, path string, content []byte) error
}

// TempPattern is the name pattern of the temporary files FilesystemSink
// renames into place. Leftovers from an interrupted run match it.
const TempPattern = ".qmlgen-*.tmp"

// FilesystemSink writes to a directory on the local filesystem.
type FilesystemSink struct {
	Root string

	// Mode is the file permission mode (default 0644).
	Mode os.FileMode

	// Overwrite controls behavior for existing files. If false, WriteFile
	// fails when the target exists.
	Overwrite bool
}

// NewFilesystemSink returns a FilesystemSink rooted at root that overwrites
// existing files.
func NewFilesystemSink(root string) *FilesystemSink {
	return &FilesystemSink{Root: root, Mode: 0644, Overwrite: true}
}

// WriteFile writes content to path below the root. Parent directories are
// created as needed; the file is written to a temp file first and renamed so
// readers never observe a partially generated source.
func (s *FilesystemSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := filepath.Join(s.Root, filepath.FromSlash(path))
	absRoot, err := filepath.Abs(s.Root)
	if err != nil {
		return fmt.Errorf("resolve root directory: %w", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if absPath != absRoot && !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return fmt.Errorf("path escapes root directory: %q", path)
	}

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	mode := s.Mode
	if mode == 0 {
		mode = 0644
	}

	tmp, err := os.CreateTemp(dir, TempPattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	discard := func() { _ = os.Remove(tmpPath) }

	_, writeErr := tmp.Write(content)
	closeErr := tmp.Close()
	switch {
	case writeErr != nil:
		discard()
		return fmt.Errorf("write temp file: %w", writeErr)
	case closeErr != nil:
		discard()
		return fmt.Errorf("close temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		discard()
		return fmt.Errorf("set file mode: %w", err)
	}
	if err := ctx.Err(); err != nil {
		discard()
		return err
	}

	if s.Overwrite {
		if err := os.Rename(tmpPath, fullPath); err != nil {
			discard()
			return fmt.Errorf("rename temp file: %w", err)
		}
		return nil
	}
	// Link fails atomically when the target exists.
	if err := os.Link(tmpPath, fullPath); err != nil {
		discard()
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("file already exists: %q", path)
		}
		return fmt.Errorf("create file: %w", err)
	}
	discard()
	return nil
}

// MemorySink stores generated files in memory.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// WriteFile stores a copy of content under path.
func (s *MemorySink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c := append([]byte(nil), content...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = c
	return nil
}

// Files returns a copy of all written files.
func (s *MemorySink) Files() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]byte, len(s.files))
	for p, c := range s.files {
		out[p] = append([]byte(nil), c...)
	}
	return out
}

// Get returns a copy of the content at path, or nil.
func (s *MemorySink) Get(path string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.files[path]
	if !ok {
		return nil
	}
	return append([]byte(nil), c...)
}

// Reset clears all stored files.
func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string][]byte)
}

// WriterSink copies every file to an io.Writer, e.g. os.Stdout for "-o -".
// The path is ignored apart from validation.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink returns a WriterSink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.w.Write(content)
	return err
}

// ValidatePath checks that path is relative, slash-separated, clean and free
// of ".." components.
func ValidatePath(path string) error {
	if path == "" {
		return errors.New("path is empty")
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return errors.New("absolute paths not allowed")
	}
	// Drive letters are rejected on every platform.
	if len(path) >= 2 && path[1] == ':' && isASCIILetter(path[0]) {
		return errors.New("absolute paths not allowed")
	}
	if strings.Contains(path, "..") {
		return errors.New("path traversal not allowed")
	}
	slashed := filepath.ToSlash(path)
	if cleaned := filepath.ToSlash(filepath.Clean(slashed)); cleaned != slashed {
		return fmt.Errorf("path is not clean (expected %q, got %q)", cleaned, path)
	}
	return nil
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
