// Package datastore keeps a JSON document of string-keyed records on disk.
// Every Save rewrites the whole document atomically (temp file, fsync, rename).
package datastore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Config holds configuration options for a Store.
type Config struct {
	FilePath    string
	BackupCount int // number of rotated backups to keep (0 = none)
	Logger      *log.Logger
}

// DefaultConfig returns a default configuration.
func DefaultConfig(filePath string) *Config {
	return &Config{
		FilePath:    filePath,
		BackupCount: 3,
		Logger:      log.New(os.Stderr, "[datastore] ", log.LstdFlags),
	}
}

// rename is swapped in tests to simulate a failing filesystem.
var rename = os.Rename

// Store is a document of records of type T keyed by string.
// It is not safe for concurrent use; callers serialize access.
type Store[T any] struct {
	data         map[string]T
	file         string
	config       *Config
	lastChecksum string
	recovered    string
}

// Open loads the document at config.FilePath.
// A missing file is created as an empty document right away. A file that cannot
// be parsed is moved aside to "<path>.corrupt.<timestamp>" and the store starts
// empty; RecoveredFrom reports where it went. If it cannot be moved, the store
// still starts empty in memory.
func Open[T any](config *Config) (*Store[T], error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.FilePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard, "", 0)
	}

	dir := filepath.Dir(config.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	s := &Store[T]{
		data:   make(map[string]T),
		file:   config.FilePath,
		config: config,
	}

	_, err := os.Stat(config.FilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := s.Save(); err != nil {
			return nil, fmt.Errorf("failed to create empty document: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to check file existence: %w", err)
	default:
		if err := s.load(); err != nil {
			config.Logger.Printf("Failed to load %s, starting empty: %v", s.file, err)
			s.data = make(map[string]T)
			// the unreadable file is only overwritten once it has been moved aside
			if qerr := s.quarantine(); qerr != nil {
				config.Logger.Printf("Failed to move %s aside, keeping it until the next save: %v", s.file, qerr)
				break
			}
			if err := s.Save(); err != nil {
				config.Logger.Printf("Failed to create empty document: %v", err)
			}
		}
	}

	return s, nil
}

// Get retrieves a record by key.
func (s *Store[T]) Get(key string) (T, bool) {
	v, ok := s.data[key]
	return v, ok
}

// Put stores a record in memory. Call Save to persist it.
func (s *Store[T]) Put(key string, value T) {
	s.data[key] = value
}

// Keys returns every key, sorted.
func (s *Store[T]) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of records.
func (s *Store[T]) Len() int { return len(s.data) }

// Path returns the backing file path.
func (s *Store[T]) Path() string { return s.file }

// RecoveredFrom returns the path an unreadable document was moved to on Open,
// or "" if the document loaded cleanly.
func (s *Store[T]) RecoveredFrom() string { return s.recovered }

// Save rewrites the whole document. An unchanged document is not rewritten.
func (s *Store[T]) Save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	checksum := calculateChecksum(data)
	if checksum == s.lastChecksum {
		return nil
	}

	if s.config.BackupCount > 0 {
		if err := s.createBackup(); err != nil {
			s.config.Logger.Printf("Failed to create backup: %v", err)
		}
	}

	if err := s.writeFileAtomic(data); err != nil {
		return err
	}
	if err := s.verifyFile(checksum); err != nil {
		return fmt.Errorf("file verification failed: %w", err)
	}

	s.lastChecksum = checksum
	return nil
}

func (s *Store[T]) load() error {
	data, err := os.ReadFile(s.file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	temp := make(map[string]T)
	if err := json.Unmarshal(data, &temp); err != nil {
		return fmt.Errorf("invalid JSON format: %w", err)
	}

	s.data = temp
	s.lastChecksum = calculateChecksum(data)
	return nil
}

func (s *Store[T]) quarantine() error {
	target := fmt.Sprintf("%s.corrupt.%s", s.file, time.Now().Format("20060102_150405"))
	if err := rename(s.file, target); err != nil {
		return err
	}
	s.recovered = target
	s.lastChecksum = ""
	return nil
}

func (s *Store[T]) writeFileAtomic(data []byte) error {
	tmpFile := s.file + ".tmp"

	f, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpFile, s.file); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func (s *Store[T]) verifyFile(expected string) error {
	actual, err := os.ReadFile(s.file)
	if err != nil {
		return fmt.Errorf("failed to read file for verification: %w", err)
	}
	if calculateChecksum(actual) != expected {
		return fmt.Errorf("file checksum mismatch")
	}
	return nil
}

// createBackup copies the current file to a timestamped backup and prunes old ones.
func (s *Store[T]) createBackup() error {
	src, err := os.Open(s.file)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer src.Close()

	backupFile := fmt.Sprintf("%s.backup.%s", s.file, time.Now().Format("20060102_150405"))
	dst, err := os.Create(backupFile)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}

	s.cleanupOldBackups()
	return nil
}

func (s *Store[T]) cleanupOldBackups() {
	matches, err := filepath.Glob(s.file + ".backup.*")
	if err != nil || len(matches) <= s.config.BackupCount {
		return
	}

	type fileInfo struct {
		path    string
		modTime time.Time
	}
	files := make([]fileInfo, 0, len(matches))
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil {
			files = append(files, fileInfo{m, info.ModTime()})
		}
	}

	// oldest first; names embed the timestamp, so they break modtime ties
	sort.Slice(files, func(i, j int) bool {
		if files[i].modTime.Equal(files[j].modTime) {
			return files[i].path < files[j].path
		}
		return files[i].modTime.Before(files[j].modTime)
	})

	for i := 0; i < len(files)-s.config.BackupCount; i++ {
		os.Remove(files[i].path)
	}
}

func calculateChecksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
