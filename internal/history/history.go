package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/haskel/cancerform/internal/predictor"
)

// Data represents the persisted data structure.
type Data struct {
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
	Entries   []*Entry  `json:"entries"`
}

// Entry is one successful submission.
type Entry struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Features  map[string]float64 `json:"features"`
	Order     []string           `json:"order"`
	Result    predictor.Result   `json:"result"`
}

const (
	currentVersion = 1
	dataFileName   = "history.json"
)

// Store keeps recent submissions and flushes them to disk.
type Store struct {
	dataDir       string
	flushInterval time.Duration
	maxEntries    int
	logger        *slog.Logger

	mu     sync.RWMutex
	data   *Data
	dirty  bool
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a store under dataDir. maxEntries <= 0 keeps everything.
func New(dataDir string, flushInterval time.Duration, maxEntries int, logger *slog.Logger) *Store {
	return &Store{
		dataDir:       dataDir,
		flushInterval: flushInterval,
		maxEntries:    maxEntries,
		logger:        logger,
		data:          newEmptyData(),
		done:          make(chan struct{}),
	}
}

func newEmptyData() *Data {
	return &Data{
		Version:   currentVersion,
		UpdatedAt: time.Now(),
		Entries:   []*Entry{},
	}
}

// Path returns the history file location.
func (s *Store) Path() string {
	return filepath.Join(s.dataDir, dataFileName)
}

// Load loads data from disk. A missing or unreadable file starts empty.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.Path()

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("no existing history file, starting fresh", "path", filePath)
			s.data = newEmptyData()
			return nil
		}
		return err
	}
	defer file.Close()

	var data Data
	if err := json.NewDecoder(file).Decode(&data); err != nil {
		s.logger.Warn("failed to decode history file, starting fresh", "error", err)
		s.data = newEmptyData()
		return nil
	}

	if data.Version > currentVersion {
		s.logger.Warn("history file version is newer than supported, starting fresh",
			"file_version", data.Version,
			"supported_version", currentVersion,
		)
		s.data = newEmptyData()
		return nil
	}

	if data.Entries == nil {
		data.Entries = []*Entry{}
	}

	s.data = &data
	s.logger.Debug("loaded history from disk",
		"path", filePath,
		"entries", len(data.Entries),
	)

	return nil
}

// Save saves data to disk.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return err
	}

	filePath := s.Path()
	tempPath := filePath + ".tmp"

	s.data.UpdatedAt = time.Now()

	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		os.Remove(tempPath)
		return err
	}

	s.dirty = false
	s.logger.Debug("saved history to disk", "path", filePath)

	return nil
}

// Start starts the periodic flush goroutine.
func (s *Store) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	go s.flushLoop(ctx)
}

// Stop stops the periodic flush and saves pending entries.
func (s *Store) Stop() error {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}

	if !s.IsDirty() {
		return nil
	}
	return s.Save()
}

func (s *Store) flushLoop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.IsDirty() {
				if err := s.Save(); err != nil {
					s.logger.Error("failed to save history", "error", err)
				}
			}
		}
	}
}

// Record appends a submission. It satisfies form.Recorder.
func (s *Store) Record(names []string, values []float64, result *predictor.Result) error {
	if len(names) != len(values) {
		return fmt.Errorf("got %d names for %d values", len(names), len(values))
	}
	if result == nil {
		return fmt.Errorf("nil result")
	}

	entry := &Entry{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Features:  make(map[string]float64, len(names)),
		Order:     append([]string(nil), names...),
		Result:    *result,
	}
	for i, n := range names {
		entry.Features[n] = values[i]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Entries = append(s.data.Entries, entry)
	if s.maxEntries > 0 && len(s.data.Entries) > s.maxEntries {
		drop := len(s.data.Entries) - s.maxEntries
		s.data.Entries = append([]*Entry(nil), s.data.Entries[drop:]...)
	}
	s.dirty = true

	return nil
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Store) List(limit int) []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.data.Entries)
	if limit <= 0 || limit > n {
		limit = n
	}

	result := make([]*Entry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		copied := *s.data.Entries[i]
		result = append(result, &copied)
	}
	return result
}

// IsDirty returns whether data has unsaved changes.
func (s *Store) IsDirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.Entries)
}
