// Package storage persists forecast records as JSON Lines: one record per
// line, append-only, later snapshots of a record superseding earlier ones.
package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Forecaster/models"
)

// JSONLStore is a file-backed append-only record store
type JSONLStore struct {
	path   string
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewJSONLStore creates a store backed by the given file path. The file is
// created lazily on first append.
func NewJSONLStore(path string) *JSONLStore {
	return &JSONLStore{
		path:   path,
		logger: log.With().Str("component", "jsonl_store").Str("file", path).Logger(),
	}
}

// Load reads all records from the backing file. A missing file is an empty
// history, not an error. Malformed lines are skipped and logged rather than
// aborting the whole load. A line that carries the ID of an already-loaded
// record replaces it: the last written snapshot wins.
func (s *JSONLStore) Load() ([]models.ForecastRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening store: %w", err)
	}
	defer f.Close()

	var records []models.ForecastRecord

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record models.ForecastRecord
		if err := json.Unmarshal(line, &record); err != nil {
			s.logger.Warn().Err(err).Int("line", lineNo).Msg("Skipping malformed record")
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading store: %w", err)
	}

	return CollapseSnapshots(records), nil
}

// Append writes one record as a single line. The exclusive append-mode
// write plus the mutex keeps concurrent writers from interleaving lines.
func (s *JSONLStore) Append(record models.ForecastRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening store for append: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending record: %w", err)
	}
	return nil
}
