package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"competitive-intel/models"
	"competitive-intel/utils"
)

// FileSource loads already-collected content from JSON or JSON-lines files.
type FileSource struct {
	logger *utils.Logger
	pool   *utils.WorkerPool
	seen   *utils.KeySet
	retry  *utils.RetryConfig
}

// NewFileSource creates a FileSource reading up to maxConcurrency files at once.
func NewFileSource(maxConcurrency, maxRetries int, logger *utils.Logger) *FileSource {
	return &FileSource{
		logger: logger,
		pool:   utils.NewWorkerPool(maxConcurrency, 0),
		seen:   utils.NewPathSet(),
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   100 * time.Millisecond,
			Logger:      logger,
		},
	}
}

// Load reads every file and concatenates their records in argument order.
// A file listed twice is read once. The returned slice is never nil, so an
// explicitly supplied corpus that turns out empty stays distinguishable from
// an absent one.
func (s *FileSource) Load(ctx context.Context, paths []string) ([]models.RawContent, error) {
	perFile := make([][]models.RawContent, len(paths))
	var (
		mu       sync.Mutex
		firstErr error
	)

	for i, p := range paths {
		if !s.seen.Add(p) {
			s.logger.Debug("[source] Duplicate path skipped: %s", p)
			continue
		}

		s.pool.Submit(func() {
			records, err := s.loadFile(ctx, p)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			perFile[i] = records
		})
	}
	s.pool.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	out := make([]models.RawContent, 0)
	for _, records := range perFile {
		out = append(out, records...)
	}
	s.logger.Info("[source] Loaded %d records from %d files", len(out), len(paths))
	return out, nil
}

func (s *FileSource) loadFile(ctx context.Context, path string) ([]models.RawContent, error) {
	var (
		data    []byte
		missing error
	)
	err := s.retry.Do(ctx, "read "+path, func() error {
		var readErr error
		data, readErr = os.ReadFile(path)
		if errors.Is(readErr, fs.ErrNotExist) {
			// Missing files will not appear on retry.
			missing = readErr
			return nil
		}
		return readErr
	})
	if err != nil {
		return nil, err
	}
	if missing != nil {
		return nil, fmt.Errorf("source: %w", missing)
	}

	records, err := DecodeContent(data)
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", path, err)
	}
	s.logger.Debug("[source] %s: %d records", path, len(records))
	return records, nil
}

// DecodeContent accepts either a JSON array of records or one JSON record per line.
func DecodeContent(data []byte) ([]models.RawContent, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []models.RawContent{}, nil
	}

	if trimmed[0] == '[' {
		var records []models.RawContent
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("decode json array: %w", err)
		}
		if records == nil {
			records = []models.RawContent{}
		}
		return records, nil
	}

	records := make([]models.RawContent, 0)
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var r models.RawContent
		if err := json.Unmarshal(text, &r); err != nil {
			return nil, fmt.Errorf("decode line %d: %w", line, err)
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan lines: %w", err)
	}
	return records, nil
}

// LoadRequest reads a full request document (subject, competitor, mode and
// both corpora) from a JSON file.
func LoadRequest(path string) (models.RawAnalysisRequest, error) {
	var req models.RawAnalysisRequest
	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("source: read request: %w", err)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("source: decode request: %w", err)
	}
	return req, nil
}
