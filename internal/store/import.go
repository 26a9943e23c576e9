package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"complaint-dashboard/internal/intake"

	"github.com/rs/zerolog/log"
)

const (
	importBatchSize = 500
	maxLineBytes    = 4 << 20
)

// ImportResult summarizes a JSONL import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportFile imports the JSONL file at path.
func (s *Store) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to open import file: %w", err)
	}
	defer file.Close()
	return s.ImportJSONL(ctx, file)
}

// ImportJSONL reads one raw record per line and inserts them in batches.
// Blank and malformed lines are skipped with a warning.
func (s *Store) ImportJSONL(ctx context.Context, r io.Reader) (ImportResult, error) {
	var res ImportResult
	batch := make([]intake.RawRecord, 0, importBatchSize)

	flush := func() error {
		n, err := s.InsertRecords(ctx, batch)
		if err != nil {
			return err
		}
		res.Imported += n
		batch = batch[:0]
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var rec intake.RawRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			log.Warn().Err(err).Int("line", line).Msg("Skipping invalid JSON line in import")
			res.Skipped++
			continue
		}
		batch = append(batch, rec)

		if len(batch) == importBatchSize {
			if err := flush(); err != nil {
				return res, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("error reading import: %w", err)
	}
	if err := flush(); err != nil {
		return res, err
	}

	log.Info().Int("imported", res.Imported).Int("skipped", res.Skipped).Msg("Imported intake records")
	return res, nil
}
