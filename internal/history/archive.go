package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"hydromon/internal/types"
)

// Compile-time assertion that FileArchiver implements ArchiveSink.
var _ ArchiveSink = (*FileArchiver)(nil)

// FileArchiver writes trimmed risk samples to zstd-compressed JSONL files,
// one file per calendar day of archiving, named risk-YYYY-MM-DD.jsonl.zst.
// Each Archive call appends an independent zstd frame; concatenated frames
// form a valid zstd stream, so the files stay readable without rewriting.
type FileArchiver struct {
	mu    sync.Mutex
	dir   string
	clock types.Clock
}

// NewFileArchiver creates a FileArchiver rooted at dir, creating the
// directory if needed.
func NewFileArchiver(dir string, clock types.Clock) (*FileArchiver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history: failed to create archive dir %s: %w", dir, err)
	}
	return &FileArchiver{dir: dir, clock: clock}, nil
}

// Archive appends the samples to today's archive file as one compressed
// frame of newline-delimited JSON.
func (a *FileArchiver) Archive(samples []types.RiskSample) error {
	if len(samples) == 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	name := fmt.Sprintf("risk-%s.jsonl.zst", a.clock.Now().Local().Format("2006-01-02"))
	path := filepath.Join(a.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("history: failed to open archive file %s: %w", path, err)
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("history: failed to create zstd writer: %w", err)
	}

	for _, sample := range samples {
		line, err := json.Marshal(sample)
		if err != nil {
			enc.Close()
			return fmt.Errorf("history: failed to marshal archived sample %s: %w", sample.ID, err)
		}
		if _, err := enc.Write(append(line, '\n')); err != nil {
			enc.Close()
			return fmt.Errorf("history: failed to write archive frame: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("history: failed to flush archive frame: %w", err)
	}
	return nil
}
