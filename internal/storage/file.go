package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const maxJournalLine = 10 * 1024 * 1024

// FileRecorder keeps the engagement journal as one JSON object per line.
// A single mutex serialises appends and reads within the process.
type FileRecorder struct {
	path string
	mu   sync.Mutex
}

// NewFileRecorder creates the journal file and its directory when missing.
// An existing journal is left untouched and appended to.
func NewFileRecorder(path string) (*FileRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure journal dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to init journal file: %w", err)
	}
	_ = f.Close()
	return &FileRecorder{path: path}, nil
}

// AppendEvent writes event as a single line at the end of the journal.
// The line is encoded before the file is opened, so an encoding failure
// leaves the journal unchanged.
func (r *FileRecorder) AppendEvent(event Event) error {
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode journal event: %w", err)
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal for append: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("write journal event: %w", err)
	}
	return f.Close()
}

// LoadEvents returns every event in the journal in the order it was
// written. Lines that do not decode are skipped, so a torn final write does
// not hide the rest of the journal. A journal removed since startup (for
// example by log rotation) reads as empty.
func (r *FileRecorder) LoadEvents() ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer func() { _ = f.Close() }()

	var events []Event
	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 64*1024), maxJournalLine)
	for s.Scan() {
		var ev Event
		if len(s.Bytes()) == 0 || json.Unmarshal(s.Bytes(), &ev) != nil {
			continue
		}
		events = append(events, ev)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return events, nil
}
