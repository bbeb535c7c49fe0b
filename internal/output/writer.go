package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// Stdout is the Open name that selects standard output.
const Stdout = "-"

// Writer streams records as NDJSON, one line per endpoint.
type Writer struct {
	mu        sync.Mutex
	encoder   *json.Encoder
	count     int
	closeFunc func() error
}

// NewWriter creates a writer on w. Closing it leaves w open.
func NewWriter(w io.Writer) *Writer {
	return &Writer{encoder: json.NewEncoder(w)}
}

// NewFileWriter appends to filename, creating it if needed, so a resumed
// run extends the stream of the run it continues.
func NewFileWriter(filename string) (*Writer, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}

	w := NewWriter(file)
	w.closeFunc = file.Close
	return w, nil
}

// Open returns a writer for name: Stdout selects standard output, which is
// left open on Close; anything else is a file path.
func Open(name string) (*Writer, error) {
	if name == Stdout {
		return NewWriter(os.Stdout), nil
	}
	return NewFileWriter(name)
}

// Write encodes record as a single line. A record without a payload is
// written with "data": null.
func (w *Writer) Write(record Record) error {
	if len(record.Data) == 0 {
		record.Data = nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to write record for %s: %w", record.URL, err)
	}
	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close releases the file behind the writer. It is safe to call twice.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closeFunc == nil {
		return nil
	}
	err := w.closeFunc()
	w.closeFunc = nil
	return err
}
