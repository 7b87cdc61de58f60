package stream

import (
	"bufio"
	"io"
	"strings"
)

// Reader reads SSE data payloads from an io.Reader.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader creates a new SSE reader.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 256*1024), 1024*1024)
	return &Reader{scanner: scanner}
}

// Next returns the next SSE data payload. Returns io.EOF when the stream
// ends or the terminal [DONE] sentinel arrives. Non-data lines are skipped.
func (r *Reader) Next() ([]byte, error) {
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(line[len("data:"):])
		if data == "" {
			continue
		}
		if data == "[DONE]" {
			return nil, io.EOF
		}
		return []byte(data), nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
