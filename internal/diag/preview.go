package diag

import (
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/n0madic/go-thinkgate/internal/stream"
)

// previewChunkLimit bounds how many SSE payloads the preview inspects
// before detaching from the stream.
const previewChunkLimit = 20

// PreviewResponse arranges a best-effort, non-consuming preview of a live
// response stream. The body is replaced with a tee: the real consumer reads
// it exactly as before while a detached goroutine inspects a bounded number
// of SSE chunks and mirrors role/content/reasoning/finish-reason previews
// to the log. The preview never delays the caller, never double-consumes
// the stream, and releases its side of the tee once done.
func (l *Logger) PreviewResponse(resp *http.Response, id uint64) {
	if l == nil || resp == nil || resp.Body == nil {
		return
	}
	p := &previewBody{
		src:    resp.Body,
		chunks: make(chan []byte, 32),
	}
	resp.Body = p
	go l.runPreview(p, id)
}

// previewBody tees read bytes into a bounded channel. Sends never block:
// when the preview falls behind, chunks are dropped rather than stalling
// the real consumer.
type previewBody struct {
	src     io.ReadCloser
	chunks  chan []byte
	done    atomic.Bool
	closeCh sync.Once
}

func (p *previewBody) Read(buf []byte) (int, error) {
	n, err := p.src.Read(buf)
	if n > 0 && !p.done.Load() {
		chunk := make([]byte, n)
		copy(chunk, buf[:n])
		select {
		case p.chunks <- chunk:
		default:
			// Preview is behind; drop rather than block the consumer.
		}
	}
	if err != nil {
		p.finish()
	}
	return n, err
}

func (p *previewBody) Close() error {
	p.finish()
	return p.src.Close()
}

func (p *previewBody) finish() {
	p.closeCh.Do(func() { close(p.chunks) })
}

// detach stops the tee from copying further bytes and drains pending
// chunks so the Read path never blocks on an abandoned channel.
func (p *previewBody) detach() {
	p.done.Store(true)
	go func() {
		for range p.chunks {
		}
	}()
}

// runPreview consumes teed chunks, parses completed SSE payloads and logs
// previews. All failures are logged and swallowed.
func (p *previewBody) run(l *Logger, id uint64) {
	r := stream.NewReader(&chanReader{chunks: p.chunks})
	seen := 0
	for seen < previewChunkLimit {
		payload, err := r.Next()
		if err != nil {
			if err != io.EOF {
				l.Printf("response #%d preview read error: %v", id, err)
			}
			return
		}
		preview, ok := stream.ParseChunk(payload)
		if !ok || preview.Empty() {
			continue
		}
		seen++
		if preview.Role != "" {
			l.Printf("response #%d role: %s", id, preview.Role)
		}
		if preview.Content != "" {
			l.Printf("response #%d content: %s", id, truncate(preview.Content, 200))
		}
		if preview.Reasoning != "" {
			l.Printf("response #%d reasoning: %s", id, truncate(preview.Reasoning, 200))
		}
		if preview.FinishReason != "" {
			l.Printf("response #%d finish: %s", id, preview.FinishReason)
			return
		}
	}
}

func (l *Logger) runPreview(p *previewBody, id uint64) {
	defer p.detach()
	p.run(l, id)
}

// chanReader adapts the chunk channel to io.Reader for the SSE reader.
type chanReader struct {
	chunks  <-chan []byte
	pending []byte
}

func (c *chanReader) Read(buf []byte) (int, error) {
	for len(c.pending) == 0 {
		chunk, ok := <-c.chunks
		if !ok {
			return 0, io.EOF
		}
		c.pending = chunk
	}
	n := copy(buf, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
