package render

import (
	"io"
	"net/http"
)

// StreamingRenderer wraps Renderer with chunked output support.
// It flushes content incrementally for faster time-to-first-byte.
type StreamingRenderer[Msg any] struct {
	*Renderer[Msg]
	flusher http.Flusher
	w       io.Writer
}

// NewStreamingRenderer creates a streaming renderer that writes to w,
// usually an http.ResponseWriter. If w implements http.Flusher, content is
// flushed after the head and after the body.
func NewStreamingRenderer[Msg any](w io.Writer, config RendererConfig) *StreamingRenderer[Msg] {
	flusher, _ := w.(http.Flusher)
	return &StreamingRenderer[Msg]{
		Renderer: NewRenderer[Msg](config),
		flusher:  flusher,
		w:        w,
	}
}

// RenderPage renders a complete HTML document with incremental flushing.
func (s *StreamingRenderer[Msg]) RenderPage(page PageData[Msg]) error {
	ew := &errWriter{w: s.w}
	s.pageStart(ew, page)
	s.flush(ew)
	s.pageBody(ew, page)
	s.flush(ew)
	s.pageEnd(ew, page)
	s.flush(ew)
	return ew.err
}

func (s *StreamingRenderer[Msg]) flush(w *errWriter) {
	if s.flusher != nil && w.err == nil {
		s.flusher.Flush()
	}
}

// FlushableWriter wraps an io.Writer with a flush counter, for exercising
// streaming without an http.ResponseWriter.
type FlushableWriter struct {
	io.Writer
	FlushCount int
}

// Flush implements http.Flusher.
func (w *FlushableWriter) Flush() {
	w.FlushCount++
}
