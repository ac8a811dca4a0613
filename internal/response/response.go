package response

import (
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/yanshuy/http-server/internal/codec"
	"github.com/yanshuy/http-server/internal/status"
)

const (
	ContentType     = "Content-Type"
	ContentEncoding = "Content-Encoding"
	ContentLength   = "Content-Length"
	Connection      = "Connection"
)

const (
	KeepAlive = "keep-alive"
	Close     = "close"
)

// Headers holds the only fields a response ever carries. Zero values are
// serialized as empty, 0 and keep-alive respectively.
type Headers struct {
	ContentType     string
	ContentLength   int
	ContentEncoding codec.Encoding
	Connection      string
}

type Response struct {
	Status status.Status
	Headers
	// Body is nil when the response has no body.
	Body []byte
}

func NewResponse(s status.Status) *Response {
	return &Response{Status: s}
}

// SetBody sets body and keeps Content-Length in step with it.
func (r *Response) SetBody(body []byte, contentType string) {
	r.Body = body
	r.ContentLength = len(body)
	r.ContentType = contentType
}

// ShouldClose reports whether the connection ends after this response.
func (r *Response) ShouldClose() bool {
	return strings.EqualFold(strings.TrimSpace(r.Connection), Close)
}

// Encode compresses the body with the response's content-encoding and
// rewrites Content-Length. It must run exactly once, before Serialize. A
// response without a body keeps its Content-Encoding header and is left
// untouched otherwise.
func Encode(r *Response) error {
	if r.ContentEncoding == codec.None || r.Body == nil {
		return nil
	}
	encoded, err := codec.Compress(r.ContentEncoding, r.Body)
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.ContentEncoding, err)
	}
	r.Body = encoded
	r.ContentLength = len(encoded)
	return nil
}

// Serialize renders the status line and header block, and returns the body
// bytes alongside it.
func Serialize(r *Response) (header []byte, body []byte) {
	conn := r.Connection
	if conn == "" {
		conn = KeepAlive
	}

	header = fmt.Appendf(header, "%s\r\n", r.Status.Line())
	header = fmt.Appendf(header, "%s: %s\r\n", ContentType, r.ContentType)
	header = fmt.Appendf(header, "%s: %s\r\n", ContentEncoding, r.ContentEncoding)
	header = fmt.Appendf(header, "%s: %d\r\n", ContentLength, r.ContentLength)
	header = fmt.Appendf(header, "%s: %s\r\n", Connection, conn)
	header = fmt.Append(header, "\r\n")
	return header, r.Body
}

type Writer struct {
	writer io.Writer
}

func NewResponseWriter(w io.Writer) *Writer {
	return &Writer{writer: w}
}

// WriteResponse serializes r and writes header then body as one vectored
// write.
func (w *Writer) WriteResponse(r *Response) (int64, error) {
	header, body := Serialize(r)
	bufs := net.Buffers{header}
	if len(body) > 0 {
		bufs = append(bufs, body)
	}
	return bufs.WriteTo(w.writer)
}
