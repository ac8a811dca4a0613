package response

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanshuy/http-server/internal/codec"
	"github.com/yanshuy/http-server/internal/status"
)

type parsed struct {
	statusLine string
	headers    map[string]string
	body       string
}

func parseHTTP(raw []byte) parsed {
	parts := strings.SplitN(string(raw), "\r\n\r\n", 2)
	p := parsed{headers: map[string]string{}}
	if len(parts) == 0 || parts[0] == "" {
		return p
	}
	headerBlock := parts[0]
	lines := strings.Split(headerBlock, "\r\n")
	if len(lines) > 0 {
		p.statusLine = lines[0]
		for _, ln := range lines[1:] {
			if ln == "" {
				continue
			}
			kv := strings.SplitN(ln, ":", 2)
			if len(kv) != 2 {
				continue
			}
			k := strings.ToLower(strings.TrimSpace(kv[0]))
			v := strings.TrimSpace(kv[1])
			p.headers[k] = v
		}
	}
	if len(parts) == 2 {
		p.body = parts[1]
	}
	return p
}

func Test_DefaultHeaders(t *testing.T) {
	header, body := Serialize(NewResponse(status.OK))
	assert.Nil(t, body)
	assert.Equal(t,
		"HTTP/1.1 200 OK\r\n"+
			"Content-Type: \r\n"+
			"Content-Encoding: \r\n"+
			"Content-Length: 0\r\n"+
			"Connection: keep-alive\r\n"+
			"\r\n",
		string(header))
}

func Test_ContentLengthResponse(t *testing.T) {
	var buf bytes.Buffer
	w := NewResponseWriter(&buf)
	r := NewResponse(status.OK)
	r.SetBody([]byte("abc123"), "text/plain")
	r.Connection = Close

	n, err := w.WriteResponse(r)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	p := parseHTTP(buf.Bytes())
	assert.Equal(t, "HTTP/1.1 200 OK", p.statusLine)
	assert.Equal(t, "close", p.headers["connection"])
	assert.Equal(t, "text/plain", p.headers["content-type"])
	assert.Equal(t, "6", p.headers["content-length"])
	assert.Equal(t, "", p.headers["content-encoding"])
	assert.Equal(t, "abc123", p.body)
}

func Test_StatusLines(t *testing.T) {
	for _, s := range []status.Status{status.Created, status.NotFound, status.BadRequest, status.InternalServerError} {
		var buf bytes.Buffer
		_, err := NewResponseWriter(&buf).WriteResponse(NewResponse(s))
		require.NoError(t, err)
		assert.Equal(t, s.Line(), parseHTTP(buf.Bytes()).statusLine)
	}
}

func Test_EncodeGzip(t *testing.T) {
	r := NewResponse(status.OK)
	r.SetBody([]byte("hello hello hello"), "text/plain")
	r.ContentEncoding = codec.Gzip
	require.NoError(t, Encode(r))
	assert.Equal(t, len(r.Body), r.ContentLength)

	zr, err := gzip.NewReader(bytes.NewReader(r.Body))
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "hello hello hello", string(plain))

	header, _ := Serialize(r)
	assert.Contains(t, string(header), "Content-Encoding: gzip\r\n")
}

func Test_EncodeWithoutBody(t *testing.T) {
	r := NewResponse(status.OK)
	r.ContentEncoding = codec.Gzip
	require.NoError(t, Encode(r))
	assert.Nil(t, r.Body)
	assert.Equal(t, 0, r.ContentLength)

	header, _ := Serialize(r)
	p := parseHTTP(header)
	assert.Equal(t, "gzip", p.headers["content-encoding"])
	assert.Equal(t, "0", p.headers["content-length"])
}

func Test_EncodeNone(t *testing.T) {
	r := NewResponse(status.OK)
	r.SetBody([]byte("abc"), "text/plain")
	require.NoError(t, Encode(r))
	assert.Equal(t, "abc", string(r.Body))
	assert.Equal(t, 3, r.ContentLength)
}

func Test_ShouldClose(t *testing.T) {
	r := NewResponse(status.OK)
	assert.False(t, r.ShouldClose())
	r.Connection = KeepAlive
	assert.False(t, r.ShouldClose())
	r.Connection = "Close"
	assert.True(t, r.ShouldClose())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func Test_WriteFailure(t *testing.T) {
	r := NewResponse(status.OK)
	r.SetBody([]byte("x"), "text/plain")
	_, err := NewResponseWriter(failingWriter{}).WriteResponse(r)
	assert.Error(t, err)
}
