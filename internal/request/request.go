package request

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yanshuy/http-server/internal/codec"
	"github.com/yanshuy/http-server/internal/headers"
)

var Crlf = []byte("\r\n")
var CrlfLen = len(Crlf)

// Terminator ends the header block.
var Terminator = []byte("\r\n\r\n")

const (
	DefaultMaxHeaderBytes = 64 << 10
	DefaultMaxBodyBytes   = 32 << 20
)

type Verb string

const (
	GET  Verb = "GET"
	POST Verb = "POST"
)

type RequestLine struct {
	Method      Verb
	Target      string
	HttpVersion string
}

type Request struct {
	*RequestLine
	headers.Headers
	Body []byte
}

func NewRequest() *Request {
	return &Request{
		Headers: headers.NewHeaders(),
	}
}

func (r *Request) UserAgent() string {
	return r.Headers.GetTest("User-Agent")
}

func (r *Request) ContentType() string {
	return r.Headers.GetTest("Content-Type")
}

// Connection returns the raw Connection header and whether it was sent.
func (r *Request) Connection() (string, bool) {
	return r.Headers.Get("Connection")
}

// Encoding is the response encoding selected by the Accept-Encoding header.
func (r *Request) Encoding() codec.Encoding {
	return codec.Select(r.Headers.GetTest("Accept-Encoding"))
}

// ContentLength returns the declared body length, 0 when absent.
func (r *Request) ContentLength() (int, error) {
	v, ok := r.Headers.Get("Content-Length")
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrInvalidContentLength, v)
	}
	return int(n), nil
}

type parseState int

const (
	StateFraming parseState = iota
	StateStart
	StateHeaders
	StateHeadersDone
	StateBody
	StateDone
)

// Parser turns buffered connection input into one Request at a time. It is
// stateless between calls: each Parse looks at the whole buffer again, so a
// caller just appends newly read bytes and retries.
type Parser struct {
	// MaxHeaderBytes bounds how much input may be buffered without a
	// terminator. Zero means DefaultMaxHeaderBytes.
	MaxHeaderBytes int
	// MaxBodyBytes bounds the declared Content-Length. Zero means
	// DefaultMaxBodyBytes.
	MaxBodyBytes int
}

type requestParser struct {
	*Request
	data          []byte
	currentPos    int
	headerEnd     int
	contentLength int
	state         parseState
}

// Parse is Parser{}.Parse.
func Parse(data []byte) (*Request, int, error) {
	var p Parser
	return p.Parse(data)
}

// Parse returns the first complete request in data and the number of bytes it
// occupies. A nil request with a nil error means data does not yet hold a
// complete request. Bytes past the returned count belong to the next request.
func (p Parser) Parse(data []byte) (*Request, int, error) {
	rp := &requestParser{
		Request: NewRequest(),
		data:    data,
		state:   StateFraming,
	}
	maxHeader := p.MaxHeaderBytes
	if maxHeader <= 0 {
		maxHeader = DefaultMaxHeaderBytes
	}
	maxBody := p.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	if err := rp.parse(maxHeader, maxBody); err != nil {
		return nil, 0, err
	}
	if rp.state != StateDone {
		return nil, 0, nil
	}
	return rp.Request, rp.currentPos, nil
}

func (rp *requestParser) parse(maxHeaderBytes, maxBodyBytes int) error {
	for {
		switch rp.state {
		case StateFraming:
			i := bytes.Index(rp.data, Terminator)
			if i == -1 {
				if len(rp.data) > maxHeaderBytes {
					return ErrHeadersTooLarge
				}
				return nil
			}
			if i+len(Terminator) > maxHeaderBytes {
				return ErrHeadersTooLarge
			}
			rp.headerEnd = i + len(Terminator)
			rp.state = StateStart

		case StateStart:
			i := bytes.Index(rp.data, Crlf)
			reqline, err := parseRequestLine(rp.data[:i])
			if err != nil {
				return err
			}
			rp.RequestLine = reqline
			rp.currentPos = i + CrlfLen
			rp.state = StateHeaders

		case StateHeaders:
			// the terminator guarantees the empty line is inside headerEnd
			n, _ := rp.Headers.Parse(rp.data[rp.currentPos:rp.headerEnd])
			rp.currentPos += n
			rp.state = StateHeadersDone

		case StateHeadersDone:
			contLen, err := rp.ContentLength()
			if err != nil {
				return err
			}
			if contLen > maxBodyBytes {
				return fmt.Errorf("%w: %d > %d", ErrBodyTooLarge, contLen, maxBodyBytes)
			}
			rp.contentLength = contLen
			rp.state = StateBody

		case StateBody:
			end := rp.currentPos + rp.contentLength
			if len(rp.data) < end {
				return nil
			}
			rp.Body = make([]byte, rp.contentLength)
			copy(rp.Body, rp.data[rp.currentPos:end])
			rp.currentPos = end
			rp.state = StateDone

		case StateDone:
			return nil
		}
	}
}

func parseRequestLine(line []byte) (*RequestLine, error) {
	parts := strings.Fields(string(line))
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w %q", ErrMalformedRequestLine, line)
	}

	verb := Verb(parts[0])
	if !IsVerbSupported(verb) {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedVerb, parts[0])
	}

	return &RequestLine{
		Method:      verb,
		Target:      parts[1],
		HttpVersion: parts[2],
	}, nil
}

func IsVerbSupported(v Verb) bool {
	return v == GET || v == POST
}

// ErrMalformedRequest is matched by every parse failure.
var ErrMalformedRequest = errors.New("malformed request")

var (
	ErrMalformedRequestLine = fmt.Errorf("%w: bad request line", ErrMalformedRequest)
	ErrUnsupportedVerb      = fmt.Errorf("%w: unsupported verb", ErrMalformedRequest)
	ErrInvalidContentLength = fmt.Errorf("%w: invalid content length", ErrMalformedRequest)
	ErrHeadersTooLarge      = fmt.Errorf("%w: header block too large", ErrMalformedRequest)
	ErrBodyTooLarge         = fmt.Errorf("%w: body too large", ErrMalformedRequest)
)
