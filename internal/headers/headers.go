package headers

import (
	"bytes"
	"errors"
	"strings"
)

var Crlf = []byte("\r\n")
var CrlfLen = len(Crlf)

var separator = []byte(": ")

// Headers maps lower-cased field names to their raw value. A repeated field
// replaces the earlier value.
type Headers map[string]string

func NewHeaders() Headers {
	return make(Headers)
}

func (h Headers) Get(key string) (string, bool) {
	val, ok := h[strings.ToLower(key)]
	return val, ok
}

func (h Headers) GetTest(key string) string {
	return h[strings.ToLower(key)]
}

func (h Headers) Set(key, val string) {
	h[strings.ToLower(key)] = val
}

func (h Headers) Del(key string) {
	delete(h, strings.ToLower(key))
}

// Parse consumes header lines up to and including the empty line that ends
// the block. Lines without a ": " separator are skipped. It reports how many
// bytes were consumed and whether the empty line was reached.
func (h Headers) Parse(data []byte) (n int, done bool) {
	read := 0
	for {
		i := bytes.Index(data, Crlf)
		if i == -1 {
			return read, false
		}
		if i == 0 {
			read += CrlfLen
			return read, true
		}
		line := data[:i]
		lineLen := i + CrlfLen
		data = data[lineLen:]
		read += lineLen
		if err := h.ParseHeaderLine(line); err != nil {
			// not a "name: value" line, skip it
			continue
		}
	}
}

// ParseHeaderLine splits line once on ": " and stores the pair. The value is
// kept verbatim.
func (h Headers) ParseHeaderLine(line []byte) error {
	name, val, found := bytes.Cut(line, separator)
	if !found || len(name) == 0 {
		return ErrMalformedRequestHeader
	}
	h.Set(string(name), string(val))
	return nil
}

var ErrMalformedRequestHeader = errors.New("malformed request header")
