// Package codec selects and applies response content-encodings.
package codec

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"strings"
)

type Encoding int

const (
	None Encoding = iota
	Gzip
)

func (e Encoding) String() string {
	switch e {
	case Gzip:
		return "gzip"
	default:
		return ""
	}
}

// Select maps an Accept-Encoding value to the encoding the server will use.
// Any value mentioning gzip selects Gzip; q-values and token order are not
// considered.
func Select(acceptEncoding string) Encoding {
	if strings.Contains(acceptEncoding, "gzip") {
		return Gzip
	}
	return None
}

// Compress returns body encoded with e. None returns body unchanged.
func Compress(e Encoding, body []byte) ([]byte, error) {
	switch e {
	case None:
		return body, nil
	case Gzip:
		return gzipBytes(body)
	default:
		return nil, fmt.Errorf("unknown encoding %d", e)
	}
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("gzip write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}
	return buf.Bytes(), nil
}
