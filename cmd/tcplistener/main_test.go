package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanshuy/http-server/internal/server"
)

func TestDumpPrintsPipelinedRequests(t *testing.T) {
	in := strings.NewReader("POST /files/a HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello" +
		"GET /echo/x HTTP/1.1\r\nUser-Agent: probe\r\n\r\n")
	var out bytes.Buffer

	err := dump(in, &out)
	require.ErrorIs(t, err, io.EOF)

	got := out.String()
	assert.Contains(t, got, "- Method: POST\n- Target: /files/a\n")
	assert.Contains(t, got, "Body:\nhello\n")
	assert.Contains(t, got, "- Target: /echo/x\n")
	assert.Contains(t, got, "- user-agent: probe\n")
	assert.Equal(t, 2, strings.Count(got, "Request line:"))
}

func TestDumpStopsOnMalformedRequest(t *testing.T) {
	var out bytes.Buffer
	err := dump(strings.NewReader("BREW /pot HTTP/1.1\r\n\r\n"), &out)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
	assert.Empty(t, out.String())
}

func TestDefaultAddrDiffersFromServer(t *testing.T) {
	assert.NotEqual(t, server.DefaultAddr, defaultAddr)
}
