// Package router maps parsed requests to responses.
package router

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yanshuy/http-server/internal/request"
	"github.com/yanshuy/http-server/internal/response"
	"github.com/yanshuy/http-server/internal/status"
)

const (
	echoPrefix  = "/echo/"
	filesPrefix = "/files/"

	textPlain   = "text/plain"
	octetStream = "application/octet-stream"
)

type Router struct {
	files FileStore
	log   zerolog.Logger
}

func New(files FileStore, log zerolog.Logger) *Router {
	return &Router{files: files, log: log}
}

// Dispatch never fails: every outcome, including filesystem errors, is a
// response. The request's Connection header is carried over so the
// connection loop can decide whether to keep the socket.
func (rt *Router) Dispatch(r *request.Request) *response.Response {
	resp := rt.route(r)
	if conn, ok := r.Connection(); ok {
		resp.Connection = conn
	}
	return resp
}

func (rt *Router) route(r *request.Request) *response.Response {
	target := r.Target
	switch {
	case target == "/":
		resp := response.NewResponse(status.OK)
		resp.ContentEncoding = r.Encoding()
		return resp

	case target == "/user-agent":
		return rt.handleText(r, r.UserAgent())

	case strings.HasPrefix(target, echoPrefix):
		return rt.handleText(r, strings.TrimPrefix(target, echoPrefix))

	case strings.HasPrefix(target, filesPrefix):
		name := strings.TrimPrefix(target, filesPrefix)
		switch r.Method {
		case request.GET:
			return rt.handleGetFile(r, name)
		case request.POST:
			return rt.handlePostFile(r, name)
		}
	}
	return response.NewResponse(status.NotFound)
}

func (rt *Router) handleText(r *request.Request, text string) *response.Response {
	resp := response.NewResponse(status.OK)
	resp.SetBody([]byte(text), textPlain)
	resp.ContentEncoding = r.Encoding()
	return resp
}

func (rt *Router) handleGetFile(r *request.Request, name string) *response.Response {
	data, err := rt.files.ReadFile(name)
	if err != nil {
		rt.log.Debug().Err(err).Str("file", name).Msg("file not served")
		return response.NewResponse(status.NotFound)
	}
	resp := response.NewResponse(status.OK)
	resp.SetBody(data, octetStream)
	resp.ContentEncoding = r.Encoding()
	return resp
}

func (rt *Router) handlePostFile(r *request.Request, name string) *response.Response {
	err := rt.files.WriteFile(name, r.Body)
	switch {
	case errors.Is(err, ErrNoDirectory), errors.Is(err, ErrInvalidFileName):
		rt.log.Debug().Err(err).Str("file", name).Msg("file not written")
		return response.NewResponse(status.NotFound)
	case err != nil:
		rt.log.Warn().Err(err).Str("file", name).Msg("file write failed")
		return response.NewResponse(status.InternalServerError)
	}
	return response.NewResponse(status.Created)
}
