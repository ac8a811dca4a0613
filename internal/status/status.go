package status

import "fmt"

type Status int

const (
	OK                  Status = 200
	Created             Status = 201
	BadRequest          Status = 400
	NotFound            Status = 404
	InternalServerError Status = 500
)

func (s Status) Code() int {
	return int(s)
}

func (s Status) Reason() string {
	switch s {
	case OK:
		return "OK"
	case Created:
		return "Created"
	case BadRequest:
		return "Bad Request"
	case NotFound:
		return "Not Found"
	case InternalServerError:
		return "Internal Server Error"
	default:
		return ""
	}
}

// Line returns the status line without its trailing CRLF.
func (s Status) Line() string {
	return fmt.Sprintf("HTTP/1.1 %d %s", s.Code(), s.Reason())
}

func (s Status) String() string {
	return s.Line()
}
