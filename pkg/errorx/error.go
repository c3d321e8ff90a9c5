package errorx

import "fmt"

type Code int

type Error struct {
	Code    Code
	Message string
}

func New(code Code, msg string, args ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(msg, args...)}
}

func (e Error) Error() string {
	return e.Message
}
