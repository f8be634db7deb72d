package gateway

import "encoding/json"

// Result is the outcome of one gateway call: either success with data or
// failure with a message. The zero value is a failure with no message.
type Result[T any] struct {
	ok      bool
	data    T
	message string
}

func Success[T any](data T, message string) Result[T] {
	return Result[T]{ok: true, data: data, message: message}
}

func Failure[T any](message string) Result[T] {
	return Result[T]{message: message}
}

func (r Result[T]) Ok() bool        { return r.ok }
func (r Result[T]) Data() T         { return r.data }
func (r Result[T]) Message() string { return r.message }

// Unwrap returns the data and whether the call succeeded.
func (r Result[T]) Unwrap() (T, bool) { return r.data, r.ok }

type resultJSON[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data"`
	Message string `json:"message"`
}

// MarshalJSON renders {"success":bool,"data":T|null,"message":string}.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	out := resultJSON[T]{Success: r.ok, Message: r.message}
	if r.ok {
		out.Data = &r.data
	}
	return json.Marshal(out)
}
