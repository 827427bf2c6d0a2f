package httpapi

import "github.com/Ali5829511/wwwr/internal/domain"

// Result response envelope shared by every JSON endpoint.
// - code: 2000 success, -1 failure, 60401 absent or expired session
// - type: 'success' | 'error'
// - kind: machine-readable failure category, empty on success
type Result[T any] struct {
	Code    int         `json:"code"`
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Kind    domain.Kind `json:"kind,omitempty"`
	Result  T           `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
	// ResultTokenExpired sent with HTTP 401; clients redirect to login on it
	ResultTokenExpired = 60401
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}

func FailKind(kind domain.Kind, message string) Result[any] {
	r := Fail(message)
	r.Kind = kind
	return r
}
