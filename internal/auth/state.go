package auth

import "fmt"

// AuthStatus enumerates the phases of a sign-in attempt.
type AuthStatus int

const (
	StatusIdle AuthStatus = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s AuthStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("AuthStatus(%d)", int(s))
	}
}

// AuthState is the observable authentication state.
// UserID is set on success, Message on error.
type AuthState struct {
	Status  AuthStatus
	UserID  string
	Message string
}

func Idle() AuthState { return AuthState{Status: StatusIdle} }
func Loading() AuthState { return AuthState{Status: StatusLoading} }
func Succeeded(userID string) AuthState { return AuthState{Status: StatusSuccess, UserID: userID} }
func Failed(msg string) AuthState { return AuthState{Status: StatusError, Message: msg} }

// Settled reports whether the state is a final outcome of a sign-in attempt.
func (s AuthState) Settled() bool {
	return s.Status == StatusSuccess || s.Status == StatusError
}

// ResultKind enumerates the outcomes of an administrative operation.
type ResultKind int

const (
	ResultLoading ResultKind = iota
	ResultSuccess
	ResultError
	ResultUnauthorized
)

func (k ResultKind) String() string {
	switch k {
	case ResultLoading:
		return "loading"
	case ResultSuccess:
		return "success"
	case ResultError:
		return "error"
	case ResultUnauthorized:
		return "unauthorized"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// OperationResult carries the outcome of an operation. Data is meaningful only
// for ResultSuccess and Message only for ResultError.
type OperationResult[T any] struct {
	Kind    ResultKind
	Data    T
	Message string
}

func Pending[T any]() OperationResult[T] { return OperationResult[T]{Kind: ResultLoading} }
func Success[T any](data T) OperationResult[T] { return OperationResult[T]{Kind: ResultSuccess, Data: data} }
func Unauthorized[T any]() OperationResult[T] { return OperationResult[T]{Kind: ResultUnauthorized} }

func Errorf[T any](format string, args ...any) OperationResult[T] {
	return OperationResult[T]{Kind: ResultError, Message: fmt.Sprintf(format, args...)}
}

// Done reports whether the result is terminal.
func (r OperationResult[T]) Done() bool { return r.Kind != ResultLoading }
