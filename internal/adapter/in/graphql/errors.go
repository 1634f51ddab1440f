package graphql

import (
	"errors"
	"log/slog"

	"postgraph/internal/service"
	"postgraph/pkg/logger"

	"github.com/graphql-go/graphql"
)

const (
	CodeBadUserInput    = "BAD_USER_INPUT"
	CodeNotFound        = "NOT_FOUND"
	CodeAlreadyLiked    = "ALREADY_LIKED"
	CodeNotLiked        = "NOT_LIKED"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// Error is what clients see: a readable message and a stable code in
// extensions.code.
type Error struct {
	Code    string
	Message string
	err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

func present(err error) *Error {
	var gqlErr *Error
	if errors.As(err, &gqlErr) {
		return gqlErr
	}

	out := &Error{err: err, Message: err.Error()}
	switch {
	case errors.Is(err, service.ErrAlreadyLiked):
		out.Code, out.Message = CodeAlreadyLiked, "post has already been liked"
	case errors.Is(err, service.ErrNotLiked):
		out.Code, out.Message = CodeNotLiked, "post has not been liked"
	case errors.Is(err, service.ErrNotFound):
		out.Code = CodeNotFound
	case errors.Is(err, service.ErrUnauthenticated):
		out.Code, out.Message = CodeUnauthenticated, "authentication required"
	case errors.Is(err, service.ErrInvalidCursor),
		errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, service.ErrInvalidRequest):
		out.Code = CodeBadUserInput
	default:
		out.Code, out.Message = CodeInternal, service.ErrInternalError.Error()
	}
	return out
}

// Interceptor wraps a field resolver.
type Interceptor func(next graphql.FieldResolveFn) graphql.FieldResolveFn

// Chain applies interceptors so that the first one runs outermost.
func Chain(fn graphql.FieldResolveFn, ics ...Interceptor) graphql.FieldResolveFn {
	for i := len(ics) - 1; i >= 0; i-- {
		fn = ics[i](fn)
	}
	return fn
}

// presentErrors turns service errors into client errors. Anything without a
// known kind is logged and hidden behind a generic message.
func presentErrors(next graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		v, err := next(p)
		if err == nil {
			return v, nil
		}
		out := present(err)
		if out.Code == CodeInternal {
			logger.FromContext(p.Context).Error("resolve field",
				slog.String("field", p.Info.FieldName), slog.Any("error", err))
		}
		return nil, out
	}
}
