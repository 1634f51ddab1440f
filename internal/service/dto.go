package service

import (
	"fmt"

	"postgraph/pkg/pagination"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 250
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type CreatePostRequest struct {
	AuthorID int64  `validate:"required,gt=0"`
	Title    string `validate:"required,max=255"`
	Content  string `validate:"required"`
}

type CreateUserRequest struct {
	Email     string `validate:"required,email"`
	Firstname string `validate:"max=100"`
	Lastname  string `validate:"max=100"`
}

// PostOrder is a sort request as it comes from the API, e.g. {Field: "createdAt", Desc: true}.
type PostOrder struct {
	Field string
	Desc  bool
}

type PublishedPostsRequest struct {
	Page    pagination.Args
	Query   string
	OrderBy *PostOrder
}

// Limits bounds page sizes.
type Limits struct {
	Default int
	Max     int
}

func DefaultLimits() Limits {
	return Limits{Default: DefaultPageSize, Max: MaxPageSize}
}

// window resolves args into a page window. Unset limits fall back to
// DefaultPageSize and MaxPageSize.
func (l Limits) window(args pagination.Args) (pagination.Window, error) {
	if l.Max <= 0 {
		l.Max = MaxPageSize
	}
	if l.Default <= 0 {
		l.Default = DefaultPageSize
	}
	l.Default = min(l.Default, l.Max)
	return args.Window(l.Default, l.Max)
}

func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

func validateID(name string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%s must be > 0: %w", name, ErrInvalidRequest)
	}
	return nil
}
