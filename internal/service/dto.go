package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type RegisterRequest struct {
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Bio      string
}

type CreatePostRequest struct {
	Title   string `validate:"required"`
	Content string `validate:"required"`
	Author  string `validate:"required"`
}

// UpdatePostRequest carries optional fields: nil leaves the stored value
// untouched, a non-nil pointer replaces it even when it points to "".
type UpdatePostRequest struct {
	PostID     int64
	ActingUser string
	Title      *string
	Content    *string
}

type CreateCommentRequest struct {
	PostID     int64
	ActingUser string
	Content    string `validate:"required"`
}

type PostFilter struct {
	Author  string
	Keyword string
}

type PostSearch struct {
	Title   string
	Content string
}

type AccountSearch struct {
	Username string
	Bio      string
}

func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
