package rekuest

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"exusiai.dev/shiftboard/internal/pkg/sberr"
	"exusiai.dev/shiftboard/internal/util"
)

var Validate = util.NewValidator()

type ErrorResponse struct {
	Field     string `json:"field,omitempty"`
	Violation string `json:"violation"`
	Message   string `json:"message"`
}

func violations(ve validator.ValidationErrors) []*ErrorResponse {
	out := make([]*ErrorResponse, 0, len(ve))
	for _, fe := range ve {
		out = append(out, &ErrorResponse{
			Field:     fe.Namespace(),
			Violation: fe.Tag(),
			Message:   fe.Error(),
		})
	}
	return out
}

func ValidStruct(dest any) error {
	err := Validate.Struct(dest)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return sberr.ErrInvalidReq.Msg("invalid request: %s", err)
	}
	return sberr.NewInvalidViolations(violations(ve))
}

// ValidQuery parses the query string into dest and validates it. dest must
// be a pointer.
func ValidQuery(ctx *fiber.Ctx, dest any) error {
	if err := ctx.QueryParser(dest); err != nil {
		return sberr.ErrInvalidReq.Msg("invalid request: %s", err)
	}
	return ValidStruct(dest)
}

func ValidVar(field any, tag string) error {
	err := Validate.Var(field, tag)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return sberr.ErrInvalidReq.Msg("invalid request: %s", err)
	}
	return sberr.NewInvalidViolations(violations(ve))
}

func ValidDate(date string) error {
	return ValidVar(date, "required,isodate")
}
