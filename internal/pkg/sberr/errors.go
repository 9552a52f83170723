package sberr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeClockUnavailable    = "CLOCK_UNAVAILABLE"
	CodeInternalError       = "INTERNAL_ERROR"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = New(fiber.StatusNotFound, CodeNotFound, "resource not found with given parameters")

	// ErrInvalidReq is returned when a request is invalid.
	ErrInvalidReq = New(fiber.StatusBadRequest, CodeInvalidRequest, "invalid request: some or all request parameters are invalid")

	// ErrUpstreamUnavailable is returned when there is no snapshot to serve
	// because the lab API could not be reached.
	ErrUpstreamUnavailable = New(fiber.StatusServiceUnavailable, CodeUpstreamUnavailable, "upstream production data is unavailable")

	// ErrClockUnavailable is returned when the plant clock or timezone cannot be resolved.
	ErrClockUnavailable = New(fiber.StatusServiceUnavailable, CodeClockUnavailable, "plant clock is unavailable")

	// ErrInternalError is returned when an internal error occurs.
	ErrInternalError = New(fiber.StatusInternalServerError, CodeInternalError, "internal server error occurred")
)

type Extras map[string]interface{}

type BoardError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Extras     *Extras
}

func New(statusCode int, errorCode string, message string) *BoardError {
	return &BoardError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

func (e BoardError) Msg(format string, parts ...interface{}) *BoardError {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

func (e BoardError) WithExtras(extras Extras) *BoardError {
	e.Extras = &extras
	return &e
}

func NewInvalidViolations(violations interface{}) *BoardError {
	e := *ErrInvalidReq
	e.Extras = &Extras{
		"violations": violations,
	}
	return &e
}

func (e *BoardError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}
