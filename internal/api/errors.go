package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/md3fix/pkg/md3"
)

var (
	ErrEmptyBody    = errors.New("request body is empty")
	ErrBodyTooLarge = errors.New("request body too large")
)

// ResponseError is the body of every error response.
type ResponseError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps a patch or decode failure to an HTTP status and error type.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrEmptyBody):
		return http.StatusBadRequest, "invalid_request_error"
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge, "request_too_large"
	case errors.Is(err, md3.ErrMalformedLayout):
		return http.StatusUnprocessableEntity, "malformed_layout"
	case errors.Is(err, md3.ErrInvalidIdent), errors.Is(err, md3.ErrUnsupportedVersion):
		return http.StatusUnprocessableEntity, "unsupported_model"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "cancelled"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}

func writeError(c *echo.Context, requestID string, err error) error {
	status, errType := statusFor(err)
	return writeJSON(c, status, map[string]any{
		"error": ResponseError{
			Message:   err.Error(),
			Type:      errType,
			RequestID: requestID,
		},
	})
}

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Blob(status, echo.MIMEApplicationJSON, b)
}
