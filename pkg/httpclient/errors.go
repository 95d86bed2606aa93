package httpclient

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	apperrors "github.com/Maverickd18/Frontend-Perfume-sub000/pkg/errors"
)

// downstreamMessagePaths lists where upstream services put a human message,
// in the order they are tried.
var downstreamMessagePaths = []string{"error.message", "message", "error", "detail"}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an AppError carrying the upstream message. The response body is
// fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}
	return MapStatus(resp.StatusCode, bodyBytes, serviceName)
}

// MapStatus converts an upstream status and body into an AppError.
func MapStatus(status int, body []byte, serviceName string) error {
	code := gjson.GetBytes(body, "error.code").String()
	message := downstreamMessage(body)
	if message == "" {
		message = http.StatusText(status)
	}
	qualifiedMsg := fmt.Sprintf("%s: %s", serviceName, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(serviceName, message)
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualifiedMsg)
	case status == http.StatusConflict:
		return apperrors.Conflict(qualifiedMsg)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualifiedMsg)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(qualifiedMsg)
	case status == http.StatusUnprocessableEntity:
		return apperrors.Unprocessable(qualifiedMsg)
	case status == http.StatusTooManyRequests:
		return apperrors.RateLimited(qualifiedMsg)
	case status == http.StatusServiceUnavailable:
		return &apperrors.AppError{
			Code:    "SERVICE_UNAVAILABLE",
			Message: qualifiedMsg,
			Status:  http.StatusServiceUnavailable,
			Err:     apperrors.ErrServiceUnavail,
		}
	case status >= 500:
		return apperrors.BadGateway(fmt.Sprintf("%s server error (%d/%s): %s", serviceName, status, code, message), nil)
	default:
		if code == "" {
			code = "UPSTREAM_ERROR"
		}
		return &apperrors.AppError{
			Code:    code,
			Message: qualifiedMsg,
			Status:  status,
		}
	}
}

// ClassifyError turns an error from CircuitBreakerClient.Do into an AppError
// when it carries an upstream status; transport failures and open-circuit
// errors are returned unchanged.
func ClassifyError(err error, serviceName string) error {
	var se *StatusError
	if errors.As(err, &se) {
		return MapStatus(se.StatusCode, se.Body, serviceName)
	}
	return err
}

func downstreamMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return string(body)
	}
	for _, path := range downstreamMessagePaths {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}
