package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/alfonso816/Tienda/pkg/errors"
)

// remoteError accepts both the {"error":{code,message}} envelope and the
// flat {code,message,details,hint} body returned by PostgREST.
type remoteError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

func (r remoteError) text() string {
	if r.Error != nil && r.Error.Message != "" {
		return r.Error.Message
	}
	if r.Details != "" && r.Message != "" {
		return r.Message + ": " + r.Details
	}
	return r.Message
}

// ResponseError consumes a non-2xx response and maps it onto an AppError.
// Server-side failures become ErrServiceUnavail so callers can tell a down
// collaborator from a bad request.
func ResponseError(resp *http.Response, service string) error {
	defer func() { _ = resp.Body.Close() }()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	msg := ""
	var re remoteError
	if json.Unmarshal(raw, &re) == nil {
		msg = re.text()
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	qualified := fmt.Sprintf("%s: %s", service, msg)

	switch code := resp.StatusCode; {
	case code == http.StatusNotFound:
		return apperrors.NotFound(service, msg)
	case code == http.StatusBadRequest, code == http.StatusUnprocessableEntity:
		return apperrors.InvalidInput(qualified)
	case code == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualified)
	case code == http.StatusForbidden:
		return apperrors.Forbidden(qualified)
	case code == http.StatusConflict:
		return apperrors.Conflict(qualified)
	case code == http.StatusTooManyRequests, code >= http.StatusInternalServerError:
		return apperrors.Unavailable(service+" is unavailable", fmt.Errorf("status %d: %s", code, msg))
	default:
		return fmt.Errorf("%s returned status %d: %s", service, code, msg)
	}
}

// AsUnavailable converts transport failures (including breaker-counted 5xx)
// into ErrServiceUnavail while leaving application errors untouched.
func AsUnavailable(err error, service string) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Unavailable(service+" is unavailable", err)
}
