package baas

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Error is any failure reported by the hosted backend.
type Error struct {
	Status  int
	Code    string
	Message string
	Hint    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("baas: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("baas: %d: %s", e.Status, e.Message)
}

// errorBody covers both the REST ({code, message, hint}) and the auth
// ({error, error_description} or {error_code, msg}) error shapes.
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Message          string          `json:"message"`
	Msg              string          `json:"msg"`
	Err              string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
	Hint             string          `json:"hint"`
}

func decodeError(status int, raw []byte) error {
	e := &Error{Status: status}

	var body errorBody
	if json.Unmarshal(raw, &body) != nil {
		e.Message = strings.TrimSpace(string(raw))
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
		return e
	}

	if body.ErrorCode != "" {
		e.Code = body.ErrorCode
	} else if s, err := strconv.Unquote(string(body.Code)); err == nil && s != "" {
		e.Code = s
	} else if body.Err != "" {
		e.Code = body.Err
	}

	for _, m := range []string{body.Message, body.Msg, body.ErrorDescription, body.Err} {
		if m != "" {
			e.Message = m
			break
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	e.Hint = body.Hint
	return e
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func messageContains(e *Error, needles ...string) bool {
	text := strings.ToLower(e.Message + " " + e.Hint)
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// IsMissingTable reports a relation that does not exist on the backend.
func IsMissingTable(err error) bool {
	e, ok := asError(err)
	if !ok {
		return false
	}
	return e.Code == "42P01" || e.Code == "PGRST205" ||
		messageContains(e, "does not exist", "could not find the table")
}

// IsPermissionDenied reports a request rejected by access rules.
func IsPermissionDenied(err error) bool {
	e, ok := asError(err)
	if !ok {
		return false
	}
	return e.Code == "42501" || e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden ||
		messageContains(e, "permission denied", "row-level security")
}

func IsRateLimited(err error) bool {
	e, ok := asError(err)
	if !ok {
		return false
	}
	return e.Status == http.StatusTooManyRequests || e.Code == "over_request_rate_limit" ||
		messageContains(e, "rate limit", "too many requests")
}

func IsInvalidCredentials(err error) bool {
	e, ok := asError(err)
	if !ok {
		return false
	}
	return e.Code == "invalid_credentials" || e.Code == "invalid_grant" ||
		messageContains(e, "invalid login credentials")
}
