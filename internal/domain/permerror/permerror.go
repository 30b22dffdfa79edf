// Package permerror translates upstream 403 responses into the
// structured shape the permission-denied dialog renders. It is the
// single parsing chokepoint: every call site that talks to the HR
// backend funnels denied responses through Translate so denials are
// never shown as generic failures.
package permerror

import (
	"encoding/json"
	"net/http"
)

const (
	DefaultDetail        = "You do not have permission to perform this action."
	TypePermissionDenied = "PermissionDenied"
)

// PermissionError is a standalone snapshot of a denied operation. It
// deliberately carries no reference to live session state so the
// dialog stays correct even if the session is cleared while it is on
// screen. Every backend field is optional.
type PermissionError struct {
	StatusCode          int      `json:"statusCode"`
	Detail              string   `json:"detail"`
	Message             string   `json:"message,omitempty"`
	ErrorType           string   `json:"errorType"`
	RequiredRoles       []string `json:"requiredRoles,omitempty"`
	RequiredPermissions []string `json:"requiredPermissions,omitempty"`
	UserRoles           []string `json:"userRoles,omitempty"`
	UserDepartment      string   `json:"userDepartment,omitempty"`
}

func (e *PermissionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Detail
}

// DisplayMessage resolves the text the dialog shows: the optional
// override first, the detail otherwise.
func (e *PermissionError) DisplayMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Detail
}

// IsPermissionDenied reports whether the error qualifies for the rich
// dialog rather than a generic notice.
func (e *PermissionError) IsPermissionDenied() bool {
	return e != nil && e.StatusCode == http.StatusForbidden
}

type responseBody struct {
	Detail              string   `json:"detail"`
	Message             string   `json:"message"`
	ErrorType           string   `json:"error_type"`
	RequiredRoles       []string `json:"required_roles"`
	RequiredPermissions []string `json:"required_permissions"`
	UserRoles           []string `json:"user_roles"`
	UserDepartment      string   `json:"user_department"`
}

// Translate converts a failed HTTP response into a PermissionError.
// Anything other than a 403 returns (nil, false) regardless of body
// shape; the caller applies its own generic handling. A 403 with a
// malformed or empty body still translates, falling back to the
// default detail and error type. Translate has no side effects.
func Translate(status int, body []byte) (*PermissionError, bool) {
	if status != http.StatusForbidden {
		return nil, false
	}

	var parsed responseBody
	if len(body) > 0 {
		// Malformed bodies are treated the same as empty ones.
		_ = json.Unmarshal(body, &parsed)
	}

	out := &PermissionError{
		StatusCode:          status,
		Detail:              parsed.Detail,
		Message:             parsed.Message,
		ErrorType:           parsed.ErrorType,
		RequiredRoles:       parsed.RequiredRoles,
		RequiredPermissions: parsed.RequiredPermissions,
		UserRoles:           parsed.UserRoles,
		UserDepartment:      parsed.UserDepartment,
	}
	if out.Detail == "" {
		out.Detail = DefaultDetail
	}
	if out.ErrorType == "" {
		out.ErrorType = TypePermissionDenied
	}
	return out, true
}

// HTTPResponse is the slice of an upstream error Translate needs.
// upstream.APIError satisfies it.
type HTTPResponse interface {
	HTTPStatus() int
	ResponseBody() []byte
}

// TranslateError runs Translate against any error carrying an HTTP
// status and body. Non-HTTP errors return (nil, false).
func TranslateError(err error) (*PermissionError, bool) {
	var resp HTTPResponse
	if !asHTTPResponse(err, &resp) {
		return nil, false
	}
	return Translate(resp.HTTPStatus(), resp.ResponseBody())
}

func asHTTPResponse(err error, target *HTTPResponse) bool {
	for err != nil {
		if resp, ok := err.(HTTPResponse); ok {
			*target = resp
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
