package permerror

import (
	"fmt"
	"testing"
)

func TestTranslateIgnoresNonForbidden(t *testing.T) {
	body := []byte(`{"detail":"nope","required_roles":["Super Admin"]}`)
	for _, status := range []int{200, 400, 401, 404, 500} {
		if translated, handled := Translate(status, body); handled || translated != nil {
			t.Fatalf("status %d: expected (nil, false), got (%v, %v)", status, translated, handled)
		}
	}
}

func TestTranslateEmptyBodyDefaults(t *testing.T) {
	translated, handled := Translate(403, nil)
	if !handled || translated == nil {
		t.Fatal("403 must always translate")
	}
	if translated.Detail != DefaultDetail {
		t.Fatalf("detail = %q", translated.Detail)
	}
	if translated.ErrorType != TypePermissionDenied {
		t.Fatalf("errorType = %q", translated.ErrorType)
	}
	if translated.Message != "" || translated.UserDepartment != "" {
		t.Fatal("optional strings should stay empty")
	}
	if translated.RequiredRoles != nil || translated.RequiredPermissions != nil || translated.UserRoles != nil {
		t.Fatal("optional sequences should stay absent")
	}
	if !translated.IsPermissionDenied() {
		t.Fatal("expected PermissionDenied condition")
	}
}

func TestTranslateMalformedBodyDefaults(t *testing.T) {
	translated, handled := Translate(403, []byte(`{"detail": broken`))
	if !handled {
		t.Fatal("403 with malformed body must still translate")
	}
	if translated.Detail != DefaultDetail || translated.ErrorType != TypePermissionDenied {
		t.Fatalf("defaults not applied: %+v", translated)
	}
}

func TestTranslatePassesFieldsThrough(t *testing.T) {
	body := []byte(`{
		"detail": "Department scope required.",
		"message": "Ask your department head.",
		"error_type": "DepartmentScope",
		"required_roles": ["Super Admin", "HR Manager"],
		"required_permissions": ["authentication.manage_employees"],
		"user_roles": ["Employee"],
		"user_department": "Engineering"
	}`)
	translated, handled := Translate(403, body)
	if !handled {
		t.Fatal("expected translation")
	}
	if translated.Detail != "Department scope required." {
		t.Fatalf("detail = %q", translated.Detail)
	}
	if translated.Message != "Ask your department head." {
		t.Fatalf("message = %q", translated.Message)
	}
	if translated.ErrorType != "DepartmentScope" {
		t.Fatalf("errorType = %q", translated.ErrorType)
	}
	if len(translated.RequiredRoles) != 2 || translated.RequiredRoles[0] != "Super Admin" || translated.RequiredRoles[1] != "HR Manager" {
		t.Fatalf("required roles order not preserved: %v", translated.RequiredRoles)
	}
	if len(translated.UserRoles) != 1 || translated.UserRoles[0] != "Employee" {
		t.Fatalf("user roles = %v", translated.UserRoles)
	}
	if translated.UserDepartment != "Engineering" {
		t.Fatalf("department = %q", translated.UserDepartment)
	}
	if got := translated.DisplayMessage(); got != "Ask your department head." {
		t.Fatalf("display message = %q", got)
	}
}

type fakeAPIError struct {
	status int
	body   []byte
}

func (e *fakeAPIError) Error() string        { return fmt.Sprintf("upstream %d", e.status) }
func (e *fakeAPIError) HTTPStatus() int      { return e.status }
func (e *fakeAPIError) ResponseBody() []byte { return e.body }

func TestTranslateError(t *testing.T) {
	inner := &fakeAPIError{status: 403, body: []byte(`{"detail":"denied"}`)}
	translated, handled := TranslateError(fmt.Errorf("list employees: %w", inner))
	if !handled {
		t.Fatal("wrapped API error should translate")
	}
	if translated.Detail != "denied" {
		t.Fatalf("detail = %q", translated.Detail)
	}

	if _, handled := TranslateError(fmt.Errorf("plain failure")); handled {
		t.Fatal("non-HTTP error must not translate")
	}

	if _, handled := TranslateError(fmt.Errorf("wrap: %w", &fakeAPIError{status: 500})); handled {
		t.Fatal("500 must not translate")
	}
}
