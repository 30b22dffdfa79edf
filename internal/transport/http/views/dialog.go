package views

import (
	"io"
	"sync"

	"hrportal/internal/domain/permerror"
)

// PermissionDialog renders a translated permission error. It is a pure
// function of the error and a dismiss callback; dismissal fires the
// callback at most once no matter how many gestures arrive. The
// overlay element, not the dialog body, carries the data-dismiss
// marker so inside clicks never close the dialog.
type PermissionDialog struct {
	Message             string
	UserRoles           []string
	RequiredRoles       []string
	RequiredPermissions []string
	UserDepartment      string

	onClose func()
	once    sync.Once
}

// NewPermissionDialog returns nil when there is nothing to show:
// either no error, or one that is not a PermissionDenied condition.
// Callers can hand the nil straight to the page template; no empty
// dialog is ever rendered.
func NewPermissionDialog(err *permerror.PermissionError, onClose func()) *PermissionDialog {
	if !err.IsPermissionDenied() {
		return nil
	}
	return &PermissionDialog{
		Message:             err.DisplayMessage(),
		UserRoles:           err.UserRoles,
		RequiredRoles:       err.RequiredRoles,
		RequiredPermissions: err.RequiredPermissions,
		UserDepartment:      err.UserDepartment,
		onClose:             onClose,
	}
}

func (d *PermissionDialog) Render(w io.Writer) error {
	return templates.ExecuteTemplate(w, "permission_dialog", d)
}

// Dismiss invokes the close callback exactly once.
func (d *PermissionDialog) Dismiss() {
	d.once.Do(func() {
		if d.onClose != nil {
			d.onClose()
		}
	})
}
