// Package views renders the portal's HTML: page shells, the
// permission-denied dialog and the terse access-denied notice. Page
// layouts are deliberately bare; the contract here is which sections
// render, not how they look.
package views

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("portal").ParseFS(templateFS, "templates/*.html"))

// PageData is shared by every page template.
type PageData struct {
	Title    string
	Greeting string
	Error    string
	Dialog   *PermissionDialog
	Sections []Section
	Items    []ListItem
	Action   string
	Fields   []FormField
}

type Section struct {
	Label string
	Href  string
}

type ListItem struct {
	Primary   string
	Secondary string
}

type FormField struct {
	Label string
	Name  string
	Type  string
}

func RenderPage(w io.Writer, name string, data PageData) error {
	return templates.ExecuteTemplate(w, name, data)
}

type accessDeniedData struct {
	Resource string
}

// RenderAccessDenied writes the minimal notice used for client-side
// guard denials. Distinct from the permission dialog on purpose: the
// rich dialog is reserved for server-reported denials.
func RenderAccessDenied(w io.Writer, resource string) error {
	return templates.ExecuteTemplate(w, "access_denied", accessDeniedData{Resource: resource})
}
