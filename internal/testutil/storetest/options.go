package storetest

import "time"

// templateData holds one row to insert.
type templateData struct {
	kind      string
	name      string
	content   string
	guid      string
	createdAt time.Time
	updatedAt time.Time
}

// TemplateOption adjusts a template row.
type TemplateOption func(*templateData)

// Content sets the template content. It is stored as given, unvalidated.
func Content(content string) TemplateOption {
	return func(d *templateData) { d.content = content }
}

// GUID fixes the row GUID.
func GUID(guid string) TemplateOption {
	return func(d *templateData) { d.guid = guid }
}

// CreatedAt sets the creation time.
func CreatedAt(t time.Time) TemplateOption {
	return func(d *templateData) { d.createdAt = t }
}

// UpdatedAt sets the last update time.
func UpdatedAt(t time.Time) TemplateOption {
	return func(d *templateData) { d.updatedAt = t }
}

// sessionData holds the session row.
type sessionData struct {
	content   string
	activeTab string
	updatedAt time.Time
}
