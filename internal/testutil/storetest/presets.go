package storetest

import "github.com/SoloveyLS/xml-prompt-manager/internal/templates"

// WithStandardTemplates adds two structures and two fields, all valid.
func (b *Builder) WithStandardTemplates() *Builder {
	return b.
		WithStructure("Code Review",
			"<review>\n    <code></code>\n    <focus>correctness</focus>\n</review>").
		WithStructure("Summary",
			"<task>\n    <text></text>\n    <length>three sentences</length>\n</task>").
		WithField("Example", "<example></example>").
		WithField("Constraint", "<constraint>Answer in English.</constraint>")
}

// WithBrokenTemplates adds content that fails validation for its kind, as
// an import can leave behind.
func (b *Builder) WithBrokenTemplates() *Builder {
	return b.
		WithTemplate(templates.Structure, "Unclosed", Content("<a><b></b>")).
		WithTemplate(templates.Field, "Two Roots", Content("<a></a><b></b>"))
}
