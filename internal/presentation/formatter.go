// Package presentation renders command results as JSON.
package presentation

import (
	"encoding/json"
	"io"
)

// Formatter writes indented JSON documents.
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a formatter writing to writer.
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{writer: writer}
}

// FormatTemplates writes a template list. An empty list is written as [].
func (f *Formatter) FormatTemplates(list []TemplateDTO) error {
	if list == nil {
		list = []TemplateDTO{}
	}
	return f.encode(list)
}

// FormatValidations writes per-file validation results.
func (f *Formatter) FormatValidations(results []ValidationDTO) error {
	if results == nil {
		results = []ValidationDTO{}
	}
	return f.encode(results)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}
