package templates

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// App identifies export files written by this program and its predecessor.
const App = "xml-prompt-builder"

// EnvelopeVersion is the export format version.
const EnvelopeVersion = 1

var (
	// ErrNotExport is returned for JSON that is not an export file.
	ErrNotExport = errors.New("This file does not look like an XML Prompt Builder export.") //nolint:staticcheck // shown verbatim
	// ErrInvalidJSON is returned when the import file does not parse.
	ErrInvalidJSON = errors.New("Could not import file: invalid JSON format.") //nolint:staticcheck // shown verbatim
)

// Envelope is the export file layout.
type Envelope struct {
	App        string            `json:"app"`
	Version    int               `json:"version"`
	ExportedAt time.Time         `json:"exportedAt"`
	Templates  EnvelopeTemplates `json:"templates"`
	Session    *EnvelopeSession  `json:"session,omitempty"`
}

// EnvelopeTemplates maps template names to content, per kind.
type EnvelopeTemplates struct {
	Structures map[string]string `json:"structures"`
	Fields     map[string]string `json:"fields"`
}

// EnvelopeSession is the editor state carried in an export.
type EnvelopeSession struct {
	EditorContent string `json:"editorContent"`
	ActiveTab     Kind   `json:"activeTab"`
}

// Marshal encodes e with two-space indentation.
func (e *Envelope) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Import is the usable part of an export file. Entries of the wrong JSON
// type are dropped rather than failing the whole import.
type Import struct {
	Structures map[string]string
	Fields     map[string]string

	// Content is nil when the file carries no editor content.
	Content *string
	// ActiveTab is empty unless the file names a known tab.
	ActiveTab Kind
}

type rawEnvelope struct {
	App       string `json:"app"`
	Templates *struct {
		Structures json.RawMessage `json:"structures"`
		Fields     json.RawMessage `json:"fields"`
	} `json:"templates"`
	Session *struct {
		EditorContent json.RawMessage `json:"editorContent"`
		ActiveTab     json.RawMessage `json:"activeTab"`
	} `json:"session"`
}

// ParseImport decodes an export file.
func ParseImport(data []byte) (*Import, error) {
	var raw *rawEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		// A type mismatch still leaves the well-typed fields decoded.
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, ErrInvalidJSON
		}
	}
	if raw == nil || raw.App != App {
		return nil, ErrNotExport
	}

	imp := &Import{}
	if raw.Templates != nil {
		imp.Structures = stringMap(raw.Templates.Structures)
		imp.Fields = stringMap(raw.Templates.Fields)
	}
	if raw.Session != nil {
		var content string
		if json.Unmarshal(raw.Session.EditorContent, &content) == nil && isString(raw.Session.EditorContent) {
			imp.Content = &content
		}
		var tab string
		if json.Unmarshal(raw.Session.ActiveTab, &tab) == nil {
			switch Kind(tab) {
			case Structure, Field:
				imp.ActiveTab = Kind(tab)
			}
		}
	}
	return imp, nil
}

func stringMap(raw json.RawMessage) map[string]string {
	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	out := make(map[string]string, len(values))
	for name, v := range values {
		var s string
		if isString(v) && json.Unmarshal(v, &s) == nil {
			out[name] = s
		}
	}
	return out
}

func isString(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '"'
}
