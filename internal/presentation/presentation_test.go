package presentation

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SoloveyLS/xml-prompt-manager/internal/templates"
	"github.com/SoloveyLS/xml-prompt-manager/internal/validate"
)

func TestFromTemplate(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tmpl := &templates.Template{
		GUID:      "g-1",
		Kind:      templates.Field,
		Name:      "Pair",
		Content:   "<a></a><b></b>",
		CreatedAt: at,
		UpdatedAt: at,
	}

	dto := FromTemplate(tmpl, false)
	require.Equal(t, "field", dto.Kind)
	require.Empty(t, dto.Content)
	require.False(t, dto.Valid, "fields need a single root")
	require.Equal(t, at, dto.CreatedAt)

	require.Equal(t, "<a></a><b></b>", FromTemplate(tmpl, true).Content)
}

func TestFormatter_Templates(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)
	require.NoError(t, f.FormatTemplates(nil))
	require.Equal(t, "[]\n", buf.String())

	buf.Reset()
	list := FromTemplates([]*templates.Template{
		{Kind: templates.Structure, Name: "A", Content: "<a>x < y</a>"},
	}, true)
	require.NoError(t, f.FormatTemplates(list))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "A", got[0]["name"])
	require.Equal(t, "<a>x < y</a>", got[0]["content"])
	require.Contains(t, buf.String(), "<a>", "HTML is not escaped")
}

func TestFormatter_Validations(t *testing.T) {
	var buf bytes.Buffer
	results := []ValidationDTO{
		FromValidation("ok.xml", validate.Result{Valid: true}),
		FromValidation("bad.xml", validate.Result{Err: "Unclosed tags: <a>"}),
	}
	require.NoError(t, NewFormatter(&buf).FormatValidations(results))
	require.JSONEq(t, `[
		{"path": "ok.xml", "valid": true},
		{"path": "bad.xml", "valid": false, "error": "Unclosed tags: <a>"}
	]`, buf.String())
}
