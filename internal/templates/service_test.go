package templates

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SoloveyLS/xml-prompt-manager/internal/pubsub"
)

// memRepo is an in-memory Repository and SessionRepository.
type memRepo struct {
	nextID    int64
	templates []*Template
	session   *Session
	failSave  error
}

func (m *memRepo) find(kind Kind, name string) int {
	for i, t := range m.templates {
		if t.Kind == kind && t.Name == name {
			return i
		}
	}
	return -1
}

func (m *memRepo) Save(_ context.Context, t *Template) error {
	if m.failSave != nil {
		return m.failSave
	}
	if i := m.find(t.Kind, t.Name); i >= 0 {
		existing := m.templates[i]
		existing.Content = t.Content
		existing.UpdatedAt = t.UpdatedAt
		t.ID, t.GUID, t.CreatedAt = existing.ID, existing.GUID, existing.CreatedAt
		return nil
	}
	m.nextID++
	t.ID = m.nextID
	t.GUID = "guid"
	stored := *t
	m.templates = append(m.templates, &stored)
	return nil
}

func (m *memRepo) FindByName(_ context.Context, kind Kind, name string) (*Template, error) {
	if i := m.find(kind, name); i >= 0 {
		t := *m.templates[i]
		return &t, nil
	}
	return nil, &NotFoundError{Kind: kind, Name: name}
}

func (m *memRepo) List(_ context.Context, kind Kind) ([]*Template, error) {
	var out []*Template
	for _, t := range m.templates {
		if t.Kind == kind {
			c := *t
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memRepo) Delete(_ context.Context, kind Kind, name string) error {
	i := m.find(kind, name)
	if i < 0 {
		return &NotFoundError{Kind: kind, Name: name}
	}
	m.templates = append(m.templates[:i], m.templates[i+1:]...)
	return nil
}

func (m *memRepo) Count(ctx context.Context, kind Kind) (int, error) {
	list, _ := m.List(ctx, kind)
	return len(list), nil
}

func (m *memRepo) Load(context.Context) (*Session, error) {
	if m.session == nil {
		return &Session{ActiveTab: Structure}, nil
	}
	s := *m.session
	return &s, nil
}

type sessionRepo struct{ *memRepo }

func (r sessionRepo) Save(_ context.Context, s *Session) error {
	c := *s
	r.session = &c
	return nil
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *memRepo) {
	t.Helper()
	repo := &memRepo{}
	svc := NewService(repo, sessionRepo{repo}, WithClock(func() time.Time { return fixedNow }))
	t.Cleanup(svc.Close)
	return svc, repo
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"structure": Structure, "Structures": Structure, " field ": Field, "fields": Field} {
		got, err := ParseKind(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseKind("section")
	require.Error(t, err)
}

func TestService_SaveValidatesByKind(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, Structure, "  ", "<a></a>")
	require.ErrorIs(t, err, ErrInvalidName)
	require.Equal(t, "Please enter a template name", err.Error())

	_, err = svc.Save(ctx, Structure, "broken", "<a><b></a>")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "Mismatched tags: expected </b>, found </a>", verr.Error())

	_, err = svc.Save(ctx, Structure, "two roots", "<a></a><b></b>")
	require.NoError(t, err, "structures may have several roots")

	_, err = svc.Save(ctx, Field, "two roots", "<a></a><b></b>")
	require.ErrorAs(t, err, &verr)
	require.Equal(t, Field, verr.Kind)

	saved, err := svc.Save(ctx, Field, "  step ", "\n  <step></step>\n")
	require.NoError(t, err)
	require.Equal(t, "step", saved.Name)
	require.Equal(t, "<step></step>", saved.Content)
	require.Equal(t, fixedNow, saved.CreatedAt)
}

func TestService_SavePublishesEvents(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := svc.Broker().Subscribe(ctx)

	_, err := svc.Save(ctx, Structure, "p", "<a></a>")
	require.NoError(t, err)
	_, err = svc.Save(ctx, Structure, "p", "<b></b>")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, Structure, "p"))

	var got []pubsub.EventType
	for range 3 {
		select {
		case ev := <-events:
			got = append(got, ev.Type)
			require.Equal(t, "p", ev.Payload.Name)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
	require.Equal(t, []pubsub.EventType{pubsub.CreatedEvent, pubsub.UpdatedEvent, pubsub.DeletedEvent}, got)
}

func TestService_GetAndDeleteMissing(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, Field, "nope")
	require.True(t, IsNotFound(err))
	require.Equal(t, "field template not found: nope", err.Error())

	require.True(t, IsNotFound(svc.Delete(ctx, Structure, "nope")))
}

func TestService_SaveWrapsRepositoryErrors(t *testing.T) {
	svc, repo := newTestService(t)
	boom := errors.New("disk full")
	repo.failSave = boom

	_, err := svc.Save(context.Background(), Structure, "p", "<a></a>")
	require.ErrorIs(t, err, boom)
}

func TestService_SeedOnlyEmptyKinds(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, Field, "mine", "<mine></mine>")
	require.NoError(t, err)

	n, err := svc.Seed(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	structures, err := svc.List(ctx, Structure)
	require.NoError(t, err)
	require.Len(t, structures, 2)
	require.Equal(t, "Basic Prompt", structures[0].Name)
	require.Equal(t, "Task Template", structures[1].Name)
	require.True(t, Structure.Validate(structures[0].Content).Valid)

	fields, err := svc.List(ctx, Field)
	require.NoError(t, err)
	require.Len(t, fields, 1)

	n, err = svc.Seed(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestSeeds_AllValid(t *testing.T) {
	for _, kind := range Kinds {
		seeds, err := Seeds(SeedFS(), kind)
		require.NoError(t, err)
		require.Len(t, seeds, 2)
		for _, s := range seeds {
			require.True(t, kind.Validate(s.Content).Valid, "%s: %s", s.Name, kind.Validate(s.Content).Err)
		}
	}
}

func TestSeeds_MissingFile(t *testing.T) {
	fsys := fstest.MapFS{
		"seeds.yaml": {Data: []byte("structures:\n  - name: Gone\n    file: gone.xml\n")},
	}
	_, err := Seeds(fsys, Structure)
	require.ErrorContains(t, err, `reading seed "Gone"`)

	fields, err := Seeds(fsys, Field)
	require.NoError(t, err)
	require.Empty(t, fields)
}

func TestService_ExportImportRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, Structure, "p", "<a></a>")
	require.NoError(t, err)
	_, err = svc.Save(ctx, Field, "f", "<f></f>")
	require.NoError(t, err)

	env, err := svc.Export(ctx, &Session{Content: "<a>draft</a>", ActiveTab: Field})
	require.NoError(t, err)
	data, err := env.Marshal()
	require.NoError(t, err)
	require.Contains(t, string(data), "\n  \"app\": \"xml-prompt-builder\",")
	require.Contains(t, string(data), `"exportedAt": "2024-05-01T12:00:00Z"`)

	other, _ := newTestService(t)
	imp, err := ParseImport(data)
	require.NoError(t, err)
	res, err := other.Import(ctx, imp)
	require.NoError(t, err)
	require.Equal(t, ImportResult{Structures: 1, Fields: 1, Session: true}, res)

	got, err := other.Get(ctx, Field, "f")
	require.NoError(t, err)
	require.Equal(t, "<f></f>", got.Content)

	session, err := other.LoadSession(ctx)
	require.NoError(t, err)
	require.Equal(t, "<a>draft</a>", session.Content)
	require.Equal(t, Field, session.ActiveTab)
}

func TestService_ImportedTemplatesWin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Save(ctx, Structure, "p", "<old></old>")
	require.NoError(t, err)
	_, err = svc.Save(ctx, Structure, "keep", "<k></k>")
	require.NoError(t, err)

	imp, err := ParseImport([]byte(`{"app":"xml-prompt-builder","templates":{"structures":{"p":"<new></new>"}}}`))
	require.NoError(t, err)
	res, err := svc.Import(ctx, imp)
	require.NoError(t, err)
	require.False(t, res.Session)

	list, err := svc.List(ctx, Structure)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "<new></new>", list[0].Content, "position is kept")
}

func TestParseImport(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
		check   func(t *testing.T, imp *Import)
	}{
		{name: "invalid json", data: `{"app":`, wantErr: ErrInvalidJSON},
		{name: "wrong app", data: `{"app":"other"}`, wantErr: ErrNotExport},
		{name: "null", data: `null`, wantErr: ErrNotExport},
		{name: "array", data: `[1,2]`, wantErr: ErrNotExport},
		{
			name: "non-string values dropped",
			data: `{"app":"xml-prompt-builder","templates":{"structures":{"a":"<a></a>","b":3},"fields":[1]},"session":{"editorContent":5,"activeTab":"field"}}`,
			check: func(t *testing.T, imp *Import) {
				require.Equal(t, map[string]string{"a": "<a></a>"}, imp.Structures)
				require.Nil(t, imp.Fields)
				require.Nil(t, imp.Content)
				require.Equal(t, Field, imp.ActiveTab)
			},
		},
		{
			name: "session as wrong type keeps templates",
			data: `{"app":"xml-prompt-builder","templates":{"fields":{"f":"<f></f>"}},"session":"x"}`,
			check: func(t *testing.T, imp *Import) {
				require.Equal(t, map[string]string{"f": "<f></f>"}, imp.Fields)
				require.Nil(t, imp.Content)
			},
		},
		{
			name: "unknown tab ignored",
			data: `{"app":"xml-prompt-builder","session":{"editorContent":"","activeTab":"x"}}`,
			check: func(t *testing.T, imp *Import) {
				require.NotNil(t, imp.Content)
				require.Empty(t, *imp.Content)
				require.Empty(t, imp.ActiveTab)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp, err := ParseImport([]byte(tt.data))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, imp)
		})
	}
}

func TestService_SaveSessionOnlyWhenChanged(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	wrote, err := svc.SaveSession(ctx, &Session{Content: "<a></a>", ActiveTab: Structure})
	require.NoError(t, err)
	require.True(t, wrote)

	wrote, err = svc.SaveSession(ctx, &Session{Content: "<a></a>", ActiveTab: Structure})
	require.NoError(t, err)
	require.False(t, wrote)

	wrote, err = svc.SaveSession(ctx, &Session{Content: "<a></a>", ActiveTab: Field})
	require.NoError(t, err)
	require.True(t, wrote)
}
