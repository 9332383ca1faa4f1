package cmd

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SoloveyLS/xml-prompt-manager/internal/templates"
)

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunWatch(t *testing.T) {
	path := writeFile(t, "p.xml", "<a>x</a>")

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- runWatch(ctx, out, path, templates.Structure) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), path+": ok")
	}, 2*time.Second, 10*time.Millisecond, "initial check")

	require.NoError(t, os.WriteFile(path, []byte("<a>x"), 0o600))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), path+": Unclosed tags: <a>")
	}, 3*time.Second, 20*time.Millisecond, "check after save")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestRunWatch_MissingDirectory(t *testing.T) {
	err := runWatch(context.Background(), &bytes.Buffer{}, "/nonexistent/dir/p.xml", templates.Structure)
	require.Error(t, err)
}
