package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for one writer and one poller.
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

func waitFor(t *testing.T, buf *syncBuffer, want string) {
	t.Helper()
	require.Eventually(t, func() bool { return strings.Contains(buf.String(), want) },
		5*time.Second, 20*time.Millisecond, "output never contained %q:\n%s", want, buf.String())
}

func appendLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(strings.Join(lines, "\n") + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestWatch_FollowsDirectory(t *testing.T) {
	// Given: an index and a drop directory with one existing file
	isolate(t)
	idx := createIndex(t)
	drop := t.TempDir()
	first := filepath.Join(drop, "a.jsonl")
	appendLines(t, first, `{"id": 1, "title": "existing"}`)
	require.NoError(t, os.WriteFile(filepath.Join(drop, "notes.txt"), []byte("ignored"), 0o644))

	// When: watching
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := &syncBuffer{}
	cmd := NewRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"watch", "--debounce", "50ms", idx, drop})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	// Then: existing lines are ingested first
	waitFor(t, out, "(1 total)")

	// And: appended lines are picked up, rejected ones skipped
	appendLines(t, first, `{"id": 2, "title": "appended"}`, `{"id": "bad"}`)
	waitFor(t, out, "(2 total)")

	// And: new files are followed
	appendLines(t, filepath.Join(drop, "b.jsonl"), `{"id": 3, "title": "new file"}`)
	waitFor(t, out, "(3 total)")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.Contains(t, out.String(), "Stopped after 3 documents, 1 rejected")

	info, err := run(t, "", "--json", "info", idx)
	require.NoError(t, err)
	var got struct {
		Documents uint64 `json:"documents"`
	}
	require.NoError(t, json.Unmarshal([]byte(info), &got))
	assert.Equal(t, uint64(3), got.Documents)
}

func TestWatch_FromEndSkipsExisting(t *testing.T) {
	isolate(t)
	idx := createIndex(t)
	drop := t.TempDir()
	file := filepath.Join(drop, "a.jsonl")
	appendLines(t, file, `{"id": 1}`, `{"id": 2}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := &syncBuffer{}
	cmd := NewRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"watch", "--from-end", "--debounce", "50ms", idx, drop})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	waitFor(t, out, "Watching")
	appendLines(t, file, `{"id": 3}`)
	waitFor(t, out, "(1 total)")

	cancel()
	require.NoError(t, <-done)
}

func TestWatch_MissingDirectory(t *testing.T) {
	isolate(t)
	idx := createIndex(t)

	_, err := run(t, "", "watch", idx, filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
