package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_MessagesCarryIconAndText(t *testing.T) {
	tests := []struct {
		name  string
		print func(w *Writer)
		icon  string
		text  string
	}{
		{"success", func(w *Writer) { w.Success("index created") }, "✓", "index created"},
		{"warning", func(w *Writer) { w.Warningf("%d documents rejected", 2) }, "!", "2 documents rejected"},
		{"error", func(w *Writer) { w.Errorf("open failed: %s", "locked") }, "✗", "open failed: locked"},
		{"status", func(w *Writer) { w.Statusf("→", "reading %s", "docs.jsonl") }, "→", "reading docs.jsonl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a writer with a buffer
			buf := &bytes.Buffer{}
			w := New(buf)

			// When: printing
			tt.print(w)

			// Then: icon and message appear on one line
			out := buf.String()
			assert.Contains(t, out, tt.icon)
			assert.Contains(t, out, tt.text)
			assert.True(t, strings.HasSuffix(out, "\n"))
		})
	}
}

func TestNew_BufferIsNotColored(t *testing.T) {
	// Given: a non-terminal destination
	buf := &bytes.Buffer{}

	// When: printing through New
	New(buf).Success("plain")

	// Then: no ANSI escapes are emitted
	assert.False(t, IsTTY(buf))
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestWriter_KeyValue(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf)

	w.KeyValue("documents", 42)

	assert.Contains(t, buf.String(), "documents:")
	assert.Contains(t, buf.String(), "42")
}

func TestWriter_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf)

	require.NoError(t, w.JSON(map[string]any{"exists": true}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, true, got["exists"])
}

func TestWriter_Progress_PrintsProgressBar(t *testing.T) {
	// Given: a writer with a buffer
	buf := &bytes.Buffer{}
	w := New(buf)

	// When: printing progress at 50%
	w.Progress(50, 100, "Ingesting documents")

	// Then: output contains progress indicator and message
	output := buf.String()
	assert.Contains(t, output, "50%")
	assert.Contains(t, output, "Ingesting documents")
}

func TestWriter_Progress_ZeroTotal_NoOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf)

	w.Progress(0, 0, "Processing")

	assert.Empty(t, buf.String())
}

func TestProgressBar_Render(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		width    int
		wantFull int
	}{
		{name: "0 percent", current: 0, total: 100, width: 10, wantFull: 0},
		{name: "50 percent", current: 50, total: 100, width: 10, wantFull: 5},
		{name: "100 percent", current: 100, total: 100, width: 10, wantFull: 10},
		{name: "over 100 percent", current: 150, total: 100, width: 10, wantFull: 10},
		{name: "25 percent", current: 25, total: 100, width: 20, wantFull: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := renderProgressBar(tt.current, tt.total, tt.width)

			assert.Equal(t, tt.wantFull, strings.Count(bar, "█"))
			assert.Equal(t, tt.width, len([]rune(bar)))
		})
	}
}

func TestWriter_Newline_PrintsEmptyLine(t *testing.T) {
	buf := &bytes.Buffer{}
	New(buf).Newline()
	assert.Equal(t, "\n", buf.String())
}
