package watch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/LegacyCodeHQ/visualdep/depgraph"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_PublishAndSubscribe(t *testing.T) {
	b := newBroker()
	ch := b.subscribe()
	defer b.unsubscribe(ch)

	b.publish(`{"id":1}`)

	select {
	case got := <-ch:
		assert.Equal(t, `{"id":1}`, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestBroker_NewSubscriberReceivesLatest(t *testing.T) {
	b := newBroker()
	b.publish(`{"id":2}`)

	ch := b.subscribe()
	defer b.unsubscribe(ch)

	select {
	case got := <-ch:
		assert.Equal(t, `{"id":2}`, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for latest snapshot")
	}
}

func TestBroker_MultipleSubscribers(t *testing.T) {
	b := newBroker()
	ch1 := b.subscribe()
	ch2 := b.subscribe()
	defer b.unsubscribe(ch1)
	defer b.unsubscribe(ch2)

	b.publish(`{"id":3}`)

	select {
	case got := <-ch1:
		assert.Equal(t, `{"id":3}`, got)
	case <-time.After(time.Second):
		t.Fatal("ch1: timed out")
	}

	select {
	case got := <-ch2:
		assert.Equal(t, `{"id":3}`, got)
	case <-time.After(time.Second):
		t.Fatal("ch2: timed out")
	}
}

func TestHandleIndex_ServesHTML(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	handleIndex(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "visualdep watch")
	assert.Contains(t, w.Body.String(), "EventSource")
}

func TestHandleSSE_StreamsGraphEvent(t *testing.T) {
	b := newBroker()

	// Pre-publish so the subscriber gets data immediately on subscribe.
	b.publish(`{"id":4}`)

	handler := handleSSE(b)
	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	buf := make([]byte, 4096)
	n, _ := resp.Body.Read(buf)
	body := string(buf[:n])

	assert.Contains(t, body, "event: graph")
	assert.Contains(t, body, `data: {"id":4}`)
}

func TestHandleSSE_MultiLineData(t *testing.T) {
	b := newBroker()

	multiLine := "{\n  \"id\": 5\n}"
	b.publish(multiLine)

	handler := handleSSE(b)
	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	buf := make([]byte, 4096)
	n, _ := resp.Body.Read(buf)
	body := string(buf[:n])

	assert.Contains(t, body, "data: {")
	assert.Contains(t, body, `data:   "id": 5`)
	assert.Contains(t, body, "data: }")
}

func TestIsRelevantChange_MatchingExtension(t *testing.T) {
	writeEvent := fsnotify.Event{Name: "pkg/a.py", Op: fsnotify.Write}
	assert.True(t, isRelevantChange(writeEvent, ".py"))

	createEvent := fsnotify.Event{Name: "pkg/b.py", Op: fsnotify.Create}
	assert.True(t, isRelevantChange(createEvent, "py"))

	removeEvent := fsnotify.Event{Name: "pkg/c.py", Op: fsnotify.Remove}
	assert.True(t, isRelevantChange(removeEvent, ".py"))
}

func TestIsRelevantChange_OtherExtension(t *testing.T) {
	txtEvent := fsnotify.Event{Name: "README.txt", Op: fsnotify.Write}
	assert.False(t, isRelevantChange(txtEvent, ".py"))

	pycEvent := fsnotify.Event{Name: "__pycache__/a.cpython-312.pyc", Op: fsnotify.Write}
	assert.False(t, isRelevantChange(pycEvent, ".py"))
}

func TestIsRelevantChange_ChmodIgnored(t *testing.T) {
	chmodEvent := fsnotify.Event{Name: "main.py", Op: fsnotify.Chmod}
	assert.False(t, isRelevantChange(chmodEvent, ".py"))
}

func writeProject(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func testWatchOptions() *watchOptions {
	return &watchOptions{
		ext:       ".py",
		dim:       2,
		seed:      42,
		top:       10,
		cacheSize: 16,
	}
}

func TestGraphBuilder_BuildProducesSnapshot(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, map[string]string{
		"pkg/__init__.py": "",
		"pkg/a.py":        "from . import b\n",
		"pkg/b.py":        "import os\n",
	})

	builder, err := newGraphBuilder(root, testWatchOptions())
	require.NoError(t, err)

	raw, warnings, err := builder.build(context.Background())
	require.NoError(t, err)
	assert.Empty(t, warnings)

	var snapshot graphSnapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snapshot))
	assert.Equal(t, int64(1), snapshot.ID)
	assert.Equal(t, []depgraph.Edge{{Source: "pkg.a", Target: "pkg.b"}}, snapshot.Edges)
	require.Len(t, snapshot.Nodes, 2)
	assert.Len(t, snapshot.Nodes[0].Position, 2)
}

func TestGraphBuilder_RebuildPicksUpChangedFiles(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, map[string]string{
		"pkg/__init__.py": "",
		"pkg/a.py":        "from . import b\n",
		"pkg/b.py":        "x = 1\n",
		"pkg/c.py":        "x = 2\n",
	})

	builder, err := newGraphBuilder(root, testWatchOptions())
	require.NoError(t, err)

	_, _, err = builder.build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, builder.cache.Len())

	writeProject(t, root, map[string]string{
		"pkg/c.py": "from .a import thing\n",
	})

	raw, _, err := builder.build(context.Background())
	require.NoError(t, err)

	var snapshot graphSnapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snapshot))
	assert.Equal(t, int64(2), snapshot.ID)
	assert.Equal(t, []depgraph.Edge{
		{Source: "pkg.a", Target: "pkg.b"},
		{Source: "pkg.a", Target: "pkg.c"},
	}, snapshot.Edges)
	assert.Equal(t, 4, builder.cache.Len())
}

func TestGraphBuilder_ReportsParseWarnings(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, map[string]string{
		"a.py":      "import b\n",
		"b.py":      "",
		"broken.py": "def broken(:\n",
	})

	builder, err := newGraphBuilder(root, testWatchOptions())
	require.NoError(t, err)

	_, warnings, err := builder.build(context.Background())
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, filepath.Join(root, "broken.py"), warnings[0].Path)
}

func TestGraphBuilder_MissingRootFails(t *testing.T) {
	builder, err := newGraphBuilder(filepath.Join(t.TempDir(), "missing"), testWatchOptions())
	require.NoError(t, err)

	_, _, err = builder.build(context.Background())
	require.Error(t, err)
	var fatal *depgraph.FatalIOError
	assert.ErrorAs(t, err, &fatal)
}

func TestPublishCurrentGraph_PublishesSnapshotAndWarnings(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, map[string]string{
		"a.py":      "import b\n",
		"b.py":      "",
		"broken.py": "def broken(:\n",
	})

	builder, err := newGraphBuilder(root, testWatchOptions())
	require.NoError(t, err)

	b := newBroker()
	ch := b.subscribe()
	defer b.unsubscribe(ch)

	var errOut bytes.Buffer
	publishCurrentGraph(context.Background(), builder, b, &errOut)

	select {
	case got := <-ch:
		assert.Contains(t, got, `"source":"a","target":"b"`)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for graph publish")
	}
	assert.True(t, strings.HasPrefix(errOut.String(), "Warning: could not parse "))
}

func TestPublishCurrentGraph_BuildErrorKeepsPreviousGraph(t *testing.T) {
	builder, err := newGraphBuilder(filepath.Join(t.TempDir(), "missing"), testWatchOptions())
	require.NoError(t, err)

	b := newBroker()
	b.publish("previous")

	var errOut bytes.Buffer
	publishCurrentGraph(context.Background(), builder, b, &errOut)

	assert.Contains(t, errOut.String(), "graph rebuild error")
	ch := b.subscribe()
	defer b.unsubscribe(ch)
	assert.Equal(t, "previous", <-ch)
}

func TestNewCommand_DefaultFlags(t *testing.T) {
	cmd := NewCommand()

	port, err := cmd.Flags().GetInt("port")
	require.NoError(t, err)
	assert.Equal(t, 4900, port)

	dim, err := cmd.Flags().GetInt("dim")
	require.NoError(t, err)
	assert.Equal(t, 3, dim)

	skip, err := cmd.Flags().GetBool("skip-ignored")
	require.NoError(t, err)
	assert.True(t, skip)
}

func TestLoadConfig_FlagsWinOverConfigFile(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, map[string]string{
		".visualdep.yaml": "dim: 2\ninclude_external: true\ntop: 3\n",
	})

	cmd := NewCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--top", "5"}))

	opts := &watchOptions{ext: ".py", dim: 3, top: 5}
	require.NoError(t, loadConfig(cmd, root, opts))

	assert.Equal(t, 2, opts.dim)
	assert.True(t, opts.includeExternal)
	assert.Equal(t, 5, opts.top)
}

func TestLoadConfig_DimFlagOverridesInvalidConfigFile(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, map[string]string{
		".visualdep.yaml": "dim: 4\n",
	})

	cmd := NewCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--dim", "2"}))
	opts := &watchOptions{ext: ".py", dim: 2, top: 10}
	require.NoError(t, loadConfig(cmd, root, opts))
	assert.Equal(t, 2, opts.dim)

	cmd = NewCommand()
	require.NoError(t, cmd.ParseFlags(nil))
	opts = &watchOptions{ext: ".py", dim: 3, top: 10}
	assert.ErrorContains(t, loadConfig(cmd, root, opts), "invalid dim 4")
}
