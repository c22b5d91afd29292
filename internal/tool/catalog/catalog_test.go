package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Cyclone1070/donna/internal/config"
	"github.com/Cyclone1070/donna/internal/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memClipboard struct{ text string }

func (m *memClipboard) ReadAll() (string, error)   { return m.text, nil }
func (m *memClipboard) WriteAll(text string) error { m.text = text; return nil }

func TestNew_RegistersEveryTool(t *testing.T) {
	reg, err := New(config.DefaultConfig().Tools, Options{BaseDir: t.TempDir(), Clipboard: &memClipboard{}})
	require.NoError(t, err)

	assert.Equal(t, []string{
		DeleteFile, ExecuteShell, FindFiles, KillProcess, LaunchApp,
		ListDir, ReadClipboard, ReadFile, WriteClipboard, WriteFile,
	}, reg.Names())

	safety := map[string]tool.Safety{}
	destructive := map[string]bool{}
	for _, name := range reg.Names() {
		e, _ := reg.Lookup(name)
		safety[name] = e.Safety
		destructive[name] = e.Destructive()
	}
	assert.Equal(t, tool.Red, safety[WriteFile])
	assert.Equal(t, tool.Red, safety[DeleteFile])
	assert.Equal(t, tool.Red, safety[KillProcess])
	assert.Equal(t, tool.Green, safety[ReadFile])
	assert.Equal(t, tool.Green, safety[LaunchApp])
	assert.Equal(t, map[string]bool{
		DeleteFile: true, ExecuteShell: false, FindFiles: false, KillProcess: false, LaunchApp: false,
		ListDir: false, ReadClipboard: false, ReadFile: false, WriteClipboard: false, WriteFile: true,
	}, destructive)
}

func TestNew_ToolsShareBaseDir(t *testing.T) {
	dir := t.TempDir()
	reg, err := New(config.DefaultConfig().Tools, Options{BaseDir: dir, Clipboard: &memClipboard{}})
	require.NoError(t, err)

	write, _ := reg.Lookup(WriteFile)
	_, err = write.Call(context.Background(), map[string]any{"path": "hello.txt", "content": "hi"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))

	read, _ := reg.Lookup(ReadFile)
	out, err := read.Call(context.Background(), map[string]any{"path": "hello.txt"})
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
}

func TestNew_DeclarationsHaveSchemas(t *testing.T) {
	reg, err := New(config.DefaultConfig().Tools, Options{BaseDir: t.TempDir(), Clipboard: &memClipboard{}})
	require.NoError(t, err)

	decls := reg.Declarations(FindFiles, ReadClipboard)

	require.Len(t, decls, 2)
	assert.Equal(t, []string{"pattern"}, decls[0].Parameters.Required)
	assert.Contains(t, decls[0].Parameters.Properties, "path")
	assert.Empty(t, decls[1].Parameters.Properties)
}
