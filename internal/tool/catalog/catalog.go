// Package catalog assembles the built-in tools into a registry.
package catalog

import (
	"time"

	"github.com/Cyclone1070/donna/internal/config"
	"github.com/Cyclone1070/donna/internal/tool"
	"github.com/Cyclone1070/donna/internal/tool/clipboard"
	"github.com/Cyclone1070/donna/internal/tool/directory"
	"github.com/Cyclone1070/donna/internal/tool/file"
	"github.com/Cyclone1070/donna/internal/tool/process"
	"github.com/Cyclone1070/donna/internal/tool/shell"
	"github.com/Cyclone1070/donna/internal/tool/service/executor"
	"github.com/Cyclone1070/donna/internal/tool/service/fs"
	pathsvc "github.com/Cyclone1070/donna/internal/tool/service/path"
)

// Built-in tool names.
const (
	ReadFile       = "read_file"
	ListDir        = "list_dir"
	FindFiles      = "find_files"
	WriteFile      = "write_file"
	DeleteFile     = "delete_file"
	ExecuteShell   = "execute_shell"
	LaunchApp      = "launch_app"
	KillProcess    = "kill_process"
	ReadClipboard  = "read_clipboard"
	WriteClipboard = "write_clipboard"
)

// Options overrides the system dependencies, mainly for tests.
type Options struct {
	// BaseDir resolves relative paths. Empty means the working directory.
	BaseDir   string
	Clipboard clipboard.Clipboard
}

// New builds a registry with every built-in tool.
func New(cfg config.ToolsConfig, opts Options) (*tool.Registry, error) {
	resolver, err := pathsvc.NewResolver(opts.BaseDir)
	if err != nil {
		return nil, err
	}
	osFS := fs.NewOSFileSystem()
	maxOutput := cfg.MaxOutputChars * 4
	if maxOutput <= 0 {
		maxOutput = 32 * 1024
	}
	exec := executor.NewOSCommandExecutor(maxOutput)
	maxFileSize := int64(cfg.MaxFileSize)

	reg := tool.NewRegistry(
		file.NewReadFileTool(osFS, resolver, maxFileSize).Entry(),
		file.NewWriteFileTool(osFS, resolver, maxFileSize).Entry(),
		file.NewDeleteFileTool(osFS, resolver).Entry(),
		directory.NewListDirTool(osFS, resolver).Entry(),
		directory.NewFindFileTool(osFS, resolver, cfg.FindLimit).Entry(),
		shell.NewShellTool(exec, resolver, time.Duration(cfg.ShellTimeout)*time.Second, cfg.MaxOutputChars).Entry(),
		process.NewLaunchTool(exec).Entry(),
		process.NewKillTool(process.OSTerminator{}).Entry(),
	)
	for _, e := range clipboard.New(opts.Clipboard).Entries() {
		reg.Register(e)
	}
	return reg, nil
}
