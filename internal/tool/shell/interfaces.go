package shell

import (
	"context"
	"time"

	"github.com/Cyclone1070/donna/internal/tool/service/executor"
)

// pathResolver turns the working directory argument into an absolute path.
type pathResolver interface {
	Abs(path string) (string, error)
}

// commandExecutor runs a command to completion under a timeout.
type commandExecutor interface {
	RunWithTimeout(ctx context.Context, cmd []string, dir string, env []string, timeout time.Duration) (*executor.Result, error)
}
