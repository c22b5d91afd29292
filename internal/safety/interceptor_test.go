package safety

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/Cyclone1070/donna/internal/provider"
	"github.com/Cyclone1070/donna/internal/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockOperator records prompts and answers from a fixed script.
type MockOperator struct {
	Answers []string
	Err     error
	Prompts []string
}

func (m *MockOperator) ReadPermission(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Answers) == 0 {
		return "", nil
	}
	answer := m.Answers[0]
	m.Answers = m.Answers[1:]
	return answer, nil
}

type timeoutErr struct{}

func (timeoutErr) Error() string { return "took too long" }
func (timeoutErr) Timeout() bool { return true }

func defaultConfig() Config {
	return Config{RedKeywords: []string{"rm", "sudo", "del", ">"}, AutoApproveGreen: true, MaxRed: 10}
}

func newTestRegistry(calls *int) *tool.Registry {
	count := func(ctx context.Context, args map[string]any) (string, error) {
		*calls++
		return "done", nil
	}
	return tool.NewRegistry(
		tool.Entry{Name: "read_file", Safety: tool.Green, Params: []tool.Param{{Name: "path"}}, Func: count},
		tool.Entry{Name: "write_file", Safety: tool.Red, Params: []tool.Param{{Name: "path"}, {Name: "content"}}, Func: count, Target: "path"},
		tool.Entry{
			Name:   "execute_shell",
			Safety: tool.Red,
			Params: []tool.Param{{Name: "command"}},
			Func:   count,
			Classifier: func(args map[string]any) tool.Safety {
				cmd, _ := args["command"].(string)
				for _, prefix := range []string{"echo ", "git status", "cat "} {
					if strings.HasPrefix(cmd, prefix) {
						return tool.Green
					}
				}
				return tool.Red
			},
		},
		tool.Entry{Name: "explode", Safety: tool.Green, Func: func(ctx context.Context, args map[string]any) (string, error) {
			panic("boom")
		}},
		tool.Entry{Name: "slow", Safety: tool.Green, Func: func(ctx context.Context, args map[string]any) (string, error) {
			return "", fmt.Errorf("run: %w", timeoutErr{})
		}},
		tool.Entry{Name: "missing", Safety: tool.Green, Func: func(ctx context.Context, args map[string]any) (string, error) {
			_, err := os.ReadFile("/definitely/not/here")
			return "", err
		}},
	)
}

func TestClassify(t *testing.T) {
	var calls int
	reg := newTestRegistry(&calls)
	i := NewInterceptor(reg, &MockOperator{}, defaultConfig(), zap.NewNop())

	readFile, _ := reg.Lookup("read_file")
	writeFile, _ := reg.Lookup("write_file")
	shell, _ := reg.Lookup("execute_shell")

	tests := []struct {
		name  string
		entry *tool.Entry
		args  map[string]any
		want  tool.Safety
	}{
		{"green path", readFile, map[string]any{"path": "donna/models/"}, tool.Green},
		{"keyword inside token", readFile, map[string]any{"path": "delete_file.py"}, tool.Green},
		{"standalone keyword", readFile, map[string]any{"path": "rm -rf /"}, tool.Red},
		{"keyword case insensitive", readFile, map[string]any{"path": "x SUDO y"}, tool.Red},
		{"keyword at end", readFile, map[string]any{"path": "please del"}, tool.Red},
		{"keyword in list value", readFile, map[string]any{"path": []any{"a", "sudo"}}, tool.Red},
		{"static red", writeFile, map[string]any{"path": "notes.txt"}, tool.Red},
		{"dynamic green", shell, map[string]any{"command": "echo hi"}, tool.Green},
		{"dynamic red", shell, map[string]any{"command": "make"}, tool.Red},
		{"chained after safe prefix", shell, map[string]any{"command": "echo x; rm y"}, tool.Red},
		{"chained without space", shell, map[string]any{"command": "echo x;rm y"}, tool.Red},
		{"and-chained sudo", shell, map[string]any{"command": "git status && sudo reboot"}, tool.Red},
		{"piped del", shell, map[string]any{"command": "echo y|del a.txt"}, tool.Red},
		{"redirect after safe prefix", shell, map[string]any{"command": "cat a > /etc/hosts"}, tool.Red},
		{"redirect without space", shell, map[string]any{"command": "echo x>notes.txt"}, tool.Red},
		{"keyword inside word after safe prefix", shell, map[string]any{"command": "echo models"}, tool.Green},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, i.Classify(tt.entry, tt.args))
		})
	}
}

func TestExecute_ChainedShellCommandPrompts(t *testing.T) {
	var calls int
	op := &MockOperator{Answers: []string{"no"}}
	i := NewInterceptor(newTestRegistry(&calls), op, defaultConfig(), nil)

	res := i.Execute(context.Background(), provider.ToolCall{
		Name:      "execute_shell",
		Arguments: map[string]any{"command": "echo hi; rm -rf ~/project"},
	})

	assert.Equal(t, KindDenied, res.Kind)
	assert.Len(t, op.Prompts, 1)
	assert.Equal(t, 0, calls)
}

func TestExecute_UnknownTool(t *testing.T) {
	var calls int
	i := NewInterceptor(newTestRegistry(&calls), &MockOperator{}, defaultConfig(), nil)

	res := i.Execute(context.Background(), provider.ToolCall{Name: "drop_database"})

	assert.Equal(t, KindError, res.Kind)
	assert.Equal(t, "[ERROR] Unknown tool: drop_database", res.Content)
	assert.Equal(t, 0, i.RedCount())
}

func TestExecute_GreenRunsWithoutPrompt(t *testing.T) {
	var calls int
	op := &MockOperator{}
	i := NewInterceptor(newTestRegistry(&calls), op, defaultConfig(), nil)

	res := i.Execute(context.Background(), provider.ToolCall{Name: "read_file", Arguments: map[string]any{"path": "a.txt"}})

	assert.True(t, res.OK())
	assert.Equal(t, "done", res.Content)
	assert.Equal(t, 1, calls)
	assert.Empty(t, op.Prompts)
}

func TestExecute_GreenWithoutAutoApproveAsks(t *testing.T) {
	var calls int
	op := &MockOperator{Answers: []string{"yes"}}
	cfg := defaultConfig()
	cfg.AutoApproveGreen = false
	i := NewInterceptor(newTestRegistry(&calls), op, cfg, nil)

	res := i.Execute(context.Background(), provider.ToolCall{Name: "read_file", Arguments: map[string]any{"path": "a.txt"}})

	assert.True(t, res.OK())
	assert.Len(t, op.Prompts, 1)
	assert.Equal(t, 1, i.RedCount())
}

func TestExecute_RedApproved(t *testing.T) {
	var calls int
	op := &MockOperator{Answers: []string{" Y "}}
	i := NewInterceptor(newTestRegistry(&calls), op, defaultConfig(), nil)

	res := i.Execute(context.Background(), provider.ToolCall{
		Name:      "write_file",
		Arguments: map[string]any{"path": "a.txt", "content": "x"},
	})

	assert.True(t, res.OK())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, i.RedCount())
	require.Len(t, op.Prompts, 1)
	assert.Contains(t, op.Prompts[0], `write_file(content="x", path="a.txt")`)
}

func TestExecute_RedDenied(t *testing.T) {
	for _, answer := range []string{"", "n", "no", "maybe", "yess"} {
		t.Run(fmt.Sprintf("answer %q", answer), func(t *testing.T) {
			var calls int
			i := NewInterceptor(newTestRegistry(&calls), &MockOperator{Answers: []string{answer}}, defaultConfig(), nil)

			res := i.Execute(context.Background(), provider.ToolCall{
				Name:      "write_file",
				Arguments: map[string]any{"path": "a.txt", "content": "x"},
			})

			assert.True(t, res.Denied())
			assert.Equal(t, "[DENIED] User refused to allow 'write_file'.", res.Content)
			assert.Equal(t, 0, calls)
			assert.Equal(t, 0, i.RedCount())
		})
	}
}

func TestExecute_OperatorErrorIsDenial(t *testing.T) {
	var calls int
	i := NewInterceptor(newTestRegistry(&calls), &MockOperator{Err: context.Canceled}, defaultConfig(), nil)

	res := i.Execute(context.Background(), provider.ToolCall{Name: "write_file", Arguments: map[string]any{"path": "a", "content": "b"}})

	assert.True(t, res.Denied())
	assert.Equal(t, 0, calls)
}

func TestExecute_CircuitBreaker(t *testing.T) {
	var calls int
	op := &MockOperator{Answers: []string{"y", "y", "y"}}
	cfg := defaultConfig()
	cfg.MaxRed = 2
	i := NewInterceptor(newTestRegistry(&calls), op, cfg, nil)
	call := provider.ToolCall{Name: "write_file", Arguments: map[string]any{"path": "a", "content": "b"}}

	assert.True(t, i.Execute(context.Background(), call).OK())
	assert.True(t, i.Execute(context.Background(), call).OK())
	assert.True(t, i.Tripped())

	res := i.Execute(context.Background(), call)

	assert.True(t, res.Denied())
	assert.Equal(t, "[DENIED] Circuit breaker: already approved 2 red actions this session. Refusing 'write_file'.", res.Content)
	assert.Len(t, op.Prompts, 2)
	assert.Equal(t, 2, i.RedCount())
	assert.Equal(t, 2, calls)

	// Green calls still run.
	assert.True(t, i.Execute(context.Background(), provider.ToolCall{Name: "read_file", Arguments: map[string]any{"path": "a"}}).OK())
}

func TestExecute_Failures(t *testing.T) {
	var calls int
	i := NewInterceptor(newTestRegistry(&calls), &MockOperator{}, defaultConfig(), nil)

	tests := []struct {
		name string
		call provider.ToolCall
		want string
	}{
		{
			name: "bad arguments",
			call: provider.ToolCall{Name: "read_file", Arguments: map[string]any{"file": "a"}},
			want: "[ERROR] Bad arguments for 'read_file': unexpected argument(s) file",
		},
		{
			name: "panic",
			call: provider.ToolCall{Name: "explode"},
			want: "[ERROR] Tool 'explode' failed: Panic: boom",
		},
		{
			name: "timeout",
			call: provider.ToolCall{Name: "slow"},
			want: "[ERROR] Tool 'slow' failed: Timeout: run: took too long",
		},
		{
			name: "not found",
			call: provider.ToolCall{Name: "missing"},
			want: "[ERROR] Tool 'missing' failed: NotFound: ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := i.Execute(context.Background(), tt.call)
			assert.Equal(t, KindError, res.Kind)
			assert.Contains(t, res.Content, tt.want)
		})
	}
}

func TestCategoryOf_TypeName(t *testing.T) {
	assert.Equal(t, "Error", categoryOf(errors.New("x")))
	assert.Equal(t, "Error", categoryOf(fmt.Errorf("wrap: %w", errors.New("x"))))
	assert.Equal(t, "ArgumentError", categoryOf(&tool.ArgumentError{Err: errors.New("x")}))
}

func TestAffirmative(t *testing.T) {
	assert.True(t, Affirmative("y"))
	assert.True(t, Affirmative("YES"))
	assert.False(t, Affirmative(""))
	assert.False(t, Affirmative("ok"))
}
