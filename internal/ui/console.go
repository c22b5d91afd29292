package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Cyclone1070/donna/internal/ui/services"
	"github.com/Cyclone1070/donna/internal/ui/views"
	"github.com/Cyclone1070/donna/internal/workflow"
)

const consoleWidth = 100

// Console is a line-mode UserInterface for pipes, scripts and `donna run`.
type Console struct {
	out      io.Writer
	renderer services.MarkdownRenderer

	in       *bufio.Scanner
	lines    chan string
	readOnce sync.Once

	mu      sync.Mutex
	events  chan workflow.Event
	flushes chan chan struct{}
	done    chan struct{}
}

// NewConsole creates a console reading answers from in and printing to out.
// renderer may be nil for raw text. Close must be called to stop the event
// printer.
func NewConsole(in io.Reader, out io.Writer, renderer services.MarkdownRenderer) *Console {
	c := &Console{
		out:      out,
		renderer: renderer,
		in:       bufio.NewScanner(in),
		lines:    make(chan string),
		events:   make(chan workflow.Event, 64),
		flushes:  make(chan chan struct{}),
		done:     make(chan struct{}),
	}
	go c.printEvents()
	return c
}

// readLines feeds c.lines until the input ends.
func (c *Console) readLines() {
	defer close(c.lines)
	for c.in.Scan() {
		c.lines <- c.in.Text()
	}
}

func (c *Console) readLine(ctx context.Context, prompt string) (string, error) {
	c.readOnce.Do(func() { go c.readLines() })
	c.printf("%s", prompt)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

// ReadInput reads the next line. It returns io.EOF when input ends.
func (c *Console) ReadInput(ctx context.Context, prompt string) (string, error) {
	return c.readLine(ctx, prompt)
}

// ReadPermission prints pending events, then the prompt, and reads the
// answer line.
func (c *Console) ReadPermission(ctx context.Context, prompt string) (string, error) {
	c.flush()
	answer, err := c.readLine(ctx, views.ErrorMessageStyle.Render("⚠ "+prompt)+" ")
	if err != nil {
		return AnswerNo, err
	}
	return answer, nil
}

// WriteStatus prints the status line.
func (c *Console) WriteStatus(phase string, message string) {
	if message == "" {
		return
	}
	c.printf("%s\n", views.StatusDefaultStyle.Render(fmt.Sprintf("[%s] %s", phase, message)))
}

// WriteMessage prints content as markdown.
func (c *Console) WriteMessage(content string) {
	c.printf("%s\n", c.markdown(content))
}

// WriteError prints an error line.
func (c *Console) WriteError(message string) {
	c.printf("%s\n", views.ErrorMessageStyle.Render("✗ "+message))
}

// Events returns the channel the event printer drains.
func (c *Console) Events() chan<- workflow.Event {
	return c.events
}

// Close stops the event printer after it has printed pending events.
func (c *Console) Close() {
	close(c.events)
	<-c.done
}

// flush returns once every event sent before the call has been printed.
func (c *Console) flush() {
	ack := make(chan struct{})
	select {
	case c.flushes <- ack:
		<-ack
	case <-c.done:
	}
}

func (c *Console) printEvents() {
	defer close(c.done)
	for {
		select {
		case ev, ok := <-c.events:
			if !ok {
				return
			}
			c.printEvent(ev)
		case ack := <-c.flushes:
			open := c.drain()
			close(ack)
			if !open {
				return
			}
		}
	}
}

// drain prints buffered events without blocking. It reports false once the
// channel is closed.
func (c *Console) drain() bool {
	for {
		select {
		case ev, ok := <-c.events:
			if !ok {
				return false
			}
			c.printEvent(ev)
		default:
			return true
		}
	}
}

func (c *Console) printEvent(ev workflow.Event) {
	switch e := ev.(type) {
	case workflow.RoutedEvent:
		c.printf("%s\n", views.AgentLabelStyle.Render("→ @"+e.Agent))
	case workflow.ToolStartEvent:
		c.printf("%s\n", views.StatusExecutingStyle.Render("⚙ "+e.RequestDisplay))
	case workflow.ToolEndEvent:
		c.printf("%s\n", views.ToolMessageStyle.Render(indent(services.ToolLine(e))))
	case workflow.TextEvent:
		c.printf("\n%s\n%s\n\n", views.AgentLabelStyle.Render("@"+e.Agent), c.markdown(e.Text))
	case workflow.StatusEvent:
		c.WriteStatus(services.PhaseExecuting, e.Message)
	}
}

func (c *Console) markdown(content string) string {
	out, err := services.RenderMarkdown(content, consoleWidth, c.renderer)
	if err != nil {
		return content
	}
	return out
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
