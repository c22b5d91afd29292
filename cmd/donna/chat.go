package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Cyclone1070/donna/internal/agent"
	"github.com/Cyclone1070/donna/internal/tool/clipboard"
	"github.com/Cyclone1070/donna/internal/ui"
	"github.com/Cyclone1070/donna/internal/ui/services"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const replPrompt = "donna ▸ "

const helpText = `**Available commands**

| Command | Description |
|---------|-------------|
| ` + "`@coder <msg>`" + ` | Route to the coder agent |
| ` + "`@sysadmin <msg>`" + ` | Route to the sysadmin agent |
| ` + "`@fix`" + ` | Send clipboard content for debugging |
| ` + "`@explain`" + ` | Explain clipboard content |
| ` + "`help`" + ` | Show this help |
| ` + "`exit`" + ` / ` + "`quit`" + ` | Leave the chat |
`

var errClipboardEmpty = errors.New("clipboard is empty")

type chatOptions struct {
	Agent  string
	Review bool
	Plain  bool
}

func newChatCmd(a *app) *cobra.Command {
	var opts chatOptions
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), a, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.Agent, "agent", "a", "", "pin every request to one specialist (coder, sysadmin)")
	cmd.Flags().BoolVar(&opts.Review, "review", false, "have the critic review every answer")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "line-mode console instead of the full-screen UI")
	return cmd
}

// requestHandler is the part of the session the REPL drives.
type requestHandler interface {
	Handle(ctx context.Context, input string) (string, error)
	HandleWith(ctx context.Context, agent, input string) (string, error)
}

// clipboardReader supplies the @fix and @explain shortcuts.
type clipboardReader interface {
	ReadAll() (string, error)
}

func runChat(ctx context.Context, a *app, opts chatOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Agent != "" {
		if err := checkSpecialist(opts.Agent); err != nil {
			return err
		}
	}

	llm, err := newBackend(ctx, a.cfg)
	if err != nil {
		return err
	}

	if opts.Plain {
		console := ui.NewConsole(os.Stdin, os.Stdout, services.NewGlamourRenderer())
		defer console.Close()
		st, err := buildStack(ctx, a.cfg, llm, console, sessionOptions{Review: opts.Review}, a.logger)
		if err != nil {
			return err
		}
		console.WriteMessage(fmt.Sprintf("**Donna** · %s (%s) · type `help` for commands, `exit` to quit.", st.Model, a.cfg.Backend))
		return repl(ctx, console, st.Session, clipboard.System{}, opts.Agent, a.logger)
	}

	return runTUI(ctx, a, llm, opts)
}

// runTUI runs the REPL against the full-screen UI until either side ends.
func runTUI(ctx context.Context, a *app, llm backend, opts chatOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tui := ui.NewUI(ui.NewUIChannels(), services.NewGlamourRenderer(), func() spinner.Model {
		return spinner.New(spinner.WithSpinner(spinner.Dot))
	}, llm.Model())

	replDone := make(chan error, 1)
	go func() {
		<-tui.Ready()
		tui.WriteStatus(services.PhaseThinking, "Detecting system...")
		st, err := buildStack(ctx, a.cfg, llm, tui, sessionOptions{Review: opts.Review}, a.logger)
		if err != nil {
			tui.WriteError(err.Error())
			tui.WriteMessage("Donna cannot start. Press Ctrl+C to exit.")
			replDone <- err
			return
		}
		tui.WriteStatus(services.PhaseReady, "")
		replDone <- repl(ctx, tui, st.Session, clipboard.System{}, opts.Agent, a.logger)
	}()

	uiErr := tui.Start()
	cancel()
	err := <-replDone
	if uiErr != nil {
		return uiErr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// checkSpecialist rejects names that are not routable specialists.
func checkSpecialist(name string) error {
	d, ok := agent.Lookup(name)
	if !ok || d.Name == agent.Critic {
		return fmt.Errorf("unknown agent %q (want one of %s)", name, strings.Join(agent.Names(), ", "))
	}
	return nil
}

// repl reads requests until exit, EOF or cancellation. Request failures
// are shown and the loop continues.
func repl(ctx context.Context, view ui.UserInterface, handler requestHandler, clip clipboardReader, pinned string, logger *zap.Logger) error {
	for {
		line, err := view.ReadInput(ctx, replPrompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit", "quit":
			view.WriteMessage("Goodbye.")
			return nil
		case "help":
			view.WriteMessage(helpText)
			continue
		}

		request, shortcut, err := expandShortcut(input, clip)
		if err != nil {
			view.WriteError(err.Error())
			continue
		}

		switch {
		case pinned != "":
			_, err = handler.HandleWith(ctx, pinned, request)
		case shortcut:
			_, err = handler.HandleWith(ctx, agent.Coder, request)
		default:
			_, err = handler.Handle(ctx, request)
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("request failed", zap.Error(err))
			view.WriteError(fmt.Sprintf("Error: %v", err))
		}
	}
}

// expandShortcut turns @fix and @explain into a request wrapping the
// clipboard contents. Other input is returned unchanged with shortcut
// false.
func expandShortcut(input string, clip clipboardReader) (request string, shortcut bool, err error) {
	var action string
	switch strings.ToLower(input) {
	case "@fix":
		action = "Fix this error"
	case "@explain":
		action = "Explain this"
	default:
		return input, false, nil
	}
	text, err := clip.ReadAll()
	if err != nil {
		return "", true, fmt.Errorf("could not access clipboard: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", true, errClipboardEmpty
	}
	return fmt.Sprintf("%s:\n\n```\n%s\n```", action, text), true, nil
}
