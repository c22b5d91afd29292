package main

import (
	"strings"

	"github.com/Cyclone1070/donna/internal/ui"
	"github.com/Cyclone1070/donna/internal/ui/services"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var agentName string
	var review bool
	cmd := &cobra.Command{
		Use:   "run <request>",
		Short: "Handle a single request and exit",
		Long: `Routes one request to a specialist and prints the answer.
Destructive actions are confirmed on the terminal.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if agentName != "" {
				if err := checkSpecialist(agentName); err != nil {
					return err
				}
			}
			ctx := cmd.Context()
			llm, err := newBackend(ctx, a.cfg)
			if err != nil {
				return err
			}
			console := ui.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout(), services.NewGlamourRenderer())
			defer console.Close()

			st, err := buildStack(ctx, a.cfg, llm, console, sessionOptions{Review: review}, a.logger)
			if err != nil {
				return err
			}
			request := strings.Join(args, " ")
			if agentName != "" {
				_, err = st.Session.HandleWith(ctx, agentName, request)
			} else {
				_, err = st.Session.Handle(ctx, request)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&agentName, "agent", "a", "", "skip routing and use this specialist")
	cmd.Flags().BoolVar(&review, "review", false, "have the critic review the answer")
	return cmd
}
