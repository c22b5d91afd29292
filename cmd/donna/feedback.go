package main

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/donna/internal/agent"
	"github.com/spf13/cobra"
)

func newFeedbackCmd(a *app) *cobra.Command {
	var agentName string
	var list, reset bool
	cmd := &cobra.Command{
		Use:   "feedback [correction]",
		Short: "Record a correction a specialist must follow from now on",
		Example: `  donna feedback --agent coder "Use tabs, not spaces, in Go files"
  donna feedback --agent coder --list
  donna feedback --list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := newFeedbackStore(a.cfg)
			out := cmd.OutOrStdout()

			if list && agentName == "" {
				names, err := store.List()
				if err != nil {
					return err
				}
				if len(names) == 0 {
					fmt.Fprintln(out, "No feedback recorded yet.")
					return nil
				}
				for _, name := range names {
					fmt.Fprintf(out, "@%s\t%s\n", name, store.Path(name))
				}
				return nil
			}

			if agentName == "" {
				agentName = agent.Coder
			}
			if err := checkSpecialist(agentName); err != nil {
				return err
			}

			switch {
			case list:
				text, err := store.Read(agentName)
				if err != nil {
					return err
				}
				if text == "" {
					fmt.Fprintf(out, "No feedback for @%s.\n", agentName)
					return nil
				}
				fmt.Fprint(out, text)
			case reset:
				if err := store.Clear(agentName); err != nil {
					return err
				}
				fmt.Fprintf(out, "Cleared feedback for @%s.\n", agentName)
			default:
				if len(args) == 0 {
					return fmt.Errorf("a correction is required")
				}
				if err := store.Add(agentName, strings.Join(args, " ")); err != nil {
					return err
				}
				a.logger.Info("feedback recorded")
				fmt.Fprintf(out, "Noted. @%s will remember that.\n", agentName)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&agentName, "agent", "a", "", "specialist the correction applies to (default coder)")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "show recorded feedback")
	cmd.Flags().BoolVar(&reset, "clear", false, "delete the specialist's feedback")
	return cmd
}
