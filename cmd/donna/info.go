package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/Cyclone1070/donna/internal/config"
	"github.com/Cyclone1070/donna/internal/fingerprint"
	"github.com/Cyclone1070/donna/internal/tool/catalog"
	"github.com/spf13/cobra"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show configuration, tools and the detected environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg := a.cfg

			fmt.Fprintf(out, "Backend:   %s (%s)\n", cfg.Backend, modelName(cfg))
			fmt.Fprintf(out, "Data dir:  %s\n", cfg.DataDir)
			fmt.Fprintf(out, "Max steps: %d\n", cfg.Agent.MaxSteps)
			fmt.Fprintf(out, "Critic:    %t\n", cfg.Agent.Critic)
			fmt.Fprintf(out, "Safety:    red keywords %v, auto-approve green %t, max red per session %d\n\n",
				cfg.Safety.RedKeywords, cfg.Safety.AutoApproveGreen, cfg.Safety.MaxRedPerSession)

			reg, err := catalog.New(cfg.Tools, catalog.Options{})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TOOL\tSAFETY\tDESCRIPTION")
			for _, name := range reg.Names() {
				entry, _ := reg.Lookup(name)
				safety := string(entry.Safety)
				if entry.Classifier != nil {
					safety += " (dynamic)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", name, safety, entry.Description)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "\n%s\n", fingerprint.Probe(cmd.Context()).Section())
			return nil
		},
	}
}

func modelName(cfg *config.Config) string {
	switch cfg.Backend {
	case config.BackendGroq:
		return cfg.Groq.Model
	case config.BackendGemini:
		return cfg.Gemini.Model
	default:
		return cfg.Ollama.Model
	}
}
