package main

import (
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/leofalp/llmcall/providers/ai"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) newModelsCmd() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the model catalog and the configured models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			models := a.registry().Catalog().Models()
			out := cmd.OutOrStdout()

			if asYAML {
				enc := yaml.NewEncoder(out)
				defer enc.Close()
				return enc.Encode(struct {
					Models  []ai.ModelInfo    `yaml:"models"`
					Default string            `yaml:"default"`
					Agents  map[string]string `yaml:"agents,omitempty"`
				}{models, a.cfg.Resolver().Default().String(), a.agentModels()})
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DISPLAY NAME\tMODEL\tPROVIDER\tJSON MODE")
			for _, m := range models {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", m.DisplayName, m.Name, m.Provider, m.JSONMode)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "\ndefault: %s\n", a.cfg.Resolver().Default())
			agents := a.agentModels()
			for _, agent := range slices.Sorted(maps.Keys(agents)) {
				fmt.Fprintf(out, "agent %s: %s\n", agent, agents[agent])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print YAML")
	return cmd
}

func (a *app) agentModels() map[string]string {
	if len(a.cfg.Agents) == 0 {
		return nil
	}
	out := make(map[string]string, len(a.cfg.Agents))
	for agent, m := range a.cfg.Agents {
		out[agent] = m.String()
	}
	return out
}
