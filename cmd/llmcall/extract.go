package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/leofalp/llmcall/core/parse"
	"github.com/leofalp/llmcall/core/schema"
	"github.com/spf13/cobra"
)

func (a *app) newExtractCmd() *cobra.Command {
	var (
		schemaPath string
		repair     bool
	)

	cmd := &cobra.Command{
		Use:   "extract [FILE]",
		Short: "Extract a JSON object from model output",
		Long: `Reads model output from FILE, or stdin when FILE is omitted or "-", and
prints the JSON object found in it. With --schema the object is merged with
the schema defaults and checked against the declared kinds.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			data, err := readInput(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}

			ext := parse.NewExtractor(parse.WithRepair(repair || a.cfg.Invoke.RepairJSON))
			payload, strategy, err := ext.ExtractReport(string(data))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "strategy: %s\n", strategy)

			var out any = payload
			if schemaPath != "" {
				desc, err := schema.LoadFile(schemaPath)
				if err != nil {
					return err
				}
				value, err := schema.Instantiate(desc, payload)
				if err != nil {
					return fmt.Errorf("payload does not match schema %q: %w", desc.Name(), err)
				}
				out = value
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "YAML schema file")
	cmd.Flags().BoolVar(&repair, "repair", false, "repair malformed JSON before giving up")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}
