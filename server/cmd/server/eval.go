package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/propdash/propdash/pkg/types"
	"github.com/propdash/propdash/server/internal/compute"
)

func newEvalCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a snapshot file once and print the report as JSON",
		Example: `  propdash-server eval --file snapshot.json
  propdash-server eval -c config.yaml -f snapshot.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return evalFile(cmd.OutOrStdout(), cfg.EngineConfig(), file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "snapshot JSON file, or - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// evalFile evaluates the snapshot in path with cfg and writes the report to w.
func evalFile(w io.Writer, cfg compute.Config, path string) error {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("eval: open %q: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var snap types.RawSnapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("eval: parse snapshot: %w", err)
	}

	eng, err := compute.NewEngine(cfg)
	if err != nil {
		return err
	}
	rep, err := eng.Evaluate(&snap, nil)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
