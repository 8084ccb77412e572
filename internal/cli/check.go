package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/sustainability-index/internal/eval"
	"github.com/danielpatrickdp/sustainability-index/internal/pillar"
)

// #region check
type checkOutput struct {
	eval.EvalResult
	Suggested map[pillar.Pipeline]pillar.Calibration `json:"suggested_calibration,omitempty"`
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var tolerance float64
	var suggest bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the configured calibration maps each pipeline onto 0-100",
		Long: `Score the worst and best inputs of every pipeline and fail when either
lands further than --tolerance from 0 or 100. With --suggest, print the raw
centroids that would calibrate each pipeline exactly.

Examples:
  sustainability check
  sustainability check --config tuned.toml --suggest --json`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tolerance < 0 {
				return usagef("--tolerance must not be negative")
			}
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			config := eval.DefaultEvalConfig()
			config.Tolerance = tolerance
			out := checkOutput{EvalResult: eval.NewEvalHarness(config).Run(e.scorer)}

			if suggest {
				out.Suggested = make(map[pillar.Pipeline]pillar.Calibration)
				for _, p := range pillar.Pipelines() {
					c, err := eval.Calibrate(e.scorer, p)
					if err != nil {
						return err
					}
					out.Suggested[p] = c
				}
			}

			w := cmd.OutOrStdout()
			if opts.jsonOut {
				if err := printJSON(w, out); err != nil {
					return err
				}
			} else {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "METRIC\tVALUE\tPASS")
				for _, m := range out.Metrics {
					pass := fmt.Sprint(m.Pass)
					if m.Informational {
						pass += " (info)"
					}
					fmt.Fprintf(tw, "%s\t%.4f\t%s\n", m.Name, m.Value, pass)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				for _, p := range pillar.Pipelines() {
					if c, ok := out.Suggested[p]; ok {
						fmt.Fprintf(w, "suggested %-15s min_raw=%v max_raw=%v\n", p, c.MinRaw, c.MaxRaw)
					}
				}
				fmt.Fprintln(w, out.Reason)
			}
			if !out.Passed {
				return errors.New(out.Reason)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&tolerance, "tolerance", eval.DefaultEvalConfig().Tolerance, "Allowed distance from 0 and 100")
	cmd.Flags().BoolVar(&suggest, "suggest", false, "Print calibration constants derived from the rule base")
	return cmd
}

// #endregion check
