package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/sustainability-index/internal/replay"
)

// #region replay
type replayOutput struct {
	Results []replay.CaseResult `json:"results"`
	Summary replay.ReplaySummary `json:"summary"`
}

func newReplayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <fixture>",
		Short: "Replay a regression fixture (JSON or YAML)",
		Long: `Run every case of a fixture against a fresh scorer built from the fixture's
own calibration and scoring settings. Exits non-zero if any case fails.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := replay.LoadFixture(args[0])
			if err != nil {
				return err
			}
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			results, err := replay.Replay(f, e.logger)
			if err != nil {
				return err
			}
			sum := replay.Summarize(results)

			w := cmd.OutOrStdout()
			if opts.jsonOut {
				if err := printJSON(w, replayOutput{Results: results, Summary: sum}); err != nil {
					return err
				}
			} else {
				for _, r := range results {
					line := fmt.Sprintf("%-4s %s", r.Action, r.Name)
					if r.Reason != "" {
						line += ": " + r.Reason
					}
					fmt.Fprintln(w, line)
				}
				fmt.Fprintf(w, "cases=%d passed=%d failed=%d vetoed=%d\n",
					sum.TotalCases, sum.Passed, sum.Failed, sum.Vetoed)
			}
			if sum.Failed > 0 {
				return fmt.Errorf("%d of %d cases failed", sum.Failed, sum.TotalCases)
			}
			return nil
		},
	}
}

// #endregion replay

// #region export
func newExportCmd(opts *rootOptions) *cobra.Command {
	var last int
	cmd := &cobra.Command{
		Use:   "export <fixture out>",
		Short: "Export scored runs from the database as a replay fixture",
		Long: `Turn the most recent scored run_log rows into a regression fixture. The
output format follows the file extension (.json, otherwise YAML).`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if last < 1 {
				return usagef("--last must be at least 1")
			}
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			st, err := e.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(last)
			if err != nil {
				return err
			}
			sc := e.cfg.ScorerConfig()
			f := replay.FromRuns(runs, replay.FixtureConfig{
				Social:                           &sc.Social,
				Economic:                         &sc.Economic,
				Environmental:                    &sc.Environmental,
				Sustainability:                   &sc.Sustainability,
				Veto:                             &sc.Veto,
				RouteConservationToEnvironmental: sc.RouteConservationToEnvironmental,
			})
			if len(f.Cases) == 0 {
				return fmt.Errorf("no scored runs in %s", e.cfg.Database.Path)
			}
			if err := replay.WriteFixture(args[0], f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d cases to %s\n", len(f.Cases), args[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&last, "last", 40, "Number of most recent run_log rows to export")
	return cmd
}

// #endregion export
