package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/sustainability-index/internal/assess"
	"github.com/danielpatrickdp/sustainability-index/internal/batch"
	"github.com/danielpatrickdp/sustainability-index/internal/store"
)

// #region assess
func newAssessCmd(opts *rootOptions) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "assess <profile file>",
		Short: "Assess one farm profile (YAML or JSON)",
		Long: `Derive indicators from a farm survey profile, score the three pillars and
aggregate them. With --save the assessment and its run log are written to the
database.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := batch.LoadProfiles(args[0])
			if err != nil {
				return err
			}
			if len(profiles) != 1 {
				return usagef("%s holds %d profiles; use batch", args[0], len(profiles))
			}
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}

			var st *store.Store
			if save {
				if st, err = e.openStore(); err != nil {
					return err
				}
				defer st.Close()
			}
			a := e.assessor(st)

			var out assess.Assessment
			if save {
				out, err = a.AssessAndSave(profiles[0])
			} else {
				out, err = a.Assess(profiles[0])
			}
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return printJSON(cmd.OutOrStdout(), out)
			}
			printAssessment(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Persist the assessment")
	return cmd
}

func printAssessment(w io.Writer, a assess.Assessment) {
	fmt.Fprintf(w, "farm %s (%s)", a.FarmID, a.Region)
	if a.ID != "" {
		fmt.Fprintf(w, "  id=%s", a.ID)
	}
	fmt.Fprintln(w)
	if len(a.Indicators.Clamped) > 0 {
		fmt.Fprintf(w, "  clamped: %v\n", a.Indicators.Clamped)
	}
	printScore(w, a.Social)
	printScore(w, a.Economic)
	printScore(w, a.Environmental)
	printScore(w, a.Sustainability)
}

// #endregion assess

// #region batch
type batchOutput struct {
	Results []batch.Result `json:"results"`
	Summary batch.Summary  `json:"summary"`
}

func newBatchCmd(opts *rootOptions) *cobra.Command {
	var save bool
	var workers int
	cmd := &cobra.Command{
		Use:   "batch <profiles file>",
		Short: "Assess many farm profiles concurrently",
		Long: `Assess every profile in a YAML or JSON list. A failing profile does not stop
the others; the command exits non-zero if any profile failed.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := batch.LoadProfiles(args[0])
			if err != nil {
				return err
			}
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = e.cfg.Batch.Workers
			}

			var st *store.Store
			if save {
				if st, err = e.openStore(); err != nil {
					return err
				}
				defer st.Close()
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			runner := batch.NewRunner(e.assessor(st), batch.Options{Workers: workers, Save: save}, e.logger)
			results, sum, err := runner.Run(ctx, profiles)

			w := cmd.OutOrStdout()
			if opts.jsonOut {
				if perr := printJSON(w, batchOutput{Results: results, Summary: sum}); perr != nil {
					return perr
				}
			} else {
				for _, r := range results {
					if r.Assessment == nil {
						fmt.Fprintf(w, "%3d %-20s error: %s\n", r.Index, r.FarmID, r.Error)
						continue
					}
					s := r.Assessment.Sustainability
					veto := ""
					if s.Veto != nil {
						veto = "  vetoed"
					}
					fmt.Fprintf(w, "%3d %-20s %6.2f  %s%s\n", r.Index, r.FarmID, s.Value, s.Band, veto)
				}
				fmt.Fprintf(w, "total=%d scored=%d failed=%d vetoed=%d skipped=%d\n",
					sum.Total, sum.Scored, sum.Failed, sum.Vetoed, sum.Skipped)
			}
			if err != nil {
				return err
			}
			if sum.Failed > 0 {
				return fmt.Errorf("%d of %d profiles failed", sum.Failed, sum.Total)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Persist every assessment")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent workers (default from config)")
	return cmd
}

// #endregion batch
