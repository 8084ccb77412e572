package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/sustainability-index/internal/store"
)

// #region inspect
func newInspectCmd(opts *rootOptions) *cobra.Command {
	var (
		last   int
		id     string
		farmID string
		runs   bool
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show stored assessments or the run log",
		Long: `List recent assessments, one assessment by id, a farm's history, or the
scoring run log.

Examples:
  sustainability inspect --last 5
  sustainability inspect --id 3f1c...
  sustainability inspect --farm farm-1
  sustainability inspect --runs --json`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if last < 1 {
				return usagef("--last must be at least 1")
			}
			if id != "" && (farmID != "" || runs) {
				return usagef("--id cannot be combined with --farm or --runs")
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

			w := cmd.OutOrStdout()
			switch {
			case runs:
				rows, err := st.ListRuns(last)
				if err != nil {
					return err
				}
				if opts.jsonOut {
					return printJSON(w, rows)
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tRUN\tPIPELINE\tOUTCOME\tSCORE\tERROR")
				for _, r := range rows {
					score := "-"
					if r.Score != nil {
						score = fmt.Sprintf("%.2f", *r.Score)
					}
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.RunID, r.Pipeline, r.Outcome, score, r.ErrorKind)
				}
				return tw.Flush()

			case id != "":
				rec, err := st.Get(id)
				if err != nil {
					return err
				}
				if opts.jsonOut {
					return printJSON(w, rec)
				}
				return printRecords(w, []store.AssessmentRecord{rec})

			default:
				var recs []store.AssessmentRecord
				if farmID != "" {
					recs, err = st.ListByFarm(farmID, last)
				} else {
					recs, err = st.List(last)
				}
				if err != nil {
					return err
				}
				if opts.jsonOut {
					return printJSON(w, recs)
				}
				return printRecords(w, recs)
			}
		},
	}
	cmd.Flags().IntVar(&last, "last", 10, "Number of most recent rows")
	cmd.Flags().StringVar(&id, "id", "", "Show one assessment")
	cmd.Flags().StringVar(&farmID, "farm", "", "Only this farm's assessments")
	cmd.Flags().BoolVar(&runs, "runs", false, "Show the run log instead of assessments")
	return cmd
}

func printRecords(w io.Writer, recs []store.AssessmentRecord) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFARM\tREGION\tSOCIAL\tECONOMIC\tENV\tSUST\tBAND\tVETO\tCREATED")
	for _, r := range recs {
		veto := ""
		if r.Vetoed {
			veto = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%s\t%s\t%s\n",
			r.ID, r.FarmID, r.Region, r.Social, r.Economic, r.Environmental, r.Sustainability,
			r.Band, veto, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

// #endregion inspect
