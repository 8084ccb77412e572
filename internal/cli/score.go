package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/sustainability-index/internal/pillar"
)

// #region score
func newScoreCmd(opts *rootOptions) *cobra.Command {
	var inputs []string
	cmd := &cobra.Command{
		Use:   "score <pipeline>",
		Short: "Score one pipeline on crisp inputs",
		Long: `Evaluate one pipeline (social, economic, environmental, sustainability)
on named crisp inputs. Inputs outside a variable's declared bounds are rejected.

Examples:
  sustainability score sustainability --input economic=50 --input social=50 --input environmental=50
  sustainability score environmental --input runoff=0.5 --input fo=0.3 --input fuel_per_area=39 --json`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pillar.ParsePipeline(args[0])
			if err != nil {
				return &UsageError{Err: err}
			}
			values, err := parseInputs(inputs)
			if err != nil {
				return err
			}
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			score, err := e.scorer.Score(p, values)
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return printJSON(cmd.OutOrStdout(), score)
			}
			printScore(cmd.OutOrStdout(), score)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&inputs, "input", "i", nil, "Input as name=value (repeatable)")
	return cmd
}

// parseInputs turns name=value pairs into an input map.
func parseInputs(pairs []string) (map[string]float64, error) {
	values := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, usagef("input %q: want name=value", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, usagef("input %q: %v", pair, err)
		}
		if _, dup := values[name]; dup {
			return nil, usagef("input %q given twice", name)
		}
		values[name] = v
	}
	return values, nil
}

// #endregion score

// #region describe
type describeOutput struct {
	Pipeline    pillar.Pipeline    `json:"pipeline"`
	Inputs      []string           `json:"inputs"`
	Calibration pillar.Calibration `json:"calibration"`
	Rules       []string           `json:"rules"`
}

func newDescribeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "describe [pipeline]",
		Short: "Show a pipeline's inputs, calibration and rule base",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipelines := pillar.Pipelines()
			if len(args) == 1 {
				p, err := pillar.ParsePipeline(args[0])
				if err != nil {
					return &UsageError{Err: err}
				}
				pipelines = []pillar.Pipeline{p}
			}
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}

			var out []describeOutput
			for _, p := range pipelines {
				sys, err := e.scorer.System(p)
				if err != nil {
					return err
				}
				d := describeOutput{Pipeline: p, Calibration: e.cfg.ScorerConfig().Calibration(p)}
				d.Inputs = append(d.Inputs, sys.RequiredInputs()...)
				sort.Strings(d.Inputs)
				for _, r := range sys.Rules() {
					d.Rules = append(d.Rules, r.String())
				}
				out = append(out, d)
			}
			if opts.jsonOut {
				return printJSON(cmd.OutOrStdout(), out)
			}
			w := cmd.OutOrStdout()
			for _, d := range out {
				fmt.Fprintf(w, "%s  inputs=%s  calibration=[%g, %g]\n",
					d.Pipeline, strings.Join(d.Inputs, ","), d.Calibration.MinRaw, d.Calibration.MaxRaw)
				for i, r := range d.Rules {
					fmt.Fprintf(w, "  %2d. %s\n", i+1, r)
				}
			}
			return nil
		},
	}
}

// #endregion describe
