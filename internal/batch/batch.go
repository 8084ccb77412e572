package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/sustainability-index/internal/assess"
	"github.com/danielpatrickdp/sustainability-index/internal/indicators"
)

// #region types
// Result is the outcome for one profile, in input order.
type Result struct {
	Index      int                `json:"index"`
	FarmID     string             `json:"farm_id"`
	Assessment *assess.Assessment `json:"assessment,omitempty"`
	Err        error              `json:"-"`
	Error      string             `json:"error,omitempty"`
}

// Summary counts batch outcomes.
type Summary struct {
	Total    int           `json:"total"`
	Scored   int           `json:"scored"`
	Failed   int           `json:"failed"`
	Vetoed   int           `json:"vetoed"`
	Skipped  int           `json:"skipped"` // not started before cancellation
	Duration time.Duration `json:"duration_ns"`
}

// Options configures a Runner.
type Options struct {
	Workers int
	Save    bool // persist through AssessAndSave
}

// #endregion types

// #region runner
// Runner assesses many profiles with a bounded number of workers.
type Runner struct {
	assessor *assess.Assessor
	opts     Options
	logger   *slog.Logger
}

// NewRunner creates a runner. Workers below 1 run one at a time.
func NewRunner(a *assess.Assessor, opts Options, logger *slog.Logger) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{assessor: a, opts: opts, logger: logger}
}

// Run assesses every profile. A failing profile does not stop the others;
// its error is set on its Result. Cancelling ctx stops scheduling new work:
// unstarted profiles get ctx.Err() and Run returns it.
func (r *Runner) Run(ctx context.Context, profiles []indicators.FarmProfile) ([]Result, Summary, error) {
	start := time.Now()
	results := make([]Result, len(profiles))

	var g errgroup.Group
	g.SetLimit(r.opts.Workers)

	for i, p := range profiles {
		results[i] = Result{Index: i, FarmID: p.FarmID}
		if ctx.Err() != nil {
			results[i].Err = ctx.Err()
			continue
		}
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			var a assess.Assessment
			var err error
			if r.opts.Save {
				a, err = r.assessor.AssessAndSave(p)
			} else {
				a, err = r.assessor.Assess(p)
			}
			if err != nil {
				results[i].Err = err
				r.logger.Warn("batch profile failed", "index", i, "farm_id", p.FarmID, "err", err)
				return nil
			}
			results[i].Assessment = &a
			return nil
		})
	}
	// Workers never return errors; per-profile failures live on Result.
	_ = g.Wait()

	sum := Summary{Total: len(results), Duration: time.Since(start)}
	for i := range results {
		res := &results[i]
		switch {
		case res.Err == nil:
			sum.Scored++
			if res.Assessment.Sustainability.Veto != nil {
				sum.Vetoed++
			}
		case errors.Is(res.Err, context.Canceled), errors.Is(res.Err, context.DeadlineExceeded):
			sum.Skipped++
			res.Error = res.Err.Error()
		default:
			sum.Failed++
			res.Error = res.Err.Error()
		}
	}
	r.logger.Info("batch complete",
		"total", sum.Total, "scored", sum.Scored, "failed", sum.Failed, "skipped", sum.Skipped)
	return results, sum, ctx.Err()
}

// #endregion runner

// #region load
// LoadProfiles reads a list of farm profiles from a YAML or JSON file.
func LoadProfiles(path string) ([]indicators.FarmProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	return ParseProfiles(data, filepath.Ext(path))
}

// ParseProfiles decodes profiles by file extension. A single profile
// document is accepted as a one-element list.
func ParseProfiles(data []byte, ext string) ([]indicators.FarmProfile, error) {
	var list []indicators.FarmProfile
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &list); err != nil {
			var one indicators.FarmProfile
			if errOne := json.Unmarshal(data, &one); errOne != nil {
				return nil, fmt.Errorf("decode profiles: %w", err)
			}
			list = []indicators.FarmProfile{one}
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &list); err != nil {
			var one indicators.FarmProfile
			if errOne := yaml.Unmarshal(data, &one); errOne != nil {
				return nil, fmt.Errorf("decode profiles: %w", err)
			}
			list = []indicators.FarmProfile{one}
		}
	default:
		return nil, fmt.Errorf("unsupported profile format %q", ext)
	}
	return list, nil
}

// #endregion load
