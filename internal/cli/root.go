package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/sustainability-index/internal/assess"
	"github.com/danielpatrickdp/sustainability-index/internal/config"
	"github.com/danielpatrickdp/sustainability-index/internal/logging"
	"github.com/danielpatrickdp/sustainability-index/internal/pillar"
	"github.com/danielpatrickdp/sustainability-index/internal/reference"
	"github.com/danielpatrickdp/sustainability-index/internal/store"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitRuntime = 1
	ExitUsage   = 2
)

// #region usage-error
// UsageError marks an error caused by how the command was invoked.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

func usagef(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// usageArgs wraps a cobra argument validator so its failures exit with 2.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}

// #endregion usage-error

// #region root
type rootOptions struct {
	configPath string
	dbPath     string
	jsonOut    bool
}

// NewRootCmd builds the sustainability command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "sustainability",
		Short: "Fuzzy sustainability index for farms",
		Long: `Score farms on social, economic and environmental pillars with Mamdani
fuzzy inference, and aggregate the pillars into a sustainability index.

Examples:
  sustainability score economic --input dl=0.35 --input fv=20 --input p=3500 --input wi=4
  sustainability assess farm.yaml --save
  sustainability batch farms.yaml --workers 8 --json
  sustainability replay testdata/golden.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "TOML config file (default $"+config.EnvConfig+")")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides config)")
	cmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "Output as JSON")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	cmd.AddCommand(
		newScoreCmd(opts),
		newDescribeCmd(opts),
		newAssessCmd(opts),
		newBatchCmd(opts),
		newReplayCmd(opts),
		newExportCmd(opts),
		newInspectCmd(opts),
		newServeCmd(opts),
		newCheckCmd(opts),
	)
	return cmd
}

// Execute runs the command tree and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.Execute()
	if err == nil {
		return ExitOK
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	var ue *UsageError
	if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown command") {
		return ExitUsage
	}
	return ExitRuntime
}

// #endregion root

// #region env
// env is the per-invocation wiring shared by subcommands.
type env struct {
	cfg    config.Config
	logger *slog.Logger
	scorer *pillar.Scorer
	table  reference.Table
}

func (o *rootOptions) load(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	logger, err := logging.New(cfg.LogOptions(), cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	scorer, err := pillar.NewScorer(cfg.ScorerConfig(), logger)
	if err != nil {
		return nil, err
	}
	table, err := cfg.ReferenceTable()
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, scorer: scorer, table: table}, nil
}

func (e *env) openStore() (*store.Store, error) {
	st, err := store.NewStore(e.cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", e.cfg.Database.Path, err)
	}
	return st, nil
}

func (e *env) assessor(st *store.Store) *assess.Assessor {
	return assess.NewAssessor(e.scorer, e.table, st, e.logger)
}

// #endregion env
