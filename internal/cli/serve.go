package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/sustainability-index/internal/rpc"
	"github.com/danielpatrickdp/sustainability-index/internal/store"
)

// #region serve
func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	var noStore bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scoring API over gRPC",
		Long: `Serve sustainability.v1.Scorer (Score and Assess) until interrupted.
Assess requests with save=true are persisted unless --no-store is given.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = e.cfg.Server.Addr
			}

			var st *store.Store
			if !noStore {
				if st, err = e.openStore(); err != nil {
					return err
				}
				defer st.Close()
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return rpc.Serve(ctx, addr, rpc.NewServer(e.assessor(st), e.logger))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "Serve without a database")
	return cmd
}

// #endregion serve
