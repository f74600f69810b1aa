package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/bukafresh-client/internal/app/bukafresh"
)

func (r *runner) pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the backend is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *bukafresh.App) error {
				if err := a.API.Ping(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			})
		},
	}
}

// serveCmd поднимает локальный JSON API. Логгер берётся по окружению:
// local пишет текстом, dev и prod в JSON.
func (r *runner) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the local JSON API until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			r.server = true
			return r.withApp(cmd, func(ctx context.Context, a *bukafresh.App) error {
				if err := a.Run(ctx); err != nil {
					return err
				}
				a.Logger().Info("local api stopped")
				return nil
			})
		},
	}
}
