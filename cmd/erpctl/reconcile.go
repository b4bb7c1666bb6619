package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Manufactura-api/internal/application/qa"
	"github.com/jhoicas/Manufactura-api/internal/bootstrap"
)

func newReconcileCmd() *cobra.Command {
	var lookback time.Duration
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Audita el libro de movimientos de las disposiciones recientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if lookback <= 0 {
				lookback = cfg.Reconcile.Lookback
			}
			report, err := runReconcile(cmd.Context(), lookback)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if !report.Clean() {
				return fmt.Errorf("%d discrepancias en %d disposiciones", len(report.Discrepancies), report.Checked)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&lookback, "since", 0, "ventana hacia atrás (por defecto RECONCILE_LOOKBACK_HOURS)")
	return cmd
}

func runReconcile(ctx context.Context, lookback time.Duration) (*qa.ReconcileReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := bootstrap.OpenStore(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return qa.NewReconcileUseCase(store.Repos, log).Run(ctx, time.Now().Add(-lookback))
}
