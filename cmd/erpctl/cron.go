package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

func newCronCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cron",
		Short: "Ejecuta la conciliación según RECONCILE_SCHEDULE hasta recibir SIGINT/SIGTERM",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c := cron.New()
			_, err := c.AddFunc(cfg.Reconcile.Schedule, func() {
				report, err := runReconcile(ctx, cfg.Reconcile.Lookback)
				if err != nil {
					log.Error().Err(err).Msg("conciliación programada")
					return
				}
				if !report.Clean() {
					log.Warn().Int("discrepancies", len(report.Discrepancies)).Msg("conciliación con discrepancias")
				}
			})
			if err != nil {
				return err
			}
			c.Start()
			log.Info().Str("schedule", cfg.Reconcile.Schedule).Msg("planificador iniciado")

			<-ctx.Done()
			<-c.Stop().Done()
			log.Info().Msg("planificador detenido")
			return nil
		},
	}
}
