package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Manufactura-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Manufactura-api/pkg/config"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones del esquema PostgreSQL",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			if cfg.DB.Driver != config.StoreDriverPostgres {
				return fmt.Errorf("migrate requiere STORE_DRIVER=postgres (actual: %s)", cfg.DB.Driver)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := postgres.MigrateUp(cfg.DB.ConnectionString()); err != nil {
				return err
			}
			log.Info().Msg("migraciones aplicadas")
			return nil
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revierte migraciones",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps <= 0 {
				return fmt.Errorf("--steps debe ser mayor que cero")
			}
			if err := postgres.MigrateDown(cfg.DB.ConnectionString(), steps); err != nil {
				return err
			}
			log.Info().Int("steps", steps).Msg("migraciones revertidas")
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "número de migraciones a revertir")
	cmd.AddCommand(down)
	return cmd
}
