// erpctl tareas operativas: migraciones, conciliación de disposiciones y planificador.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Manufactura-api/pkg/config"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

var (
	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:           "erpctl",
	Short:         "Herramientas de operación del servicio de calidad",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		cfg = c
		log = logger.New(logger.Config{Env: c.App.Env, Level: c.App.LogLevel, Service: "erpctl"})
		return nil
	},
}

func main() {
	rootCmd.AddCommand(newMigrateCmd(), newReconcileCmd(), newCronCmd())
	if err := rootCmd.Execute(); err != nil {
		if log != nil {
			log.Error().Err(err).Msg("erpctl")
		} else {
			os.Stderr.WriteString("erpctl: " + err.Error() + "\n")
		}
		os.Exit(1)
	}
}
