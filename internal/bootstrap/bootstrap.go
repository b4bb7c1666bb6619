// Package bootstrap arma almacenamiento y notificaciones según la configuración; lo comparten cmd/api y cmd/erpctl.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/Manufactura-api/internal/application/qa"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/memory"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/notify"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Manufactura-api/pkg/config"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// Store repositorios fuera de transacción más el ejecutor de transacciones.
type Store struct {
	TxRunner qa.TxRunner
	Repos    repository.Repos
	Close    func()
}

// OpenStore abre PostgreSQL (aplicando migraciones si DB_AUTO_MIGRATE) o el almacén en memoria.
func OpenStore(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("usando almacén en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &Store{TxRunner: memory.NewTxRunner(s), Repos: s.Repos(), Close: func() {}}, nil

	case config.StoreDriverPostgres:
		if cfg.AutoMigrate {
			if err := postgres.MigrateUp(cfg.ConnectionString()); err != nil {
				return nil, err
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return &Store{TxRunner: postgres.NewTxRunner(pool), Repos: postgres.NewRepos(pool), Close: pool.Close}, nil

	default:
		return nil, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.Driver)
	}
}

// Notifier con REDIS_URL publica en Redis y arranca el relé hacia el hub local; sin Redis publica directo al hub.
// El relé vive hasta que ctx termina.
func Notifier(ctx context.Context, cfg config.RedisConfig, hub *notify.Hub, log *logger.Logger) (qa.Notifier, func(), error) {
	if cfg.URL == "" {
		return hub, func() {}, nil
	}
	client, err := notify.NewRedisClient(ctx, cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	relay := notify.NewRedisRelay(client, cfg.Channel, hub, log)
	go func() {
		if err := relay.Run(ctx); err != nil {
			log.Error().Err(err).Msg("relé de notificaciones detenido")
		}
	}()
	return notify.NewRedisPublisher(client, cfg.Channel), func() { _ = client.Close() }, nil
}
